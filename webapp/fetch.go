package webapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/birdmach/mach/transcode"
)

const fetchTimeout = 30 * time.Second

// fetchAudioFromURL downloads audio from an http(s) URL, enforcing a
// read cap of maxBytes. Returns the payload and a filename derived from
// the URL path.
func fetchAudioFromURL(ctx context.Context, rawURL string, maxBytes int64) ([]byte, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse audio URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("only http/https URLs are supported, got %q", parsed.Scheme)
	}

	filename := path.Base(parsed.Path)
	if filename == "" || filename == "." || filename == "/" {
		filename = "remote_audio.wav"
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", "Mach/0.2")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch audio: unexpected status %s", resp.Status)
	}

	if resp.ContentLength > maxBytes {
		return nil, "", &transcode.TooLargeError{
			SizeMB: float64(resp.ContentLength) / (1024 * 1024),
			MaxMB:  float64(maxBytes) / (1024 * 1024),
		}
	}

	data, err := readCapped(resp.Body, maxBytes)
	if err != nil {
		return nil, "", err
	}
	return data, filename, nil
}

// readCapped reads from r, rejecting payloads larger than maxBytes
// instead of silently truncating them.
func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, &transcode.TooLargeError{
			SizeMB: float64(len(data)) / (1024 * 1024),
			MaxMB:  float64(maxBytes) / (1024 * 1024),
		}
	}
	return data, nil
}
