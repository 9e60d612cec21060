package webapp

import (
	"path/filepath"
	"sort"
	"strings"
)

// supportedAudioExtensions lists the upload formats the decoder accepts.
var supportedAudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".wma":  true,
}

// ValidateAudioExtension reports whether filename carries a supported
// audio extension.
func ValidateAudioExtension(filename string) bool {
	return supportedAudioExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SupportedExtensions returns the accepted extensions in sorted order.
func SupportedExtensions() []string {
	out := make([]string, 0, len(supportedAudioExtensions))
	for ext := range supportedAudioExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Clamp bounds a float to [low, high].
func Clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// ClampInt bounds an int to [low, high].
func ClampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// SanitizeURL trims the URL and rejects anything that is not plain
// http(s). Returns "" when the URL is unusable.
func SanitizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ""
	}
	return url
}
