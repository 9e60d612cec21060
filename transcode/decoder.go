package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/birdmach/mach/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxDuration      time.Duration `json:"max_duration"` // 0 means no limit
	FFmpegPath       string        `json:"ffmpeg_path"`
	FFprobePath      string        `json:"ffprobe_path"`
	Timeout          time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 22050,
		MaxDuration:      0,
		FFmpegPath:       "ffmpeg",  // Assume in PATH
		FFprobePath:      "ffprobe", // Assume in PATH
		Timeout:          30 * time.Second,
	}
}

// Decoder handles audio decoding. WAV files at the target rate decode
// natively; everything else goes through FFmpeg with soxr resampling.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes an audio file into mono PCM at the target sample rate
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"filename":  filename,
	})

	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("%w: input audio not found: %s", ErrAudioLoad, filename)
	}

	if strings.EqualFold(filepath.Ext(filename), ".wav") {
		audio, err := decodeWAVFile(filename)
		if err == nil && audio.SampleRate == d.config.TargetSampleRate {
			logger.Debug("Decoded WAV natively", logging.Fields{
				"samples":     len(audio.PCM),
				"sample_rate": audio.SampleRate,
			})
			return d.checkDuration(audio)
		}
		// Wrong rate or odd encoding: let ffmpeg handle it
	}

	audio, err := d.decodeWithFFmpeg(ctx, filename)
	if err != nil {
		logger.Error(err, "FFmpeg decode failed")
		return nil, err
	}

	return d.checkDuration(audio)
}

// Probe returns metadata for an audio file without decoding it
func (d *Decoder) Probe(ctx context.Context, filename string) (*AudioInfo, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioLoad, err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.config.FFprobePath,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels,codec_name:format=duration,format_name",
		"-of", "json",
		filename,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe struct {
		Streams []struct {
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			CodecName  string `json:"codec_name"`
		} `json:"streams"`
		Format struct {
			Duration   string `json:"duration"`
			FormatName string `json:"format_name"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe output parse failed: %w", err)
	}

	info := &AudioInfo{
		Path:      filename,
		SizeBytes: fi.Size(),
		Format:    probe.Format.FormatName,
	}

	if probe.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.DurationS = dur
		}
	}

	if len(probe.Streams) > 0 {
		s := probe.Streams[0]
		info.Channels = s.Channels
		info.Codec = s.CodecName
		if sr, err := strconv.Atoi(s.SampleRate); err == nil {
			info.SampleRate = sr
		}
	}

	return info, nil
}

// decodeWithFFmpeg shells out to ffmpeg, reading raw f64le mono samples
// from stdout
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, filename string) (*AudioData, error) {
	args := []string{
		"-v", "error",
		"-i", filename,
		"-map", "0:a:0?",
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"-af", fmt.Sprintf("aresample=%d:resampler=soxr", d.config.TargetSampleRate),
	}

	if d.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.config.MaxDuration.Seconds()))
	}

	args = append(args, "pipe:1")

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: ffmpeg: %v, stderr: %s", ErrAudioLoad, err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("%w: ffmpeg: %v", ErrAudioLoad, err)
	}

	pcm := bytesToFloat64(output)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyAudio, filename)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   time.Duration(len(pcm)) * time.Second / time.Duration(d.config.TargetSampleRate),
		Source:     filename,
	}, nil
}

func (d *Decoder) checkDuration(audio *AudioData) (*AudioData, error) {
	if d.config.MaxDuration > 0 && audio.Duration > d.config.MaxDuration {
		return nil, &TooLongError{
			DurationS: audio.Duration.Seconds(),
			MaxS:      d.config.MaxDuration.Seconds(),
		}
	}
	return audio, nil
}

// bytesToFloat64 reinterprets raw f64le bytes as samples
func bytesToFloat64(data []byte) []float64 {
	n := len(data) / 8
	samples := make([]float64, n)
	for i := range n {
		bits := binary.LittleEndian.Uint64(data[i*8:])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
