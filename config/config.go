// Package config defines service configuration and its layered loading.
package config

import (
	"time"
)

// Config contains process configuration for the server and CLIs.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MaxUploadMB caps the size of uploaded or fetched audio in megabytes.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// MaxDurationS caps decoded audio duration in seconds. Zero disables
	// the check.
	MaxDurationS float64 `koanf:"max_duration_s"`

	// FFmpegPath and FFprobePath locate the external decode tools.
	FFmpegPath  string `koanf:"ffmpeg_path"`
	FFprobePath string `koanf:"ffprobe_path"`

	// DecodeTimeout bounds a single ffmpeg/ffprobe invocation.
	DecodeTimeout time.Duration `koanf:"decode_timeout"`

	// DefaultPreset names the feature preset applied when a request
	// does not choose one.
	DefaultPreset string `koanf:"default_preset"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Addr:          ":8000",
		LogLevel:      "info",
		MaxUploadMB:   50,
		MaxDurationS:  600,
		FFmpegPath:    "ffmpeg",
		FFprobePath:   "ffprobe",
		DecodeTimeout: 30 * time.Second,
		DefaultPreset: "nature",
	}
}
