package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, 600.0, cfg.MaxDurationS)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 30*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, "nature", cfg.DefaultPreset)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MACH_ADDR", ":9000")
	t.Setenv("MACH_MAX_UPLOAD_MB", "10")
	t.Setenv("MACH_LOG_LEVEL", "debug")
	t.Setenv("MACH_DECODE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.DecodeTimeout)

	// Untouched fields keep their defaults
	assert.Equal(t, "nature", cfg.DefaultPreset)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\nmax_upload_mb: 25\n"), 0o644))
	t.Setenv("MACH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 25, cfg.MaxUploadMB)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\n"), 0o644))
	t.Setenv("MACH_CONFIG", path)
	t.Setenv("MACH_ADDR", ":9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("MACH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownPreset(t *testing.T) {
	t.Setenv("MACH_DEFAULT_PRESET", "dubstep")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_preset")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero upload cap", func(c *Config) { c.MaxUploadMB = 0 }},
		{"negative duration cap", func(c *Config) { c.MaxDurationS = -1 }},
		{"zero decode timeout", func(c *Config) { c.DecodeTimeout = 0 }},
		{"bad preset", func(c *Config) { c.DefaultPreset = "nope" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	valid := New()
	assert.NoError(t, valid.Validate())

	// Zero duration cap means unlimited and is allowed
	unlimited := New()
	unlimited.MaxDurationS = 0
	assert.NoError(t, unlimited.Validate())
}
