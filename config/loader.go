package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/birdmach/mach/features"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MACH_CONFIG is set
//  3. env (prefix MACH_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MACH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: MACH_ADDR, MACH_MAX_UPLOAD_MB, ...
	// Keys map MACH_MAX_UPLOAD_MB -> max_upload_mb to match koanf tags.
	envProvider := env.Provider("MACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "mach_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.MaxDurationS < 0 {
		return fmt.Errorf("max_duration_s must not be negative, got %g", c.MaxDurationS)
	}
	if c.DecodeTimeout <= 0 {
		return fmt.Errorf("decode_timeout must be positive, got %s", c.DecodeTimeout)
	}
	if c.DefaultPreset != "" {
		if _, ok := features.GetPreset(c.DefaultPreset); !ok {
			return fmt.Errorf("unknown default_preset %q, valid: %s",
				c.DefaultPreset, strings.Join(features.PresetNames(), ", "))
		}
	}
	return nil
}
