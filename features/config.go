package features

import (
	"fmt"
)

// Config holds parameters for log-mel feature extraction
type Config struct {
	SampleRate int     `json:"sample_rate"` // Target sample rate (default: 22050)
	NFFT       int     `json:"n_fft"`       // FFT window size (default: 2048)
	HopLength  int     `json:"hop_length"`  // Hop between frames (default: 512)
	NMels      int     `json:"n_mels"`      // Mel bands (default: 128)
	FMin       float64 `json:"fmin"`        // Low frequency bound (default: 20)
	FMax       float64 `json:"fmax"`        // High frequency bound; 0 means Nyquist
}

// DefaultConfig returns the default feature extraction configuration
func DefaultConfig() Config {
	return Config{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  512,
		NMels:      128,
		FMin:       20.0,
		FMax:       0,
	}
}

// Validate checks parameter ranges
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.NFFT <= 0 {
		return fmt.Errorf("n_fft must be positive, got %d", c.NFFT)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("hop_length must be positive, got %d", c.HopLength)
	}
	if c.NMels <= 0 {
		return fmt.Errorf("n_mels must be positive, got %d", c.NMels)
	}
	if c.FMin < 0 {
		return fmt.Errorf("fmin must be non-negative, got %f", c.FMin)
	}
	nyquist := float64(c.SampleRate) / 2.0
	if c.FMax > nyquist {
		return fmt.Errorf("fmax %.1f exceeds Nyquist %.1f", c.FMax, nyquist)
	}
	if c.FMax > 0 && c.FMax <= c.FMin {
		return fmt.Errorf("fmax %.1f must exceed fmin %.1f", c.FMax, c.FMin)
	}
	return nil
}

// EffectiveFMax resolves the high frequency bound, defaulting to Nyquist
func (c Config) EffectiveFMax() float64 {
	if c.FMax > 0 {
		return c.FMax
	}
	return float64(c.SampleRate) / 2.0
}
