package features

import (
	"fmt"

	"github.com/birdmach/mach/dsp/spectral"
	"github.com/birdmach/mach/dsp/windowing"
)

// Frames holds per-frame log-mel features and companion series.
// X is nFrames x nMels; Times and Energy have one entry per frame.
type Frames struct {
	X        [][]float64 `json:"x"`        // Log-mel features in dB
	Times    []float64   `json:"times_s"`  // Frame center times in seconds
	Energy   []float64   `json:"energy"`   // Mean mel power per frame
	Flatness []float64   `json:"flatness"` // Spectral flatness per frame
	NMels    int         `json:"n_mels"`
}

// NumFrames returns the number of frames
func (f *Frames) NumFrames() int {
	return len(f.X)
}

// Extractor computes log-mel frames from PCM
type Extractor struct {
	cfg    Config
	stft   *spectral.STFT
	mel    *spectral.MelScale
	toDB   *spectral.PowerToDB
	flat   *spectral.SpectralFlatness
	window *windowing.Hann
}

// NewExtractor creates an extractor for the given configuration
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		cfg:    cfg,
		stft:   spectral.NewSTFT(),
		mel:    spectral.NewMelScale(),
		toDB:   spectral.NewPowerToDB(),
		flat:   spectral.NewSpectralFlatness(),
		window: windowing.NewHann(cfg.NFFT, false),
	}, nil
}

// ExtractLogMel converts mono PCM into log-mel frames. The signal is
// center-padded so frame k sits at time k*hop/sr.
func (e *Extractor) ExtractLogMel(pcm []float64, sampleRate int) (*Frames, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if sampleRate != e.cfg.SampleRate {
		return nil, fmt.Errorf("signal sample rate %d does not match config %d", sampleRate, e.cfg.SampleRate)
	}

	stftResult, err := e.stft.ComputeCentered(pcm, e.cfg.NFFT, e.cfg.HopLength, sampleRate, e.window)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	filterBank := e.mel.CreateMelFilterBank(e.cfg.NMels, e.cfg.NFFT, sampleRate, e.cfg.FMin, e.cfg.EffectiveFMax())
	melPower := e.mel.ComputeMelSpectrogramFrames(stftResult.Magnitude, filterBank)

	logMel := e.toDB.Convert(melPower)

	nFrames := len(logMel)
	times := make([]float64, nFrames)
	energy := make([]float64, nFrames)
	for t := range nFrames {
		times[t] = float64(t*e.cfg.HopLength) / float64(sampleRate)

		sum := 0.0
		for _, v := range melPower[t] {
			sum += v
		}
		energy[t] = sum / float64(len(melPower[t]))
	}

	flatness := e.flat.ComputeFrames(stftResult.Magnitude)

	return &Frames{
		X:        logMel,
		Times:    times,
		Energy:   energy,
		Flatness: flatness,
		NMels:    e.cfg.NMels,
	}, nil
}

// MelFrequencies returns the mel band center frequencies for axis labeling
func (e *Extractor) MelFrequencies() []float64 {
	return e.mel.MelFrequencies(e.cfg.NMels, e.cfg.FMin, e.cfg.EffectiveFMax())
}

// Stride keeps every n-th frame. A stride of 1 or less is the identity.
func Stride(f *Frames, n int) *Frames {
	if n <= 1 {
		return f
	}

	out := &Frames{NMels: f.NMels}
	for i := 0; i < len(f.X); i += n {
		out.X = append(out.X, f.X[i])
		out.Times = append(out.Times, f.Times[i])
		out.Energy = append(out.Energy, f.Energy[i])
		if i < len(f.Flatness) {
			out.Flatness = append(out.Flatness, f.Flatness[i])
		}
	}
	return out
}
