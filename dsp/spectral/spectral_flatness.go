package spectral

import (
	"math"
)

// SpectralFlatness computes spectral flatness (Wiener entropy).
// Values near 1.0 indicate noise-like content; values near 0.0 indicate
// tonal content. Used for point coloring and content tagging.
type SpectralFlatness struct {
	minThreshold float64 // Minimum value to avoid log(0)
}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness() *SpectralFlatness {
	return &SpectralFlatness{
		minThreshold: 1e-10,
	}
}

// Compute calculates flatness for a single magnitude spectrum as the ratio
// of geometric mean to arithmetic mean of spectral power
func (sf *SpectralFlatness) Compute(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) == 0 {
		return 0.0
	}

	// Geometric mean in log domain for numerical stability
	logSum := 0.0
	arithmeticMean := 0.0

	for _, magnitude := range magnitudeSpectrum {
		power := magnitude * magnitude
		logSum += math.Log(math.Max(power, sf.minThreshold))
		arithmeticMean += power
	}

	geometricMean := math.Exp(logSum / float64(len(magnitudeSpectrum)))
	arithmeticMean /= float64(len(magnitudeSpectrum))

	if arithmeticMean <= sf.minThreshold {
		return 0.0
	}

	flatness := geometricMean / arithmeticMean
	return math.Min(flatness, 1.0)
}

// ComputeFrames calculates per-frame flatness for a magnitude spectrogram
func (sf *SpectralFlatness) ComputeFrames(magnitude [][]float64) []float64 {
	flatness := make([]float64, len(magnitude))
	for t, frame := range magnitude {
		flatness[t] = sf.Compute(frame)
	}
	return flatness
}
