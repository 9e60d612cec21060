package spectral

import (
	"math"
)

// SpectralBandwidth computes the magnitude-weighted standard deviation of
// frequencies around the spectral centroid
type SpectralBandwidth struct {
	sampleRate int
	centroid   *SpectralCentroid
}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth(sampleRate int) *SpectralBandwidth {
	return &SpectralBandwidth{
		sampleRate: sampleRate,
		centroid:   NewSpectralCentroid(sampleRate),
	}
}

// Compute calculates bandwidth in Hz for a single magnitude spectrum
func (sb *SpectralBandwidth) Compute(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) == 0 {
		return 0.0
	}

	centroid := sb.centroid.Compute(magnitudeSpectrum)

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	if fftSize <= 0 {
		return 0.0
	}
	binWidth := float64(sb.sampleRate) / float64(fftSize)

	weightedSum := 0.0
	magnitudeSum := 0.0

	for i, magnitude := range magnitudeSpectrum {
		freq := float64(i) * binWidth
		dev := freq - centroid
		weightedSum += magnitude * dev * dev
		magnitudeSum += magnitude
	}

	if magnitudeSum == 0 {
		return 0.0
	}

	return math.Sqrt(weightedSum / magnitudeSum)
}

// ComputeFrames calculates per-frame bandwidths for a magnitude spectrogram
func (sb *SpectralBandwidth) ComputeFrames(magnitude [][]float64) []float64 {
	bandwidths := make([]float64, len(magnitude))
	for t, frame := range magnitude {
		bandwidths[t] = sb.Compute(frame)
	}
	return bandwidths
}
