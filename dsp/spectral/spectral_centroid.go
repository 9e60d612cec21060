package spectral

// SpectralCentroid computes the magnitude-weighted mean frequency of a
// spectrum, the usual proxy for perceived brightness
type SpectralCentroid struct {
	sampleRate int
}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid(sampleRate int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
	}
}

// Compute calculates the centroid in Hz for a single magnitude spectrum
func (sc *SpectralCentroid) Compute(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) == 0 {
		return 0.0
	}

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	if fftSize <= 0 {
		return 0.0
	}

	binWidth := float64(sc.sampleRate) / float64(fftSize)

	weightedSum := 0.0
	magnitudeSum := 0.0

	for i, magnitude := range magnitudeSpectrum {
		freq := float64(i) * binWidth
		weightedSum += freq * magnitude
		magnitudeSum += magnitude
	}

	if magnitudeSum == 0 {
		return 0.0
	}

	return weightedSum / magnitudeSum
}

// ComputeFrames calculates per-frame centroids for a magnitude spectrogram
func (sc *SpectralCentroid) ComputeFrames(magnitude [][]float64) []float64 {
	centroids := make([]float64, len(magnitude))
	for t, frame := range magnitude {
		centroids[t] = sc.Compute(frame)
	}
	return centroids
}
