package spectral

// SpectralRolloff computes the frequency below which a given fraction of
// the total spectral energy is contained
type SpectralRolloff struct {
	sampleRate  int
	rollPercent float64
}

// NewSpectralRolloff creates a rolloff calculator with the conventional 85%
func NewSpectralRolloff(sampleRate int) *SpectralRolloff {
	return &SpectralRolloff{
		sampleRate:  sampleRate,
		rollPercent: 0.85,
	}
}

// NewSpectralRolloffWithPercent creates a calculator with a custom fraction
func NewSpectralRolloffWithPercent(sampleRate int, rollPercent float64) *SpectralRolloff {
	if rollPercent <= 0 || rollPercent > 1 {
		rollPercent = 0.85
	}
	return &SpectralRolloff{
		sampleRate:  sampleRate,
		rollPercent: rollPercent,
	}
}

// Compute calculates the rolloff frequency in Hz for a single magnitude spectrum
func (sr *SpectralRolloff) Compute(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) == 0 {
		return 0.0
	}

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	if fftSize <= 0 {
		return 0.0
	}
	binWidth := float64(sr.sampleRate) / float64(fftSize)

	totalEnergy := 0.0
	for _, magnitude := range magnitudeSpectrum {
		totalEnergy += magnitude
	}

	if totalEnergy == 0 {
		return 0.0
	}

	threshold := sr.rollPercent * totalEnergy
	cumulative := 0.0

	for i, magnitude := range magnitudeSpectrum {
		cumulative += magnitude
		if cumulative >= threshold {
			return float64(i) * binWidth
		}
	}

	return float64(len(magnitudeSpectrum)-1) * binWidth
}

// ComputeFrames calculates per-frame rolloff for a magnitude spectrogram
func (sr *SpectralRolloff) ComputeFrames(magnitude [][]float64) []float64 {
	rolloffs := make([]float64, len(magnitude))
	for t, frame := range magnitude {
		rolloffs[t] = sr.Compute(frame)
	}
	return rolloffs
}
