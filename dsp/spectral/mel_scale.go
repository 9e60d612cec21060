package spectral

import (
	"math"
)

// MelScale provides mel frequency conversion utilities and the triangular
// filter bank used by the log-mel frontend and MFCC computation.
//
// Uses the Slaney-style mel formula (linear below 1 kHz, logarithmic
// above), which is what listeners of librosa-produced spectrograms expect.
type MelScale struct {
	// No state needed
}

const (
	melBreakFrequency = 1000.0
	melBreakValue     = melBreakFrequency / (200.0 / 3.0)
	melLogStep        = 0.06875177742094912 // ln(6.4) / 27
)

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	if hz < melBreakFrequency {
		return hz / (200.0 / 3.0)
	}
	return melBreakValue + math.Log(hz/melBreakFrequency)/melLogStep
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	if mel < melBreakValue {
		return mel * (200.0 / 3.0)
	}
	return melBreakFrequency * math.Exp(melLogStep*(mel-melBreakValue))
}

// MelFrequencies returns numMels center frequencies equally spaced on the
// mel scale between lowFreq and highFreq.
func (ms *MelScale) MelFrequencies(numMels int, lowFreq, highFreq float64) []float64 {
	if numMels <= 0 {
		return nil
	}

	lowMel := ms.HzToMel(lowFreq)
	highMel := ms.HzToMel(highFreq)

	freqs := make([]float64, numMels)
	if numMels == 1 {
		freqs[0] = ms.MelToHz(lowMel)
		return freqs
	}

	step := (highMel - lowMel) / float64(numMels-1)
	for i := range freqs {
		freqs[i] = ms.MelToHz(lowMel + float64(i)*step)
	}
	return freqs
}

// CreateMelFilterBank creates a mel-scale triangular filter bank.
// Returns numFilters rows of fftSize/2+1 weights.
func (ms *MelScale) CreateMelFilterBank(numFilters int, fftSize int, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 {
		return nil
	}
	if highFreq <= 0 || highFreq > float64(sampleRate)/2.0 {
		highFreq = float64(sampleRate) / 2.0
	}

	numBins := fftSize/2 + 1

	// Band edges: numFilters+2 points equally spaced on the mel scale
	edges := make([]float64, numFilters+2)
	lowMel := ms.HzToMel(lowFreq)
	highMel := ms.HzToMel(highFreq)
	melStep := (highMel - lowMel) / float64(numFilters+1)
	for i := range edges {
		edges[i] = ms.MelToHz(lowMel + float64(i)*melStep)
	}

	// FFT bin center frequencies
	binFreqs := make([]float64, numBins)
	for i := range binFreqs {
		binFreqs[i] = float64(i) * float64(sampleRate) / float64(fftSize)
	}

	filterBank := make([][]float64, numFilters)
	for m := range filterBank {
		filterBank[m] = make([]float64, numBins)

		lower := edges[m]
		center := edges[m+1]
		upper := edges[m+2]

		for k, f := range binFreqs {
			switch {
			case f <= lower || f >= upper:
				// outside the triangle
			case f < center:
				if center != lower {
					filterBank[m][k] = (f - lower) / (center - lower)
				}
			default:
				if upper != center {
					filterBank[m][k] = (upper - f) / (upper - center)
				}
			}
		}

		// Slaney area normalization: each filter integrates to ~constant
		// energy so high filters aren't drowned out
		enorm := 2.0 / (upper - lower)
		for k := range filterBank[m] {
			filterBank[m][k] *= enorm
		}
	}

	return filterBank
}

// ApplyFilterBank applies a mel filter bank to a power spectrum
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	if len(filterBank) == 0 || len(powerSpectrum) == 0 {
		return []float64{}
	}

	melSpectrum := make([]float64, len(filterBank))

	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(powerSpectrum); j++ {
			sum += powerSpectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}

// ComputeMelSpectrogramFrames applies the filter bank to every frame of a
// magnitude spectrogram, squaring magnitudes into power first.
func (ms *MelScale) ComputeMelSpectrogramFrames(magnitude [][]float64, filterBank [][]float64) [][]float64 {
	if len(magnitude) == 0 {
		return [][]float64{}
	}

	melSpectrogram := make([][]float64, len(magnitude))
	power := make([]float64, len(magnitude[0]))

	for t, frame := range magnitude {
		for i, mag := range frame {
			power[i] = mag * mag
		}
		melSpectrogram[t] = ms.ApplyFilterBank(power, filterBank)
	}

	return melSpectrogram
}
