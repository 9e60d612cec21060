package spectral

import (
	"fmt"
	"math"
)

// MFCC computes Mel-Frequency Cepstral Coefficients from magnitude spectra
type MFCC struct {
	numCoefficients int
	numMelFilters   int
	sampleRate      int
	lowFreq         float64
	highFreq        float64
	useLiftering    bool
	lifterCoeff     float64

	melScale    *MelScale
	filterBank  [][]float64
	dctMatrix   [][]float64
	initialized bool
	fftSize     int
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Number of MFCC coefficients (default: 13)
	NumMelFilters   int     `json:"num_mel_filters"`  // Number of mel filter bank filters (default: 26)
	LowFreq         float64 `json:"low_freq"`         // Low frequency bound (default: 0)
	HighFreq        float64 `json:"high_freq"`        // High frequency bound (default: sampleRate/2)
	UseLiftering    bool    `json:"use_liftering"`    // Apply liftering (default: true)
	LifterCoeff     float64 `json:"lifter_coeff"`     // Liftering coefficient (default: 22)
}

// NewMFCC creates a new MFCC computer with default parameters
func NewMFCC(sampleRate, numCoefficients int) *MFCC {
	params := MFCCParams{
		NumCoefficients: numCoefficients,
		NumMelFilters:   26,
		LowFreq:         0.0,
		HighFreq:        float64(sampleRate) / 2.0,
		UseLiftering:    true,
		LifterCoeff:     22.0,
	}
	return NewMFCCWithParams(sampleRate, params)
}

// NewMFCCWithParams creates a new MFCC computer with custom parameters
func NewMFCCWithParams(sampleRate int, params MFCCParams) *MFCC {
	if params.NumCoefficients <= 0 {
		params.NumCoefficients = 13
	}
	if params.NumMelFilters <= 0 {
		params.NumMelFilters = 26
	}
	if params.HighFreq <= 0 {
		params.HighFreq = float64(sampleRate) / 2.0
	}
	if params.LifterCoeff <= 0 {
		params.LifterCoeff = 22.0
	}

	return &MFCC{
		numCoefficients: params.NumCoefficients,
		numMelFilters:   params.NumMelFilters,
		sampleRate:      sampleRate,
		lowFreq:         params.LowFreq,
		highFreq:        params.HighFreq,
		useLiftering:    params.UseLiftering,
		lifterCoeff:     params.LifterCoeff,
		melScale:        NewMelScale(),
	}
}

// initialize builds the filter bank and DCT matrix for the given FFT size
func (m *MFCC) initialize(fftSize int) {
	if m.initialized && m.fftSize == fftSize {
		return
	}

	m.filterBank = m.melScale.CreateMelFilterBank(m.numMelFilters, fftSize, m.sampleRate, m.lowFreq, m.highFreq)

	// DCT-II matrix with orthonormal scaling
	m.dctMatrix = make([][]float64, m.numCoefficients)
	scale := math.Sqrt(2.0 / float64(m.numMelFilters))
	for i := range m.dctMatrix {
		m.dctMatrix[i] = make([]float64, m.numMelFilters)
		for j := range m.dctMatrix[i] {
			m.dctMatrix[i][j] = scale * math.Cos(math.Pi*float64(i)*(float64(j)+0.5)/float64(m.numMelFilters))
		}
		if i == 0 {
			for j := range m.dctMatrix[i] {
				m.dctMatrix[i][j] /= math.Sqrt2
			}
		}
	}

	m.fftSize = fftSize
	m.initialized = true
}

// Compute calculates MFCCs for a single magnitude spectrum
func (m *MFCC) Compute(magnitudeSpectrum []float64) ([]float64, error) {
	if len(magnitudeSpectrum) < 2 {
		return nil, fmt.Errorf("magnitude spectrum too short: %d bins", len(magnitudeSpectrum))
	}

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	m.initialize(fftSize)

	power := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		power[i] = mag * mag
	}

	melSpectrum := m.melScale.ApplyFilterBank(power, m.filterBank)

	logMel := make([]float64, len(melSpectrum))
	for i, v := range melSpectrum {
		logMel[i] = math.Log(math.Max(v, 1e-10))
	}

	mfcc := make([]float64, m.numCoefficients)
	for i := range mfcc {
		sum := 0.0
		for j, v := range logMel {
			sum += m.dctMatrix[i][j] * v
		}
		mfcc[i] = sum
	}

	if m.useLiftering {
		for i := range mfcc {
			lifter := 1.0 + m.lifterCoeff/2.0*math.Sin(math.Pi*float64(i)/m.lifterCoeff)
			mfcc[i] *= lifter
		}
	}

	return mfcc, nil
}

// ComputeFrames calculates MFCCs for every frame of a magnitude spectrogram.
// Returns nFrames rows of numCoefficients values.
func (m *MFCC) ComputeFrames(magnitude [][]float64) ([][]float64, error) {
	if len(magnitude) == 0 {
		return [][]float64{}, nil
	}

	mfccs := make([][]float64, len(magnitude))
	for t, frame := range magnitude {
		coeffs, err := m.Compute(frame)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
		mfccs[t] = coeffs
	}

	return mfccs, nil
}
