package analysis

import (
	"fmt"

	"github.com/birdmach/mach/dsp/spectral"
	"github.com/birdmach/mach/dsp/windowing"
)

// MFCC extracts mel-frequency cepstral coefficients for a whole signal.
// Returns nFrames rows of nCoefficients values.
func MFCC(pcm []float64, sampleRate, nCoefficients, hopLength int) ([][]float64, error) {
	const windowSize = 2048

	if len(pcm) < windowSize {
		return nil, fmt.Errorf("signal too short for MFCC: %d samples", len(pcm))
	}
	if hopLength <= 0 {
		hopLength = 512
	}

	stft := spectral.NewSTFT()
	window := windowing.NewHamming(windowSize, false)

	result, err := stft.ComputeWithWindow(pcm, windowSize, hopLength, sampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	mfcc := spectral.NewMFCC(sampleRate, nCoefficients)
	return mfcc.ComputeFrames(result.Magnitude)
}
