package spectral

import (
	"gonum.org/v1/gonum/stat"
)

// ZeroCrossingRate calculates per-frame zero crossing rate.
// High ZCR indicates noisy/fricative content, low ZCR indicates tonal content.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a ZCR calculator with default framing
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: 2048,
		hopSize:   512,
	}
}

// NewZeroCrossingRateWithParams creates a calculator with custom framing
func NewZeroCrossingRateWithParams(frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// Compute calculates the crossing fraction for a single frame (0-1 range)
func (z *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame))
}

// ComputeFrames calculates ZCR for overlapping frames across a signal
func (z *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	if len(signal) < z.frameSize || z.hopSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-z.frameSize)/z.hopSize + 1
	rates := make([]float64, numFrames)

	for i := range numFrames {
		start := i * z.hopSize
		rates[i] = z.Compute(signal[start : start+z.frameSize])
	}

	return rates
}

// ComputeMean calculates the mean ZCR across a signal
func (z *ZeroCrossingRate) ComputeMean(signal []float64) float64 {
	rates := z.ComputeFrames(signal)
	if len(rates) == 0 {
		return 0.0
	}
	return stat.Mean(rates, nil)
}
