package temporal

import (
	"math"
)

// Envelope extracts amplitude envelopes from audio signals
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeRMS calculates the RMS envelope for overlapping frames
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) < frameSize || hopSize <= 0 || frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := range numFrames {
		start := i * hopSize
		end := start + frameSize

		sumSquares := 0.0
		for j := start; j < end; j++ {
			sumSquares += signal[j] * signal[j]
		}
		envelope[i] = math.Sqrt(sumSquares / float64(frameSize))
	}

	return envelope
}

// ComputePeak calculates the peak envelope for overlapping frames
func (e *Envelope) ComputePeak(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) < frameSize || hopSize <= 0 || frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := range numFrames {
		start := i * hopSize
		end := start + frameSize

		peak := 0.0
		for j := start; j < end; j++ {
			if abs := math.Abs(signal[j]); abs > peak {
				peak = abs
			}
		}
		envelope[i] = peak
	}

	return envelope
}
