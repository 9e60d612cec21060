package temporal

import (
	"math"
	"sort"
)

// TempoEstimation estimates tempo from inter-onset intervals
type TempoEstimation struct {
	onsetDetector *OnsetDetection
	minBPM        float64
	maxBPM        float64
}

// BeatResult holds tempo and derived beat positions
type BeatResult struct {
	TempoBPM  float64   `json:"tempo_bpm"`
	BeatTimes []float64 `json:"beat_times_s"`
	BeatCount int       `json:"beat_count"`
}

// NewTempoEstimation creates a new tempo estimator covering the usual
// musical range
func NewTempoEstimation() *TempoEstimation {
	return &TempoEstimation{
		onsetDetector: NewOnsetDetection(),
		minBPM:        40.0,
		maxBPM:        240.0,
	}
}

// Estimate returns tempo in BPM plus beat times by snapping a constant
// grid to the detected onsets. Returns zero tempo when fewer than two
// onsets are found.
func (te *TempoEstimation) Estimate(signal []float64, sampleRate int) (*BeatResult, error) {
	onsets, err := te.onsetDetector.Detect(signal, sampleRate)
	if err != nil {
		return nil, err
	}

	if onsets.Count < 2 {
		return &BeatResult{BeatTimes: []float64{}}, nil
	}

	intervals := make([]float64, onsets.Count-1)
	for i := range intervals {
		intervals[i] = onsets.TimesS[i+1] - onsets.TimesS[i]
	}

	period := te.dominantInterval(intervals)
	if period <= 0 {
		return &BeatResult{BeatTimes: []float64{}}, nil
	}

	tempo := 60.0 / period

	// Fold octave errors into the plausible range
	for tempo < te.minBPM {
		tempo *= 2
	}
	for tempo > te.maxBPM {
		tempo /= 2
	}

	beatPeriod := 60.0 / tempo
	duration := float64(len(signal)) / float64(sampleRate)
	start := onsets.TimesS[0]

	var beats []float64
	for t := start; t < duration; t += beatPeriod {
		beats = append(beats, t)
	}

	return &BeatResult{
		TempoBPM:  tempo,
		BeatTimes: beats,
		BeatCount: len(beats),
	}, nil
}

// dominantInterval finds the most common inter-onset interval by clustering
// intervals that agree within 10%
func (te *TempoEstimation) dominantInterval(intervals []float64) float64 {
	if len(intervals) == 0 {
		return 0.0
	}

	sorted := make([]float64, len(intervals))
	copy(sorted, intervals)
	sort.Float64s(sorted)

	bestCount := 0
	bestSum := 0.0

	for i := range sorted {
		count := 0
		sum := 0.0
		for j := i; j < len(sorted); j++ {
			if sorted[j] > sorted[i]*1.1 {
				break
			}
			count++
			sum += sorted[j]
		}
		if count > bestCount {
			bestCount = count
			bestSum = sum
		}
	}

	if bestCount == 0 {
		return 0.0
	}

	avg := bestSum / float64(bestCount)
	if math.IsNaN(avg) || avg <= 0 {
		return 0.0
	}
	return avg
}
