package temporal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clickTrain builds a signal of short noise bursts at a fixed period,
// the easiest possible input for onset and tempo detection.
func clickTrain(sampleRate int, durationS, periodS float64) []float64 {
	n := int(durationS * float64(sampleRate))
	signal := make([]float64, n)

	burstLen := 64
	step := int(periodS * float64(sampleRate))

	for start := 0; start < n; start += step {
		for i := 0; i < burstLen && start+i < n; i++ {
			// Deterministic pseudo-noise so clicks are broadband
			signal[start+i] = 0.9 * math.Sin(float64(i)*12.9898+float64(start)*0.017)
		}
	}
	return signal
}

func TestOnsetDetectionClickTrain(t *testing.T) {
	sampleRate := 22050
	period := 0.5
	signal := clickTrain(sampleRate, 4.0, period)

	od := NewOnsetDetection()
	result, err := od.Detect(signal, sampleRate)
	require.NoError(t, err)

	// 8 clicks in 4 seconds; allow one lost at either boundary
	assert.GreaterOrEqual(t, result.Count, 6)
	assert.LessOrEqual(t, result.Count, 10)
	assert.Len(t, result.TimesS, result.Count)
	assert.Len(t, result.Strengths, result.Count)

	// Each detected onset should land near a click position
	hop := 512.0 / float64(sampleRate)
	for _, onset := range result.TimesS {
		nearest := math.Round(onset/period) * period
		assert.InDelta(t, nearest, onset, 3*hop, "onset at %.3fs far from click grid", onset)
	}

	assert.InDelta(t, period, result.MeanInterval(), 3*hop)
}

func TestOnsetDetectionShortSignal(t *testing.T) {
	od := NewOnsetDetection()

	result, err := od.Detect(make([]float64, 100), 22050)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.TimesS)
}

func TestOnsetEnvelopeNormalized(t *testing.T) {
	sampleRate := 22050
	signal := clickTrain(sampleRate, 2.0, 0.5)

	od := NewOnsetDetection()
	flux, times, err := od.OnsetEnvelope(signal, sampleRate)
	require.NoError(t, err)
	require.NotEmpty(t, flux)
	require.Len(t, times, len(flux))

	maxFlux := 0.0
	for _, f := range flux {
		assert.GreaterOrEqual(t, f, 0.0)
		if f > maxFlux {
			maxFlux = f
		}
	}
	assert.InDelta(t, 1.0, maxFlux, 1e-12)

	assert.Equal(t, 0.0, times[0])
	hop := 512.0 / float64(sampleRate)
	assert.InDelta(t, hop, times[1]-times[0], 1e-12)
}

func TestTempoEstimationClickTrain(t *testing.T) {
	sampleRate := 22050
	signal := clickTrain(sampleRate, 4.0, 0.5) // 120 BPM

	te := NewTempoEstimation()
	result, err := te.Estimate(signal, sampleRate)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, result.TempoBPM, 12.0)
	assert.NotEmpty(t, result.BeatTimes)
	assert.Equal(t, len(result.BeatTimes), result.BeatCount)

	// Beat grid should be monotonic and stay inside the signal
	duration := float64(len(signal)) / float64(sampleRate)
	for i, bt := range result.BeatTimes {
		assert.Less(t, bt, duration)
		if i > 0 {
			assert.Greater(t, bt, result.BeatTimes[i-1])
		}
	}
}

func TestTempoEstimationSilence(t *testing.T) {
	te := NewTempoEstimation()

	result, err := te.Estimate(make([]float64, 22050), 22050)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.TempoBPM)
	assert.Empty(t, result.BeatTimes)
}

func TestMeanIntervalTooFewOnsets(t *testing.T) {
	r := &OnsetResult{TimesS: []float64{1.0}, Count: 1}
	assert.Equal(t, 0.0, r.MeanInterval())
}
