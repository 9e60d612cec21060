package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 22050

func sineWave(freq float64, n int) []float64 {
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/testSampleRate)
	}
	return pcm
}

// hannWindow matches the periodic Hann the feature pipeline applies.
type hannWindow struct {
	coeffs []float64
}

func newHannWindow(size int) *hannWindow {
	w := &hannWindow{coeffs: make([]float64, size)}
	for i := range w.coeffs {
		w.coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}
	return w
}

func (w *hannWindow) ApplyInPlace(signal []float64) error {
	for i := range signal {
		signal[i] *= w.coeffs[i]
	}
	return nil
}

func TestSTFTFrameCount(t *testing.T) {
	stft := NewSTFT()

	result, err := stft.ComputeWithWindow(make([]float64, 4096), 2048, 512, testSampleRate, nil)
	require.NoError(t, err)
	assert.Equal(t, (4096-2048)/512+1, result.TimeFrames)
	assert.Equal(t, 2048/2+1, result.FreqBins)
	assert.Len(t, result.Magnitude, result.TimeFrames)
	assert.Len(t, result.Magnitude[0], result.FreqBins)
}

func TestSTFTRejectsBadInput(t *testing.T) {
	stft := NewSTFT()

	_, err := stft.ComputeWithWindow(nil, 2048, 512, testSampleRate, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(make([]float64, 4096), 0, 512, testSampleRate, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(make([]float64, 4096), 2048, 0, testSampleRate, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(make([]float64, 100), 2048, 512, testSampleRate, nil)
	assert.Error(t, err)
}

func TestSTFTCenteredFrameCount(t *testing.T) {
	stft := NewSTFT()
	n := testSampleRate // 1 second

	result, err := stft.ComputeCentered(sineWave(440, n), 2048, 512, testSampleRate, nil)
	require.NoError(t, err)
	assert.Equal(t, n/512+1, result.TimeFrames)
}

func TestSTFTSinePeakBin(t *testing.T) {
	stft := NewSTFT()
	const freq = 1000.0

	result, err := stft.ComputeCentered(sineWave(freq, testSampleRate), 2048, 512, testSampleRate, newHannWindow(2048))
	require.NoError(t, err)

	// Peak magnitude in a middle frame should land on the sine's bin
	frame := result.Magnitude[result.TimeFrames/2]
	peakBin := 0
	for i, v := range frame {
		if v > frame[peakBin] {
			peakBin = i
		}
	}
	expectedBin := freq / result.FreqResolution
	assert.InDelta(t, expectedBin, float64(peakBin), 1.0)
}

func TestSpectralCentroidOfSine(t *testing.T) {
	stft := NewSTFT()
	const freq = 2000.0

	result, err := stft.ComputeCentered(sineWave(freq, testSampleRate), 2048, 512, testSampleRate, newHannWindow(2048))
	require.NoError(t, err)

	centroids := NewSpectralCentroid(testSampleRate).ComputeFrames(result.Magnitude)
	require.Len(t, centroids, result.TimeFrames)

	mid := centroids[len(centroids)/2]
	assert.InDelta(t, freq, mid, 50)
}

func TestSpectralFlatnessExtremes(t *testing.T) {
	flat := NewSpectralFlatness()

	// Flat (white) spectrum: flatness near 1
	uniform := make([]float64, 1025)
	for i := range uniform {
		uniform[i] = 1.0
	}
	assert.InDelta(t, 1.0, flat.Compute(uniform), 0.01)

	// Single spike: flatness near 0
	spike := make([]float64, 1025)
	spike[100] = 1.0
	assert.Less(t, flat.Compute(spike), 0.01)
}

func TestSpectralRolloff(t *testing.T) {
	roll := NewSpectralRolloff(testSampleRate)

	// All energy in one bin: rolloff equals that bin's frequency
	spectrum := make([]float64, 1025)
	spectrum[512] = 1.0
	freqRes := float64(testSampleRate) / 2048.0
	assert.InDelta(t, 512*freqRes, roll.Compute(spectrum), freqRes)
}

func TestZeroCrossingRateOfSine(t *testing.T) {
	zcr := NewZeroCrossingRate()

	// A sine at f Hz crosses zero 2f times per second; as a fraction of
	// samples that is 2f/sr
	const freq = 441.0
	rate := zcr.ComputeMean(sineWave(freq, testSampleRate))
	assert.InDelta(t, 2*freq/testSampleRate, rate, 0.002)
}

func TestMelScaleRoundTrip(t *testing.T) {
	ms := NewMelScale()

	for _, hz := range []float64{0, 100, 500, 1000, 4000, 11025} {
		assert.InDelta(t, hz, ms.MelToHz(ms.HzToMel(hz)), 1e-6)
	}

	// The scale is linear below 1 kHz
	assert.InDelta(t, ms.HzToMel(500), ms.HzToMel(250)*2, 1e-9)
}

func TestMelFrequenciesSpanRange(t *testing.T) {
	ms := NewMelScale()
	freqs := ms.MelFrequencies(128, 20, 11025)

	require.Len(t, freqs, 128)
	assert.InDelta(t, 20, freqs[0], 1e-6)
	assert.InDelta(t, 11025, freqs[127], 1e-6)
	for i := 1; i < len(freqs); i++ {
		assert.Greater(t, freqs[i], freqs[i-1])
	}
}

func TestMelFilterBankShape(t *testing.T) {
	ms := NewMelScale()
	bank := ms.CreateMelFilterBank(128, 2048, testSampleRate, 20, 11025)

	require.Len(t, bank, 128)
	for _, filter := range bank {
		require.Len(t, filter, 2048/2+1)
		for _, v := range filter {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}

	// Every filter has some response
	for i, filter := range bank {
		sum := 0.0
		for _, v := range filter {
			sum += v
		}
		assert.Greater(t, sum, 0.0, "filter %d is empty", i)
	}
}

func TestPowerToDB(t *testing.T) {
	conv := NewPowerToDB()

	db := conv.Convert([][]float64{{1.0, 0.1, 0.01, 1e-12}})
	require.Len(t, db, 1)

	// Relative to the max: 0, -10, -20, floored at -80
	assert.InDelta(t, 0, db[0][0], 1e-9)
	assert.InDelta(t, -10, db[0][1], 1e-9)
	assert.InDelta(t, -20, db[0][2], 1e-9)
	assert.InDelta(t, -80, db[0][3], 1e-9)
}

func TestMFCCCompute(t *testing.T) {
	mfcc := NewMFCC(testSampleRate, 13)

	spectrum := make([]float64, 1025)
	for i := range spectrum {
		spectrum[i] = 1.0 / (1.0 + float64(i))
	}

	coeffs, err := mfcc.Compute(spectrum)
	require.NoError(t, err)
	assert.Len(t, coeffs, 13)
}
