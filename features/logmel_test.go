package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq float64, sampleRate, n int) []float64 {
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return pcm
}

func TestExtractLogMelShapes(t *testing.T) {
	cfg := DefaultConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	pcm := sineWave(440, cfg.SampleRate, cfg.SampleRate) // 1 second
	frames, err := extractor.ExtractLogMel(pcm, cfg.SampleRate)
	require.NoError(t, err)

	expectedFrames := len(pcm)/cfg.HopLength + 1
	assert.Equal(t, expectedFrames, frames.NumFrames())
	assert.Equal(t, cfg.NMels, frames.NMels)
	for _, row := range frames.X {
		assert.Len(t, row, cfg.NMels)
	}
	assert.Len(t, frames.Times, frames.NumFrames())
	assert.Len(t, frames.Energy, frames.NumFrames())
	assert.Len(t, frames.Flatness, frames.NumFrames())
}

func TestExtractLogMelTimes(t *testing.T) {
	cfg := DefaultConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	pcm := sineWave(440, cfg.SampleRate, cfg.SampleRate/2)
	frames, err := extractor.ExtractLogMel(pcm, cfg.SampleRate)
	require.NoError(t, err)

	require.GreaterOrEqual(t, frames.NumFrames(), 2)
	assert.InDelta(t, 0.0, frames.Times[0], 1e-9)

	hopSeconds := float64(cfg.HopLength) / float64(cfg.SampleRate)
	for i := 1; i < frames.NumFrames(); i++ {
		assert.InDelta(t, hopSeconds, frames.Times[i]-frames.Times[i-1], 1e-9)
	}
}

func TestExtractLogMelDBRange(t *testing.T) {
	cfg := DefaultConfig()
	extractor, err := NewExtractor(cfg)
	require.NoError(t, err)

	frames, err := extractor.ExtractLogMel(sineWave(1000, cfg.SampleRate, cfg.SampleRate), cfg.SampleRate)
	require.NoError(t, err)

	// dB values are relative to the matrix max and floored 80 dB below it
	maxDB := math.Inf(-1)
	minDB := math.Inf(1)
	for _, row := range frames.X {
		for _, v := range row {
			maxDB = math.Max(maxDB, v)
			minDB = math.Min(minDB, v)
		}
	}
	assert.InDelta(t, 0.0, maxDB, 1e-9)
	assert.GreaterOrEqual(t, minDB, -80.0-1e-9)
}

func TestExtractLogMelEmptyInput(t *testing.T) {
	extractor, err := NewExtractor(DefaultConfig())
	require.NoError(t, err)

	_, err = extractor.ExtractLogMel(nil, 22050)
	assert.Error(t, err)
}

func TestStride(t *testing.T) {
	frames := &Frames{
		X:        [][]float64{{0}, {1}, {2}, {3}, {4}},
		Times:    []float64{0, 1, 2, 3, 4},
		Energy:   []float64{10, 11, 12, 13, 14},
		Flatness: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		NMels:    1,
	}

	same := Stride(frames, 1)
	assert.Equal(t, frames, same)

	out := Stride(frames, 2)
	assert.Equal(t, [][]float64{{0}, {2}, {4}}, out.X)
	assert.Equal(t, []float64{0, 2, 4}, out.Times)
	assert.Equal(t, []float64{10, 12, 14}, out.Energy)
	assert.Equal(t, []float64{0.1, 0.3, 0.5}, out.Flatness)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.NMels = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.HopLength = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.FMin = -1
	assert.Error(t, bad.Validate())
}

func TestEffectiveFMax(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, float64(cfg.SampleRate)/2, cfg.EffectiveFMax(), 1e-9)

	cfg.FMax = 8000
	assert.InDelta(t, 8000, cfg.EffectiveFMax(), 1e-9)
}

func TestGetPreset(t *testing.T) {
	for _, name := range PresetNames() {
		p, ok := GetPreset(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, p.Name)
		assert.NoError(t, p.Features.Validate())
		assert.NoError(t, p.UMAP.Validate())
	}

	p, ok := GetPreset("MUSIC")
	assert.True(t, ok)
	assert.Equal(t, "Music", p.Name)

	_, ok = GetPreset("unknown")
	assert.False(t, ok)
}
