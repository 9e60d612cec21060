package transcode

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes 16-bit PCM test fixtures without needing ffmpeg
func writeWAV(t *testing.T, path string, sampleRate, channels int, samples []float64) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s * 32767.0)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func sineWave(freq float64, sampleRate int, durationS, amplitude float64) []float64 {
	n := int(durationS * float64(sampleRate))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return signal
}

func TestDecodeFileNativeWAV(t *testing.T) {
	sampleRate := 22050
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, sampleRate, 1, sineWave(440, sampleRate, 0.5, 0.5))

	dec := NewDecoder(&DecoderConfig{TargetSampleRate: sampleRate})
	decoded, err := dec.DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, sampleRate, decoded.SampleRate)
	assert.Equal(t, 1, decoded.Channels)
	assert.Equal(t, sampleRate/2, len(decoded.PCM))
	assert.InDelta(t, 0.5, decoded.Duration.Seconds(), 0.01)

	peak := 0.0
	for _, s := range decoded.PCM {
		require.LessOrEqual(t, math.Abs(s), 1.0)
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	// 16-bit quantization leaves the peak a hair off 0.5
	assert.InDelta(t, 0.5, peak, 0.01)
}

func TestDecodeFileDownmixesStereo(t *testing.T) {
	sampleRate := 22050
	n := sampleRate / 4

	// Left and right cancel, so the mono downmix is near silence
	interleaved := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		interleaved[2*i] = 0.5
		interleaved[2*i+1] = -0.5
	}

	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWAV(t, path, sampleRate, 2, interleaved)

	dec := NewDecoder(&DecoderConfig{TargetSampleRate: sampleRate})
	decoded, err := dec.DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, decoded.Channels)
	assert.Equal(t, n, len(decoded.PCM))
	for _, s := range decoded.PCM {
		assert.InDelta(t, 0.0, s, 1e-3)
	}
}

func TestDecodeFileEnforcesMaxDuration(t *testing.T) {
	sampleRate := 22050
	path := filepath.Join(t.TempDir(), "long.wav")
	writeWAV(t, path, sampleRate, 1, sineWave(440, sampleRate, 2.0, 0.5))

	dec := NewDecoder(&DecoderConfig{
		TargetSampleRate: sampleRate,
		MaxDuration:      time.Second,
	})

	_, err := dec.DecodeFile(context.Background(), path)
	require.Error(t, err)

	var tooLong *TooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.InDelta(t, 2.0, tooLong.DurationS, 0.01)
	assert.Equal(t, 1.0, tooLong.MaxS)
}

func TestDecodeFileMissing(t *testing.T) {
	dec := NewDecoder(nil)

	_, err := dec.DecodeFile(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAudioLoad)
}

func TestProbeMissingFile(t *testing.T) {
	dec := NewDecoder(nil)

	_, err := dec.Probe(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAudioLoad)
}

func TestNormalize(t *testing.T) {
	pcm := []float64{0.1, -0.25, 0.2}
	Normalize(pcm)

	assert.InDelta(t, 0.4, pcm[0], 1e-12)
	assert.InDelta(t, -1.0, pcm[1], 1e-12)
	assert.InDelta(t, 0.8, pcm[2], 1e-12)
}

func TestNormalizeLeavesSilenceAlone(t *testing.T) {
	pcm := []float64{1e-10, -1e-10, 0}
	Normalize(pcm)

	assert.Equal(t, []float64{1e-10, -1e-10, 0}, pcm)
}

func TestTrimSilence(t *testing.T) {
	sampleRate := 22050
	silence := make([]float64, sampleRate/2)
	tone := sineWave(440, sampleRate, 0.5, 0.5)

	var pcm []float64
	pcm = append(pcm, silence...)
	pcm = append(pcm, tone...)
	pcm = append(pcm, silence...)

	trimmed, start, end := TrimSilence(pcm, sampleRate, 60)

	frameSize := sampleRate / 100
	assert.InDelta(t, float64(len(silence)), float64(start), float64(frameSize))
	assert.InDelta(t, float64(len(silence)+len(tone)), float64(end), float64(frameSize))
	assert.Equal(t, end-start, len(trimmed))
}

func TestTrimSilenceAllQuiet(t *testing.T) {
	trimmed, start, end := TrimSilence(make([]float64, 4096), 22050, 60)
	assert.Equal(t, 4096, len(trimmed))
	assert.Equal(t, 0, start)
	assert.Equal(t, 4096, end)
}

func TestTrimSilenceEmpty(t *testing.T) {
	trimmed, start, end := TrimSilence(nil, 22050, 60)
	assert.Empty(t, trimmed)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
