package transcode

import (
	"math"
	"time"
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"` // Raw PCM samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source,omitempty"` // Originating path or URL
}

// AudioInfo holds quick metadata about an audio file without decoding it
type AudioInfo struct {
	Path       string  `json:"path"`
	DurationS  float64 `json:"duration_s"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	SizeBytes  int64   `json:"size_bytes"`
	Codec      string  `json:"codec,omitempty"`
	Format     string  `json:"format,omitempty"`
}

// SizeMB returns the file size in megabytes
func (i *AudioInfo) SizeMB() float64 {
	return float64(i.SizeBytes) / (1024 * 1024)
}

// Normalize peak-normalizes PCM to [-1, 1] in place. Signals with a peak
// below 1e-8 are left untouched to avoid amplifying silence into noise.
func Normalize(pcm []float64) {
	peak := 0.0
	for _, s := range pcm {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}

	if peak < 1e-8 {
		return
	}

	scale := 1.0 / peak
	for i := range pcm {
		pcm[i] *= scale
	}
}

// TrimSilence removes leading and trailing samples quieter than topDB below
// the signal peak, measured on 10 ms RMS frames. Returns the trimmed slice
// plus the start and end sample offsets into the original signal.
func TrimSilence(pcm []float64, sampleRate int, topDB float64) ([]float64, int, int) {
	if len(pcm) == 0 {
		return pcm, 0, 0
	}

	frameSize := sampleRate / 100
	if frameSize < 1 {
		frameSize = 1
	}

	numFrames := (len(pcm) + frameSize - 1) / frameSize
	rms := make([]float64, numFrames)
	peak := 0.0
	for i := range numFrames {
		start := i * frameSize
		end := min(start+frameSize, len(pcm))
		sum := 0.0
		for _, s := range pcm[start:end] {
			sum += s * s
		}
		rms[i] = math.Sqrt(sum / float64(end-start))
		if rms[i] > peak {
			peak = rms[i]
		}
	}

	if peak <= 0 {
		return pcm, 0, len(pcm)
	}

	threshold := peak * math.Pow(10.0, -topDB/20.0)

	first := 0
	for first < numFrames && rms[first] < threshold {
		first++
	}
	last := numFrames - 1
	for last >= first && rms[last] < threshold {
		last--
	}

	if first > last {
		return []float64{}, 0, 0
	}

	startSample := first * frameSize
	endSample := min((last+1)*frameSize, len(pcm))

	return pcm[startSample:endSample], startSample, endSample
}

// downmixMono averages interleaved multi-channel samples into one channel
func downmixMono(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	n := len(interleaved) / channels
	mono := make([]float64, n)
	for i := range n {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
