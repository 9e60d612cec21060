package transcode

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// decodeWAVFile decodes a WAV file natively with go-audio, avoiding the
// ffmpeg round trip. Only used when no resampling is requested or the file
// is already at the target rate; the caller falls back to ffmpeg otherwise.
func decodeWAVFile(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioLoad, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file: %s", ErrAudioLoad, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioLoad, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyAudio, path)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	sampleRate := buf.Format.SampleRate

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / math.Pow(2, float64(bitDepth-1))

	interleaved := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		interleaved[i] = float64(s) * scale
	}

	pcm := downmixMono(interleaved, channels)

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   time.Duration(len(pcm)) * time.Second / time.Duration(sampleRate),
		Source:     path,
	}, nil
}
