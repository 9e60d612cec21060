package transcode

import (
	"errors"
	"fmt"
)

// ErrAudioLoad is the base error for files that cannot be decoded
var ErrAudioLoad = errors.New("audio load failed")

// ErrEmptyAudio is returned when decoding produced zero samples
var ErrEmptyAudio = errors.New("decoded empty audio")

// TooLongError is returned when audio exceeds the configured duration cap
type TooLongError struct {
	DurationS float64
	MaxS      float64
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("audio is %.1fs but the limit is %.1fs", e.DurationS, e.MaxS)
}

// TooLargeError is returned when a file exceeds the upload size cap
type TooLargeError struct {
	SizeMB float64
	MaxMB  float64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file is %.1f MB but the limit is %.0f MB", e.SizeMB, e.MaxMB)
}
