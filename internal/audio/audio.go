// Package audio decodes uploaded clips into mono float64 PCM at the file's
// native sample rate. WAV and MP3 are supported; the container is detected
// from content, not from the file name.
package audio

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/starford/swara/internal/apperr"
)

// Signal is a decoded mono waveform with samples in [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Decode reads the audio file at path. Every failure wraps apperr.ErrDecode.
func Decode(path string) (*Signal, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio: detect %s: %w: %w", path, apperr.ErrDecode, err)
	}

	var sig *Signal
	switch {
	case mtype.Is("audio/wav"):
		sig, err = decodeWAV(path)
	case mtype.Is("audio/mpeg"):
		sig, err = decodeMP3(path)
	default:
		return nil, fmt.Errorf("audio: unsupported content type %s: %w", mtype.String(), apperr.ErrDecode)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: %w: %w", apperr.ErrDecode, err)
	}
	if len(sig.Samples) == 0 {
		return nil, fmt.Errorf("audio: %s contains no samples: %w", path, apperr.ErrDecode)
	}
	if sig.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d: %w", sig.SampleRate, apperr.ErrDecode)
	}
	return sig, nil
}

// downmix averages interleaved channels into one, which is what librosa does
// when loading with mono=True.
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
