package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
)

const (
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

func decodeWAV(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav header")
	}

	scale, err := sampleScaler(int(d.BitDepth), d.WavAudioFormat)
	if err != nil {
		return nil, err
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("wav has no format chunk")
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = int(d.NumChans)
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = scale(v)
	}

	return &Signal{
		Samples:    downmix(samples, channels),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// sampleScaler maps raw integer samples of the given depth into [-1, 1].
// The decoder does not expose the extensible sub-format, and a 32-bit
// extensible file may hold either int or float samples, so it is refused.
func sampleScaler(bitDepth int, format uint16) (func(int) float64, error) {
	if format == wavFormatExtensible && bitDepth == 32 {
		return nil, fmt.Errorf("unsupported 32-bit extensible wav")
	}
	if format == wavFormatIEEEFloat {
		if bitDepth != 32 {
			return nil, fmt.Errorf("unsupported float wav depth %d", bitDepth)
		}
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}, nil
	}

	switch bitDepth {
	case 8:
		// 8-bit PCM is unsigned with a midpoint of 128.
		return func(v int) float64 { return float64(v-128) / 128 }, nil
	case 16, 24, 32:
		full := float64(int64(1) << (bitDepth - 1))
		return func(v int) float64 { return float64(v) / full }, nil
	default:
		return nil, fmt.Errorf("unsupported wav bit depth %d", bitDepth)
	}
}
