package audio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/testutil"
)

func TestDecodeWAV16Mono(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SineWave(22050, 0.5, 440)
	path := testutil.WriteWAV(t, dir, "clip.wav", src, 22050, 16, 1)

	sig, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, sig.SampleRate)
	require.Len(t, sig.Samples, len(src))
	for i := 0; i < len(src); i += 997 {
		assert.InDelta(t, src[i], sig.Samples[i], 1e-3)
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SineWave(16000, 0.25, 220)
	path := testutil.WriteWAV(t, dir, "stereo.wav", src, 16000, 16, 2)

	sig, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, sig.SampleRate)
	require.Len(t, sig.Samples, len(src))
	assert.InDelta(t, src[100], sig.Samples[100], 1e-3)
}

func TestDecodeWAV24Bit(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SineWave(44100, 0.1, 1000)
	path := testutil.WriteWAV(t, dir, "hi.wav", src, 44100, 24, 1)

	sig, err := Decode(path)
	require.NoError(t, err)
	peak := 0.0
	for _, s := range sig.Samples {
		peak = math.Max(peak, math.Abs(s))
	}
	assert.LessOrEqual(t, peak, 1.0)
	assert.InDelta(t, 0.8, peak, 0.01)
}

func TestDecodeMP3(t *testing.T) {
	// 45 MPEG-2 layer III frames, mono, 22050 Hz, 576 samples per frame.
	sig, err := Decode(filepath.Join("testdata", "speech.mp3"))
	require.NoError(t, err)
	assert.Equal(t, 22050, sig.SampleRate)
	assert.GreaterOrEqual(t, len(sig.Samples), 40*576)
	assert.LessOrEqual(t, len(sig.Samples), 45*576)

	var energy float64
	for _, s := range sig.Samples {
		require.False(t, math.IsNaN(s))
		require.LessOrEqual(t, math.Abs(s), 1.0)
		energy += s * s
	}
	assert.Greater(t, energy, 0.0)
}

func TestDecodeWAVExtensible(t *testing.T) {
	dir := t.TempDir()
	src := testutil.SineWave(16000, 0.25, 440)

	path := testutil.WriteWAVFormat(t, dir, "ext32.wav", src, 16000, 32, 1, wavFormatExtensible)
	_, err := Decode(path)
	assert.ErrorIs(t, err, apperr.ErrDecode)

	path = testutil.WriteWAVFormat(t, dir, "ext16.wav", src, 16000, 16, 1, wavFormatExtensible)
	sig, err := Decode(path)
	require.NoError(t, err)
	assert.InDelta(t, src[100], sig.Samples[100], 1e-3)
}

func TestDecodeRejectsNonAudio(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "notes.wav", []byte("this is plainly not audio"))

	_, err := Decode(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode("/nonexistent/clip.wav")
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestDecodeEmptyWAV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "empty.wav", nil, 22050, 16, 1)

	_, err := Decode(path)
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestDownmix(t *testing.T) {
	got := downmix([]float64{1, 0, 0.5, 0.5, -1, 1}, 2)
	assert.Equal(t, []float64{0.5, 0.5, 0}, got)
	assert.Equal(t, []float64{1, 2}, downmix([]float64{1, 2}, 1))
}

func TestSampleScaler(t *testing.T) {
	s8, err := sampleScaler(8, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, s8(128), 1e-9)
	assert.InDelta(t, -1.0, s8(0), 1e-9)

	s16, err := sampleScaler(16, 1)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, s16(-32768), 1e-9)

	f32, err := sampleScaler(32, wavFormatIEEEFloat)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, f32(int(int32(math.Float32bits(0.25)))), 1e-9)

	_, err = sampleScaler(12, 1)
	assert.Error(t, err)
	_, err = sampleScaler(32, wavFormatExtensible)
	assert.Error(t, err)
	_, err = sampleScaler(24, wavFormatExtensible)
	assert.NoError(t, err)
}
