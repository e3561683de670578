package features

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/audio"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/testutil"
)

func TestExtractReturnsFortyValues(t *testing.T) {
	ex := NewExtractor()
	dir := t.TempDir()

	cases := []struct {
		name    string
		rate    int
		seconds float64
	}{
		{"short-8k", 8000, 0.05},
		{"mid-22k", 22050, 1.0},
		{"long-44k", 44100, 3.0},
		{"odd-16k", 16000, 0.37},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := testutil.SineWave(tc.rate, tc.seconds, 261.63, 392)
			path := testutil.WriteWAV(t, dir, tc.name+".wav", src, tc.rate, 16, 1)

			vec, err := ex.Extract(context.Background(), path)
			require.NoError(t, err)
			require.Len(t, vec, models.FeatureDim)
			for i, v := range vec {
				assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "coefficient %d = %v", i, v)
			}
		})
	}
}

func TestExtractMP3(t *testing.T) {
	vec, err := NewExtractor().Extract(context.Background(), filepath.Join("..", "audio", "testdata", "speech.mp3"))
	require.NoError(t, err)
	require.Len(t, vec, models.FeatureDim)
	for i, v := range vec {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "coefficient %d = %v", i, v)
	}
	// Silence would pin coefficient 0 at -100 dB in every band.
	assert.Greater(t, vec[0], float32(-100*math.Sqrt(nMels)))
}

func TestSilenceHasOnlyEnergyCoefficient(t *testing.T) {
	ex := NewExtractor()
	sig := &audio.Signal{Samples: make([]float64, 22050), SampleRate: 22050}

	vec, err := ex.FromSignal(context.Background(), sig)
	require.NoError(t, err)

	// Every mel cell sits at 10*log10(amin) = -100 dB.
	assert.InDelta(t, -100*math.Sqrt(nMels), vec[0], 1e-2)
	for i := 1; i < len(vec); i++ {
		assert.InDelta(t, 0, vec[i], 1e-3, "coefficient %d", i)
	}
}

func TestExtractDistinguishesTones(t *testing.T) {
	ex := NewExtractor()
	low := &audio.Signal{Samples: testutil.SineWave(22050, 1, 220), SampleRate: 22050}
	high := &audio.Signal{Samples: testutil.SineWave(22050, 1, 3520), SampleRate: 22050}

	a, err := ex.FromSignal(context.Background(), low)
	require.NoError(t, err)
	b, err := ex.FromSignal(context.Background(), high)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExtractDeterministicAndConcurrent(t *testing.T) {
	ex := NewExtractor()
	sig := &audio.Signal{Samples: testutil.SineWave(16000, 0.5, 330, 495), SampleRate: 16000}
	want, err := ex.FromSignal(context.Background(), sig)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]models.FeatureVector, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ex.FromSignal(context.Background(), sig)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestExtractNonAudio(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "fake.mp3", []byte("<html>nope</html>"))

	_, err := NewExtractor().Extract(context.Background(), path)
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestFromSignalEmpty(t *testing.T) {
	_, err := NewExtractor().FromSignal(context.Background(), &audio.Signal{SampleRate: 22050})
	assert.ErrorIs(t, err, apperr.ErrDecode)
}

func TestExtractHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sig := &audio.Signal{Samples: testutil.SineWave(22050, 1, 440), SampleRate: 22050}

	_, err := NewExtractor().FromSignal(ctx, sig)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMelScale(t *testing.T) {
	assert.InDelta(t, 15.0, hzToMel(1000), 1e-9)
	assert.InDelta(t, 3.0, hzToMel(200), 1e-9)
	for _, hz := range []float64{0, 150, 999, 1000, 4000, 11025} {
		assert.InDelta(t, hz, melToHz(hzToMel(hz)), 1e-6)
	}
}

func TestMelFilterbankShape(t *testing.T) {
	bank := melFilterbank(22050, nFFT, nMels)
	r, c := bank.Dims()
	assert.Equal(t, nMels, r)
	assert.Equal(t, nFFT/2+1, c)

	for i := 0; i < r; i++ {
		var sum float64
		for j := 0; j < c; j++ {
			v := bank.At(i, j)
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.Greater(t, sum, 0.0, "filter %d is empty", i)
	}
}

func TestHannWindowPeriodic(t *testing.T) {
	w := hannWindow(8)
	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 1, w[4], 1e-12)
	assert.InDelta(t, w[1], w[7], 1e-12)
}

func TestFraming(t *testing.T) {
	padded := centerPad(make([]float64, 1000), nFFT)
	assert.Len(t, padded, 1000+nFFT)
	assert.Equal(t, 2, frameCount(len(padded), nFFT, hopLength))
	assert.Equal(t, 0, frameCount(10, nFFT, hopLength))
}

func TestDCTOrthonormal(t *testing.T) {
	m := dctMatrix(8, 8)
	for a := 0; a < 8; a++ {
		for b := 0; b < 8; b++ {
			var dot float64
			for i := 0; i < 8; i++ {
				dot += m.At(a, i) * m.At(b, i)
			}
			want := 0.0
			if a == b {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-9)
		}
	}
}
