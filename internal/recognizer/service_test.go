package recognizer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/classifier"
	"github.com/starford/swara/internal/features"
	"github.com/starford/swara/internal/knowledge"
	"github.com/starford/swara/internal/labels"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/scratch"
	"github.com/starford/swara/internal/testutil"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	svc     *Service
	scratch *scratch.Dir
}

func newFixture(t *testing.T, winner string, encoder []string, retain bool) fixture {
	t.Helper()
	modelPath, _ := testutil.Artifacts(t, models.FeatureDim, winner)
	m, err := classifier.Load(modelPath, classifier.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	dec, err := labels.New(encoder)
	require.NoError(t, err)
	kb, err := knowledge.New(knowledge.Builtin())
	require.NoError(t, err)
	dir, err := scratch.NewDir(t.TempDir())
	require.NoError(t, err)

	svc := NewService(Deps{
		Extractor: features.NewExtractor(),
		Model:     m,
		Decoder:   dec,
		Knowledge: kb,
		Scratch:   dir,
		Logger:    quietLogger,
		Retain:    retain,
	})
	return fixture{svc: svc, scratch: dir}
}

func wavBytes(t *testing.T) []byte {
	t.Helper()
	path := testutil.WriteWAV(t, t.TempDir(), "yaman.wav", testutil.SineWave(22050, 1, 261.63, 369.99), 22050, 16, 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func scratchEntries(t *testing.T, d *scratch.Dir) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(d.Root())
	require.NoError(t, err)
	return entries
}

func TestRecognizeYamanEndToEnd(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)

	pred, err := fx.svc.Recognize(context.Background(), Upload{Name: "clip.wav", Body: bytes.NewReader(wavBytes(t))})
	require.NoError(t, err)

	assert.Equal(t, "yaman", pred.Label)
	require.NotNil(t, pred.Details)
	assert.Equal(t, "N R G M D N S'", pred.Details.AscendingPhrase)
	assert.Len(t, pred.Scores, len(testutil.RagaLabels))
	assert.Equal(t, "yaman", pred.Scores[7].Label)
	assert.Greater(t, pred.Confidence, 0.5)

	assert.Empty(t, scratchEntries(t, fx.scratch), "upload should be removed")
}

func TestRecognizeRetainsWhenConfigured(t *testing.T) {
	fx := newFixture(t, "bhairavi", testutil.RagaLabels, true)

	pred, err := fx.svc.Recognize(context.Background(), Upload{Name: "clip.wav", Body: bytes.NewReader(wavBytes(t))})
	require.NoError(t, err)
	assert.Equal(t, "bhairavi", pred.Label)
	assert.Len(t, scratchEntries(t, fx.scratch), 1)
}

func TestRecognizeDecodeFailureCleansUp(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)

	_, err := fx.svc.Recognize(context.Background(), Upload{Name: "clip.wav", Body: strings.NewReader("definitely not audio")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDecode)
	assert.Empty(t, scratchEntries(t, fx.scratch))
}

func TestRecognizeEmptyUpload(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)

	_, err := fx.svc.Recognize(context.Background(), Upload{Name: "empty.wav", Body: strings.NewReader("")})
	assert.ErrorIs(t, err, apperr.ErrUploadMissing)
	_, err = fx.svc.Recognize(context.Background(), Upload{Name: "none.wav"})
	assert.ErrorIs(t, err, apperr.ErrUploadMissing)
	assert.Empty(t, scratchEntries(t, fx.scratch))
}

func TestRecognizeLookupMiss(t *testing.T) {
	encoder := append([]string{}, testutil.RagaLabels...)
	encoder[7] = "kafi"
	fx := newFixture(t, "yaman", encoder, false)

	pred, err := fx.svc.Recognize(context.Background(), Upload{Name: "clip.wav", Body: bytes.NewReader(wavBytes(t))})
	require.NoError(t, err)
	assert.Equal(t, "kafi", pred.Label)
	assert.Nil(t, pred.Details)
}

func TestConcurrentSameFilename(t *testing.T) {
	fx := newFixture(t, "malkauns", testutil.RagaLabels, false)
	data := wavBytes(t)

	const n = 6
	var wg sync.WaitGroup
	preds := make([]*models.Prediction, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			preds[i], errs[i] = fx.svc.Recognize(context.Background(), Upload{Name: "same.wav", Body: bytes.NewReader(data)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "malkauns", preds[i].Label)
	}
	assert.Empty(t, scratchEntries(t, fx.scratch))
}

func TestVerify(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)
	assert.NoError(t, fx.svc.Verify())

	short, err := labels.New(testutil.RagaLabels[:3])
	require.NoError(t, err)
	fx.svc.decoder = short
	assert.ErrorIs(t, fx.svc.Verify(), apperr.ErrLoad)
}

func TestVerifyInputWidth(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)
	path := testutil.WriteDenseModel(t, filepath.Join(t.TempDir(), "m.safetensors"),
		testutil.ConstantModel(13, len(testutil.RagaLabels), 0))
	m, err := classifier.Load(path, classifier.Options{})
	require.NoError(t, err)
	fx.svc.model = m

	assert.ErrorIs(t, fx.svc.Verify(), apperr.ErrLoad)
}

type failingExtractor struct{ err error }

func (f failingExtractor) Extract(context.Context, string) (models.FeatureVector, error) {
	return nil, f.err
}

func TestIdentifyPropagatesExtractorError(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)
	boom := errors.New("boom")
	fx.svc.extractor = failingExtractor{err: boom}

	_, err := fx.svc.Identify(context.Background(), "/does/not/matter.wav")
	assert.ErrorIs(t, err, boom)
}

func TestRagaLookup(t *testing.T) {
	fx := newFixture(t, "yaman", testutil.RagaLabels, false)

	r, err := fx.svc.Raga("Darbari_Kanada")
	require.NoError(t, err)
	assert.Equal(t, "darbari_kanada", r.Label)

	_, err = fx.svc.Raga("kafi")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Len(t, fx.svc.Ragas(), 8)
}
