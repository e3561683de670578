// Package classifier loads the trained raga classifier and scores feature
// vectors with it. Two artifact formats are supported, picked by extension:
// an ONNX graph run through ONNX Runtime, and a safetensors file holding the
// weights of a plain dense network evaluated in Go.
package classifier

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/models"
)

// Model scores a feature vector against every class.
type Model interface {
	// Predict returns one score per class, in training class order.
	Predict(ctx context.Context, features models.FeatureVector) ([]float32, error)
	InputDim() int
	Classes() int
	Close() error
}

// Options tune backend construction. Zero values select defaults.
type Options struct {
	// RuntimeLibrary is the ONNX Runtime shared library. Defaults to
	// libonnxruntime.so next to the model.
	RuntimeLibrary string
	IntraOpThreads int
}

// Load opens the classifier artifact at path. Any failure wraps
// apperr.ErrLoad.
func Load(path string, opts Options) (Model, error) {
	var (
		m   Model
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".onnx":
		m, err = loadONNX(path, opts)
	case ".safetensors":
		m, err = loadDense(path)
	default:
		return nil, fmt.Errorf("classifier: unsupported artifact %q: %w", ext, apperr.ErrLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("classifier: %w: %w", apperr.ErrLoad, err)
	}
	return m, nil
}

// Argmax returns the index of the largest score; ties resolve to the lowest
// index. Returns -1 for an empty slice.
func Argmax(scores []float32) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

func checkInput(features models.FeatureVector, want int) error {
	if len(features) != want {
		return fmt.Errorf("classifier: feature vector has %d values, model expects %d", len(features), want)
	}
	return nil
}
