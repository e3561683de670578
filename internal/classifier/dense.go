package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/starford/swara/internal/models"
)

type denseLayer struct {
	weights []float32 // row-major [outDim, inDim]
	bias    []float32
	inDim   int
	outDim  int
}

func (l *denseLayer) apply(vec []float32) []float32 {
	out := make([]float32, l.outDim)
	for i := 0; i < l.outDim; i++ {
		row := l.weights[i*l.inDim : (i+1)*l.inDim]
		sum := l.bias[i]
		for j, w := range row {
			sum += w * vec[j]
		}
		out[i] = sum
	}
	return out
}

// denseModel is a feed-forward network: ReLU between layers, softmax on the
// output.
type denseModel struct {
	layers []denseLayer
}

// loadDense reads layers.<i>.weight / layers.<i>.bias pairs starting at 0
// until the first missing index.
func loadDense(path string) (*denseModel, error) {
	tensors, err := readSafetensors(path)
	if err != nil {
		return nil, err
	}

	var layers []denseLayer
	for i := 0; ; i++ {
		w, ok := tensors[fmt.Sprintf("layers.%d.weight", i)]
		if !ok {
			break
		}
		b, ok := tensors[fmt.Sprintf("layers.%d.bias", i)]
		if !ok {
			return nil, fmt.Errorf("dense: layer %d has no bias", i)
		}
		if len(w.shape) != 2 {
			return nil, fmt.Errorf("dense: layer %d: expected 2D weight, got shape %v", i, w.shape)
		}
		outDim, inDim := w.shape[0], w.shape[1]
		if len(b.data) != outDim {
			return nil, fmt.Errorf("dense: layer %d: bias has %d values, want %d", i, len(b.data), outDim)
		}
		if i > 0 && layers[i-1].outDim != inDim {
			return nil, fmt.Errorf("dense: layer %d input %d != previous output %d", i, inDim, layers[i-1].outDim)
		}
		layers = append(layers, denseLayer{weights: w.data, bias: b.data, inDim: inDim, outDim: outDim})
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("dense: no layers.0.weight tensor found")
	}
	return &denseModel{layers: layers}, nil
}

func (m *denseModel) InputDim() int { return m.layers[0].inDim }
func (m *denseModel) Classes() int  { return m.layers[len(m.layers)-1].outDim }
func (m *denseModel) Close() error  { return nil }

func (m *denseModel) Predict(ctx context.Context, features models.FeatureVector) ([]float32, error) {
	if err := checkInput(features, m.InputDim()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x := []float32(features)
	for i := range m.layers {
		x = m.layers[i].apply(x)
		if i < len(m.layers)-1 {
			relu(x)
		}
	}
	return softmax(x), nil
}

func relu(v []float32) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

func softmax(v []float32) []float32 {
	peak := float32(math.Inf(-1))
	for _, x := range v {
		peak = max(peak, x)
	}
	out := make([]float32, len(v))
	var sum float64
	for i, x := range v {
		e := math.Exp(float64(x - peak))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}
