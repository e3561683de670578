package classifier

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/starford/swara/internal/models"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxModel runs a classifier exported to ONNX with a single [batch, 40]
// float input and a single [batch, classes] output.
type onnxModel struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	inputDim   int64
	classes    int64
}

func loadONNX(modelPath string, opts Options) (*onnxModel, error) {
	libPath := opts.RuntimeLibrary
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	inDims := inputs[0].Dimensions
	outDims := outputs[0].Dimensions
	if len(inDims) != 2 || len(outDims) != 2 {
		return nil, fmt.Errorf("onnx: expected 2D tensors, got input %v output %v", inDims, outDims)
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer sessOpts.Destroy()
	threads := opts.IntraOpThreads
	if threads <= 0 {
		threads = 1
	}
	if err := sessOpts.SetIntraOpNumThreads(threads); err != nil {
		return nil, fmt.Errorf("onnx: set threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		sessOpts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &onnxModel{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		inputDim:   inDims[1],
		classes:    outDims[1],
	}, nil
}

func (m *onnxModel) InputDim() int { return int(m.inputDim) }
func (m *onnxModel) Classes() int  { return int(m.classes) }

func (m *onnxModel) Predict(ctx context.Context, features models.FeatureVector) ([]float32, error) {
	if err := checkInput(features, m.InputDim()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, err := ort.NewTensor(ort.NewShape(1, m.inputDim), []float32(features))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, m.classes))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before tensor is destroyed.
	src := out.GetData()
	scores := make([]float32, len(src))
	copy(scores, src)
	return scores, nil
}

func (m *onnxModel) Close() error {
	return m.session.Destroy()
}
