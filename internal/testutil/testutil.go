// Package testutil provides shared test helpers for synthesising audio clips
// and small model artifacts.
package testutil

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// RagaLabels is the class order a fitted encoder produces for the bundled
// ragas (sorted, as scikit-learn's LabelEncoder does).
var RagaLabels = []string{
	"asavari",
	"bageshri",
	"bhairavi",
	"bhoopali",
	"darbari_kanada",
	"malkauns",
	"vrindavani_sarang",
	"yaman",
}

// SineWave returns seconds of a sum of unit sines at the given frequencies,
// scaled to stay inside [-1, 1].
func SineWave(sampleRate int, seconds float64, freqs ...float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	out := make([]float64, n)
	if len(freqs) == 0 {
		return out
	}
	amp := 0.8 / float64(len(freqs))
	for i := range out {
		ts := float64(i) / float64(sampleRate)
		for _, f := range freqs {
			out[i] += amp * math.Sin(2*math.Pi*f*ts)
		}
	}
	return out
}

// WriteWAV encodes mono samples as integer PCM with the given bit depth and
// channel count (channels are duplicated) and returns the file path.
func WriteWAV(t *testing.T, dir, name string, samples []float64, sampleRate, bitDepth, channels int) string {
	t.Helper()
	return WriteWAVFormat(t, dir, name, samples, sampleRate, bitDepth, channels, 1)
}

// WriteWAVFormat is WriteWAV with an explicit WAVE format tag in the fmt chunk.
func WriteWAVFormat(t *testing.T, dir, name string, samples []float64, sampleRate, bitDepth, channels, format int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	full := float64(int64(1) << (bitDepth - 1))
	data := make([]int, 0, len(samples)*channels)
	for _, s := range samples {
		var v int
		if bitDepth == 8 {
			v = int(s*127) + 128
		} else {
			v = int(s * (full - 1))
		}
		for c := 0; c < channels; c++ {
			data = append(data, v)
		}
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteFile writes arbitrary bytes into dir and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// DenseLayer is one fully-connected layer; Weight is [out][in].
type DenseLayer struct {
	Weight [][]float32
	Bias   []float32
}

// ConstantModel returns a single-layer network of the given input width whose
// output always ranks class winner first, whatever the input.
func ConstantModel(inDim, classes, winner int) []DenseLayer {
	w := make([][]float32, classes)
	for i := range w {
		w[i] = make([]float32, inDim)
	}
	b := make([]float32, classes)
	b[winner] = 4
	return []DenseLayer{{Weight: w, Bias: b}}
}

// WriteDenseModel serialises layers as a safetensors file with tensors
// layers.<i>.weight and layers.<i>.bias.
func WriteDenseModel(t *testing.T, path string, layers []DenseLayer) string {
	t.Helper()

	type tensorMeta struct {
		Dtype       string `json:"dtype"`
		Shape       []int  `json:"shape"`
		DataOffsets [2]int `json:"data_offsets"`
	}
	header := make(map[string]tensorMeta)
	var payload []byte

	add := func(name string, shape []int, values []float32) {
		start := len(payload)
		for _, v := range values {
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(v))
		}
		header[name] = tensorMeta{Dtype: "F32", Shape: shape, DataOffsets: [2]int{start, len(payload)}}
	}

	for i, l := range layers {
		out := len(l.Weight)
		in := 0
		if out > 0 {
			in = len(l.Weight[0])
		}
		flat := make([]float32, 0, out*in)
		for _, row := range l.Weight {
			flat = append(flat, row...)
		}
		add(fmt.Sprintf("layers.%d.weight", i), []int{out, in}, flat)
		add(fmt.Sprintf("layers.%d.bias", i), []int{len(l.Bias)}, slices.Clone(l.Bias))
	}

	hdr, err := json.Marshal(header)
	if err != nil {
		t.Fatal(err)
	}
	for len(hdr)%8 != 0 {
		hdr = append(hdr, ' ')
	}

	data := binary.LittleEndian.AppendUint64(nil, uint64(len(hdr)))
	data = append(data, hdr...)
	data = append(data, payload...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteEncoder writes a label encoder artifact in the {"classes": [...]} form.
func WriteEncoder(t *testing.T, path string, labels []string) string {
	t.Helper()
	data, err := json.Marshal(map[string][]string{"classes": labels})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Artifacts writes a deterministic classifier that always predicts winner
// together with a matching encoder, returning both paths.
func Artifacts(t *testing.T, inDim int, winner string) (modelPath, encoderPath string) {
	t.Helper()
	idx := slices.Index(RagaLabels, winner)
	if idx < 0 {
		t.Fatalf("testutil: unknown label %q", winner)
	}
	dir := t.TempDir()
	modelPath = WriteDenseModel(t, filepath.Join(dir, "model.safetensors"), ConstantModel(inDim, len(RagaLabels), idx))
	encoderPath = WriteEncoder(t, filepath.Join(dir, "encoder.json"), RagaLabels)
	return modelPath, encoderPath
}
