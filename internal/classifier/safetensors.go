package classifier

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

type tensor struct {
	shape []int
	data  []float32
}

// readSafetensors parses every F32 tensor in a safetensors file: an 8-byte
// little-endian header length, a JSON header, then the raw tensor bytes.
func readSafetensors(path string) (map[string]tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("safetensors: %w", err)
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("safetensors: file too small: %d bytes", len(data))
	}

	headerLen := binary.LittleEndian.Uint64(data[:8])
	if headerLen > uint64(len(data)-8) {
		return nil, fmt.Errorf("safetensors: header length %d exceeds file size", headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("safetensors: failed to parse header: %w", err)
	}

	body := data[8+headerLen:]
	out := make(map[string]tensor, len(header))
	for name, raw := range header {
		if name == "__metadata__" {
			continue
		}
		var meta struct {
			Dtype       string `json:"dtype"`
			Shape       []int  `json:"shape"`
			DataOffsets [2]int `json:"data_offsets"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("safetensors: tensor %s: %w", name, err)
		}
		if meta.Dtype != "F32" {
			return nil, fmt.Errorf("safetensors: tensor %s: expected dtype F32, got %s", name, meta.Dtype)
		}

		count := 1
		for _, d := range meta.Shape {
			count *= d
		}
		start, end := meta.DataOffsets[0], meta.DataOffsets[1]
		if start < 0 || end > len(body) || start > end {
			return nil, fmt.Errorf("safetensors: tensor %s: data range [%d:%d] exceeds payload %d", name, start, end, len(body))
		}
		if end-start != count*4 {
			return nil, fmt.Errorf("safetensors: tensor %s: data size %d doesn't match shape %v", name, end-start, meta.Shape)
		}

		values := make([]float32, count)
		for i := range values {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[start+i*4:]))
		}
		out[name] = tensor{shape: meta.Shape, data: values}
	}
	return out, nil
}
