// Package labels maps classifier output indices back to raga labels using
// the class order fixed when the label encoder was fitted.
package labels

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/swara/internal/apperr"
)

// Decoder is immutable after Load.
type Decoder struct {
	classes []string
}

type encoderFile struct {
	Classes []string `yaml:"classes"`
}

// Load reads an encoder artifact: JSON or YAML, either {"classes": [...]}
// or a bare list. Failures wrap apperr.ErrLoad.
func Load(path string) (*Decoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w: %w", apperr.ErrLoad, err)
	}
	classes, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("labels: %s: %w: %w", filepath.Base(path), apperr.ErrLoad, err)
	}
	d, err := New(classes)
	if err != nil {
		return nil, fmt.Errorf("labels: %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// JSON is a subset of YAML, so one parser handles both encodings.
func parse(data []byte) ([]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty file")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("no document")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		var f encoderFile
		if err := root.Decode(&f); err != nil {
			return nil, err
		}
		return f.Classes, nil
	default:
		return nil, errors.New("expected a list of classes or a mapping with a classes key")
	}
}

// New builds a decoder from classes in index order. Labels are lower-cased
// and trimmed; blank or duplicate labels are rejected.
func New(classes []string) (*Decoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("labels: no classes: %w", apperr.ErrLoad)
	}
	out := make([]string, len(classes))
	seen := make(map[string]int, len(classes))
	for i, c := range classes {
		label := strings.ToLower(strings.TrimSpace(c))
		if label == "" {
			return nil, fmt.Errorf("labels: class %d is blank: %w", i, apperr.ErrLoad)
		}
		if prev, dup := seen[label]; dup {
			return nil, fmt.Errorf("labels: %q at %d duplicates class %d: %w", label, i, prev, apperr.ErrLoad)
		}
		seen[label] = i
		out[i] = label
	}
	return &Decoder{classes: out}, nil
}

// Decode returns the label for a class index.
func (d *Decoder) Decode(index int) (string, error) {
	if index < 0 || index >= len(d.classes) {
		return "", fmt.Errorf("labels: index %d out of range [0, %d)", index, len(d.classes))
	}
	return d.classes[index], nil
}

// Len returns the number of classes.
func (d *Decoder) Len() int { return len(d.classes) }

// Classes returns a copy of the labels in index order.
func (d *Decoder) Classes() []string { return slices.Clone(d.classes) }
