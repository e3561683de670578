// Package knowledge holds the static raga reference table. A Base is built
// once at startup and is read-only afterwards, so it is safe to share across
// concurrent requests without locking.
package knowledge

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/starford/swara/internal/models"
)

// Base maps raga labels to their reference sheets.
type Base struct {
	ragas  map[string]models.Raga
	labels []string
}

// New builds a Base from records. Later records replace earlier ones with
// the same label, which is how sheet overrides are layered over Builtin.
func New(records []models.Raga) (*Base, error) {
	ragas := make(map[string]models.Raga, len(records))
	for _, r := range records {
		key := normalizeLabel(r.Label)
		if key == "" {
			return nil, fmt.Errorf("knowledge: record %q has no label", r.Name)
		}
		r.Label = key
		if r.Name == "" {
			r.Name = displayName(key)
		}
		ragas[key] = r.Clone()
	}

	labels := make([]string, 0, len(ragas))
	for k := range ragas {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	return &Base{ragas: ragas, labels: labels}, nil
}

// Load returns the built-in table, overlaid with the sheets found in dir
// when dir is non-empty.
func Load(dir string, logger *slog.Logger) (*Base, error) {
	records := Builtin()
	if dir != "" {
		sheets, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, s := range sheets {
			logger.Info("knowledge: loaded sheet", slog.String("label", s.Label))
		}
		records = append(records, sheets...)
	}
	return New(records)
}

// Lookup returns the sheet for label. The returned value is a copy.
func (b *Base) Lookup(label string) (models.Raga, bool) {
	r, ok := b.ragas[normalizeLabel(label)]
	if !ok {
		return models.Raga{}, false
	}
	return r.Clone(), true
}

// Labels returns all known labels in sorted order.
func (b *Base) Labels() []string {
	return append([]string(nil), b.labels...)
}

// All returns every sheet ordered by label.
func (b *Base) All() []models.Raga {
	out := make([]models.Raga, 0, len(b.labels))
	for _, l := range b.labels {
		out = append(out, b.ragas[l].Clone())
	}
	return out
}

// Len returns the number of sheets.
func (b *Base) Len() int {
	return len(b.ragas)
}

// Validate reports every sheet with an empty field.
func (b *Base) Validate() error {
	var errs []error
	for _, l := range b.labels {
		if missing := b.ragas[l].MissingFields(); len(missing) > 0 {
			errs = append(errs, fmt.Errorf("knowledge: %s: missing %s", l, strings.Join(missing, ", ")))
		}
	}
	return errors.Join(errs...)
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// displayName turns "darbari_kanada" into "Darbari Kanada".
func displayName(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
