package knowledge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/models"
)

// sheetFrontmatter is the YAML header of a Markdown raga sheet:
//
//	---
//	label: yaman
//	aaroh: "N R G M D N S'"
//	avaroh: "S' N D P M G R S"
//	pakad: "N R G, R G M D N"
//	carnatic: Kalyani
//	links:
//	  - https://www.youtube.com/watch?v=MTf84M05VxU
//	---
//	Theory prose in Markdown.
type sheetFrontmatter struct {
	Label    string   `yaml:"label"`
	Name     string   `yaml:"name"`
	Aaroh    string   `yaml:"aaroh"`
	Avaroh   string   `yaml:"avaroh"`
	Pakad    string   `yaml:"pakad"`
	Carnatic string   `yaml:"carnatic"`
	Links    []string `yaml:"links"`
}

// ParseSheet decodes one Markdown raga sheet. fallbackLabel is used when the
// frontmatter carries no label (typically the file name stem).
func ParseSheet(data []byte, fallbackLabel string) (models.Raga, error) {
	block, body, ok := splitFrontmatter(data)
	if !ok {
		return models.Raga{}, fmt.Errorf("knowledge: sheet %q has no frontmatter", fallbackLabel)
	}

	var fm sheetFrontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return models.Raga{}, fmt.Errorf("knowledge: sheet %q: invalid frontmatter: %w", fallbackLabel, err)
	}

	label := fm.Label
	if label == "" {
		label = fallbackLabel
	}
	r := models.Raga{
		Label:               normalizeLabel(label),
		Name:                fm.Name,
		AscendingPhrase:     fm.Aaroh,
		DescendingPhrase:    fm.Avaroh,
		SignaturePhrase:     fm.Pakad,
		Theory:              strings.TrimSpace(body),
		ReferenceLinks:      fm.Links,
		RelatedCarnaticRaga: fm.Carnatic,
	}
	if missing := r.MissingFields(); len(missing) > 0 {
		return models.Raga{}, fmt.Errorf("knowledge: sheet %q: missing %s", r.Label, strings.Join(missing, ", "))
	}
	return r, nil
}

// LoadDir parses every *.md file directly under dir. Any unreadable or
// invalid sheet fails the whole load.
func LoadDir(dir string) ([]models.Raga, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read dir %s: %w: %w", dir, apperr.ErrLoad, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sheets := make([]models.Raga, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("knowledge: read %s: %w: %w", name, apperr.ErrLoad, err)
		}
		r, err := ParseSheet(data, strings.TrimSuffix(name, ".md"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrLoad, err)
		}
		sheets = append(sheets, r)
	}
	return sheets, nil
}

// splitFrontmatter separates the YAML block between leading --- delimiters
// from the Markdown body.
func splitFrontmatter(data []byte) ([]byte, string, bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", false
	}

	block := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return block, body, true
}
