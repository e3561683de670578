// Package models defines the domain types for swara.
package models

import "slices"

// FeatureDim is the length of every FeatureVector: the number of MFCC
// coefficients averaged over the clip.
const FeatureDim = 40

// FeatureVector is the mean-MFCC descriptor of one clip.
type FeatureVector []float32

// Raga is the reference sheet for one raga class.
type Raga struct {
	Label               string   `json:"label"`
	Name                string   `json:"name"`
	AscendingPhrase     string   `json:"ascending_phrase"`
	DescendingPhrase    string   `json:"descending_phrase"`
	SignaturePhrase     string   `json:"signature_phrase"`
	Theory              string   `json:"theory"`
	ReferenceLinks      []string `json:"reference_links"`
	RelatedCarnaticRaga string   `json:"related_carnatic_raga"`
}

// Clone returns a deep copy so callers can never mutate a shared record.
func (r Raga) Clone() Raga {
	r.ReferenceLinks = slices.Clone(r.ReferenceLinks)
	return r
}

// MissingFields lists the names of empty fields.
func (r Raga) MissingFields() []string {
	var missing []string
	check := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	check("ascending_phrase", r.AscendingPhrase)
	check("descending_phrase", r.DescendingPhrase)
	check("signature_phrase", r.SignaturePhrase)
	check("theory", r.Theory)
	check("related_carnatic_raga", r.RelatedCarnaticRaga)
	if len(r.ReferenceLinks) == 0 {
		missing = append(missing, "reference_links")
	}
	for _, link := range r.ReferenceLinks {
		if link == "" {
			missing = append(missing, "reference_links")
			break
		}
	}
	return missing
}

// ClassScore is the classifier output for one class.
type ClassScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Prediction is the outcome of recognising one clip. Details is nil when the
// predicted label has no knowledge-base entry.
type Prediction struct {
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"`
	Details    *Raga        `json:"details,omitempty"`
	Scores     []ClassScore `json:"scores"`
}
