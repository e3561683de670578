// Package recognizer runs the recognition pipeline for one clip: feature
// extraction, classification, label decoding and knowledge-base lookup.
package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/classifier"
	"github.com/starford/swara/internal/knowledge"
	"github.com/starford/swara/internal/labels"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/scratch"
)

// Extractor turns an audio file into a feature vector.
type Extractor interface {
	Extract(ctx context.Context, path string) (models.FeatureVector, error)
}

// Upload is an incoming clip. Name is the client-supplied filename and is
// never used as a path.
type Upload struct {
	Name string
	Body io.Reader
}

// Deps are the read-only components a Service is built from.
type Deps struct {
	Extractor Extractor
	Model     classifier.Model
	Decoder   *labels.Decoder
	Knowledge *knowledge.Base
	Scratch   *scratch.Dir
	Logger    *slog.Logger
	// Retain keeps uploads on disk after recognition.
	Retain bool
}

// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	extractor Extractor
	model     classifier.Model
	decoder   *labels.Decoder
	kb        *knowledge.Base
	scratch   *scratch.Dir
	logger    *slog.Logger
	retain    bool
}

// NewService creates a recognition service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: d.Extractor,
		model:     d.Model,
		decoder:   d.Decoder,
		kb:        d.Knowledge,
		scratch:   d.Scratch,
		logger:    logger,
		retain:    d.Retain,
	}
}

// Verify checks that the classifier, decoder and knowledge base agree.
// Shape mismatches wrap apperr.ErrLoad; decoder labels without a
// knowledge-base entry are only logged.
func (s *Service) Verify() error {
	if got := s.model.InputDim(); got != models.FeatureDim {
		return fmt.Errorf("recognizer: classifier expects %d features, extractor produces %d: %w",
			got, models.FeatureDim, apperr.ErrLoad)
	}
	if s.model.Classes() != s.decoder.Len() {
		return fmt.Errorf("recognizer: classifier has %d classes, label encoder has %d: %w",
			s.model.Classes(), s.decoder.Len(), apperr.ErrLoad)
	}
	for _, label := range s.decoder.Classes() {
		if _, ok := s.kb.Lookup(label); !ok {
			s.logger.Warn("label has no knowledge-base entry", "label", label)
		}
	}
	return nil
}

// Identify recognises the clip stored at path.
func (s *Service) Identify(ctx context.Context, path string) (*models.Prediction, error) {
	start := time.Now()

	features, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	scores, err := s.model.Predict(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("recognizer: predict: %w", err)
	}
	best := classifier.Argmax(scores)
	label, err := s.decoder.Decode(best)
	if err != nil {
		return nil, fmt.Errorf("recognizer: %w", err)
	}

	pred := &models.Prediction{
		Label:      label,
		Confidence: float64(scores[best]),
		Scores:     make([]models.ClassScore, len(scores)),
	}
	for i, sc := range scores {
		name, _ := s.decoder.Decode(i)
		pred.Scores[i] = models.ClassScore{Label: name, Score: float64(sc)}
	}
	if raga, ok := s.kb.Lookup(label); ok {
		pred.Details = &raga
	}

	s.logger.Info("clip recognised",
		"label", label,
		"confidence", pred.Confidence,
		"details", pred.Details != nil,
		"duration", time.Since(start),
	)
	return pred, nil
}

// Recognize stores the upload in the scratch directory, identifies it and
// removes the stored copy unless retention is enabled.
func (s *Service) Recognize(ctx context.Context, up Upload) (*models.Prediction, error) {
	if up.Body == nil {
		return nil, apperr.ErrUploadMissing
	}
	f, err := s.scratch.Save(up.Body, up.Name)
	if err != nil {
		return nil, fmt.Errorf("recognizer: %w", err)
	}
	if f.Size == 0 {
		_ = f.Remove()
		return nil, apperr.ErrUploadMissing
	}
	s.logger.Debug("upload stored", "scratch", f.Path, "size", f.Size, "sha256", f.SHA256)

	if !s.retain {
		defer func() {
			if err := f.Remove(); err != nil {
				s.logger.Warn("scratch cleanup failed", "scratch", f.Path, "error", err)
			}
		}()
	}

	pred, err := s.Identify(ctx, f.Path)
	if err != nil {
		if errors.Is(err, apperr.ErrDecode) {
			s.logger.Info("upload rejected", "scratch", f.Path, "sha256", f.SHA256, "error", err)
		}
		return nil, err
	}
	return pred, nil
}

// Ragas returns every knowledge-base record in label order.
func (s *Service) Ragas() []models.Raga {
	return s.kb.All()
}

// Raga returns one knowledge-base record.
func (s *Service) Raga(label string) (*models.Raga, error) {
	r, ok := s.kb.Lookup(label)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &r, nil
}
