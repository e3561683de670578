package internal

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/swara/internal/classifier"
	"github.com/starford/swara/internal/features"
	"github.com/starford/swara/internal/knowledge"
	"github.com/starford/swara/internal/labels"
	"github.com/starford/swara/internal/recognizer"
	"github.com/starford/swara/internal/scratch"
)

func newApplication(opts []Option, logOutput io.Writer) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		// Initialize structured JSON logger.
		app.logger = slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)
	return app, nil
}

// buildService loads every artifact and returns a verified recognition
// service. The returned close function releases the classifier.
func (a *application) buildService() (*recognizer.Service, func(), error) {
	cfg := a.config
	logger := a.logger

	kb, err := knowledge.Load(cfg.Knowledge.Dir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load knowledge base: %w", err)
	}
	if err := kb.Validate(); err != nil {
		logger.Warn("knowledge base has incomplete records", slog.String("error", err.Error()))
	}

	model, err := classifier.Load(cfg.Model.ClassifierPath, classifier.Options{
		RuntimeLibrary: cfg.Model.RuntimeLibrary,
		IntraOpThreads: cfg.Model.IntraOpThreads,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load classifier: %w", err)
	}
	closeModel := func() {
		if err := model.Close(); err != nil {
			logger.Warn("classifier close failed", slog.String("error", err.Error()))
		}
	}

	dec, err := labels.Load(cfg.Model.EncoderPath)
	if err != nil {
		closeModel()
		return nil, nil, fmt.Errorf("load label encoder: %w", err)
	}

	dir, err := scratch.NewDir(cfg.Upload.ScratchDir)
	if err != nil {
		closeModel()
		return nil, nil, fmt.Errorf("init scratch dir: %w", err)
	}
	if !cfg.Upload.Retain && cfg.Upload.SweepAfter > 0 {
		n, err := dir.Sweep(cfg.Upload.SweepAfter)
		if err != nil {
			logger.Warn("scratch sweep failed", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("removed stale uploads", slog.Int("count", n))
		}
	}

	svc := recognizer.NewService(recognizer.Deps{
		Extractor: features.NewExtractor(),
		Model:     model,
		Decoder:   dec,
		Knowledge: kb,
		Scratch:   dir,
		Logger:    logger,
		Retain:    cfg.Upload.Retain,
	})
	if err := svc.Verify(); err != nil {
		closeModel()
		return nil, nil, err
	}

	logger.Info("Artifacts loaded",
		slog.String("classifier", cfg.Model.ClassifierPath),
		slog.Int("classes", model.Classes()),
		slog.Int("ragas", kb.Len()),
		slog.String("scratch_dir", dir.Root()))

	return svc, closeModel, nil
}
