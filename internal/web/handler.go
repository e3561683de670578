// Package web serves the upload form and the JSON API on top of the
// recognition service.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/yuin/goldmark"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/recognizer"
)

const formField = "file"

// Recognizer is the part of recognizer.Service the handlers need.
type Recognizer interface {
	Recognize(ctx context.Context, up recognizer.Upload) (*models.Prediction, error)
	Ragas() []models.Raga
	Raga(label string) (*models.Raga, error)
}

// Handler holds the page and API route handlers.
type Handler struct {
	svc      Recognizer
	maxBytes int64
	labels   []string
	md       goldmark.Markdown
	logger   *slog.Logger
}

// NewHandler creates a Handler. maxBytes caps the request body of uploads.
func NewHandler(svc Recognizer, maxBytes int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ragas := svc.Ragas()
	labels := make([]string, len(ragas))
	for i, r := range ragas {
		labels[i] = r.Label
	}
	return &Handler{
		svc:      svc,
		maxBytes: maxBytes,
		labels:   labels,
		md:       newMarkdown(),
		logger:   logger,
	}
}

// NewRouter returns a router with the form page at / and the JSON API
// under /api.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

// Routes registers the handlers on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/", h.Submit)

	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", h.Classify)
		r.Get("/ragas", h.ListRagas)
		r.Get("/ragas/{label}", h.GetRaga)
	})
}

// Index handles GET /: the empty form.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	h.renderPage(w, http.StatusOK, nil, "")
}

// Submit handles POST / with a multipart "file" field.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	pred, err := h.recognizeUpload(w, r)
	if err != nil {
		if errors.Is(err, apperr.ErrUploadMissing) {
			h.renderPage(w, http.StatusOK, nil, "")
			return
		}
		status, msg := h.failure(r, err)
		h.renderPage(w, status, nil, msg)
		return
	}
	h.renderPage(w, http.StatusOK, pred, "")
}

// recognizeUpload streams the first "file" part of the request into the
// recognizer without buffering the form.
func (h *Handler) recognizeUpload(w http.ResponseWriter, r *http.Request) (*models.Prediction, error) {
	if r.ContentLength > h.maxBytes {
		return nil, apperr.ErrTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperr.ErrUploadMissing
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperr.ErrUploadMissing
		}
		if err != nil {
			return nil, tooLargeOr(err)
		}
		if part.FormName() != formField {
			_ = part.Close()
			continue
		}
		pred, err := h.recognizePart(r.Context(), part)
		return pred, tooLargeOr(err)
	}
}

func (h *Handler) recognizePart(ctx context.Context, part *multipart.Part) (*models.Prediction, error) {
	defer part.Close()
	return h.svc.Recognize(ctx, recognizer.Upload{Name: part.FileName(), Body: part})
}

func tooLargeOr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return apperr.ErrTooLarge
	}
	return err
}

// failure maps a per-request error to a status and a user-facing message,
// logging anything unexpected with a stack trace.
func (h *Handler) failure(r *http.Request, err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "The file is too large. The limit is " + humanBytes(h.maxBytes) + "."
	case errors.Is(err, apperr.ErrDecode):
		return http.StatusUnprocessableEntity, "Could not process the file. Please upload a WAV or MP3 recording."
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not found."
	default:
		h.logger.ErrorContext(r.Context(), "recognition failed", slog.Any("error", xerrors.New(err)))
		return http.StatusInternalServerError, "Something went wrong while analysing the file. Please try again."
	}
}
