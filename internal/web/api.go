package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/swara/internal/apperr"
)

// Classify handles POST /api/classify.
//
//	@Summary		Identify the raga of an uploaded clip
//	@Tags			recognition
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"WAV or MP3 clip"
//	@Success		200		{object}	models.Prediction
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/classify [post]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	pred, err := h.recognizeUpload(w, r)
	if err != nil {
		if errors.Is(err, apperr.ErrUploadMissing) {
			writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
			return
		}
		status, msg := h.failure(r, err)
		writeJSON(w, status, errorBody(msg))
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

// ListRagas handles GET /api/ragas.
//
//	@Summary		List every raga in the knowledge base
//	@Tags			ragas
//	@Produce		json
//	@Success		200	{object}	map[string][]models.Raga
//	@Router			/ragas [get]
func (h *Handler) ListRagas(w http.ResponseWriter, _ *http.Request) {
	ragas := h.svc.Ragas()
	writeJSON(w, http.StatusOK, map[string]any{
		"ragas": ragas,
		"total": len(ragas),
	})
}

// GetRaga handles GET /api/ragas/{label}.
//
//	@Summary		Get one raga by label
//	@Tags			ragas
//	@Produce		json
//	@Param			label	path		string	true	"Raga label"
//	@Success		200		{object}	models.Raga
//	@Failure		404		{object}	errResponse
//	@Router			/ragas/{label} [get]
func (h *Handler) GetRaga(w http.ResponseWriter, r *http.Request) {
	raga, err := h.svc.Raga(chi.URLParam(r, "label"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("raga not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, raga)
}
