package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/swara/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"percent": percent}).
		ParseFS(templateFS, "templates/index.html"),
)

type pageData struct {
	Prediction *models.Prediction
	Details    *models.Raga
	Theory     template.HTML
	Error      string
	MaxUpload  string
	Labels     []string
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func humanBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d KB", n/1024)
}

// newMarkdown renders theory text; raw HTML in the source is escaped.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.Linkify))
}

func (h *Handler) renderTheory(src string) template.HTML {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		h.logger.Warn("theory markdown render failed", slog.String("error", err.Error()))
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// renderPage writes the form page. A nil prediction renders the empty form.
func (h *Handler) renderPage(w http.ResponseWriter, status int, pred *models.Prediction, errMsg string) {
	data := pageData{
		Prediction: pred,
		Error:      errMsg,
		MaxUpload:  humanBytes(h.maxBytes),
		Labels:     h.labels,
	}
	if pred != nil && pred.Details != nil {
		data.Details = pred.Details
		data.Theory = h.renderTheory(pred.Details.Theory)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("render page failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
