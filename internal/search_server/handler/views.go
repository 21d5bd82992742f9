package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	indexView  = "index.html"
	searchView = "search.html"
)

// render executes the view into a buffer first so a template failure still
// produces a clean 500.
func render(w http.ResponseWriter, view string, data interface{}, statusCode int, logger *zap.Logger) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, view, data); err != nil {
		logger.Error("Error encountered when rendering view", zap.String("view", view), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("Error encountered when writing view", zap.String("view", view), zap.Error(err))
	}
}
