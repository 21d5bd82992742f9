package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

func HttpError(w http.ResponseWriter, message string, statusCode int, logger *zap.Logger) {
	writeJSON(w, ErrorMessage{Message: message}, statusCode, logger)
}

func writeJSON(w http.ResponseWriter, body interface{}, statusCode int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// wantsJSON reports whether the caller asked for JSON through format=json or
// the Accept header. Browsers get HTML.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
