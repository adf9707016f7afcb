package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

// writeJSON writes a JSON response. Encoding failures happen after the
// status line is on the wire, so they can only be logged.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Global().Warn("failed to encode response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
