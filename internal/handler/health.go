// Package handler exposes the screen and session operations over HTTP.
package handler

import (
	"net/http"

	"github.com/nutriscan-ai/supplement-platform/internal/llm"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	boundary llm.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(boundary llm.Client) *HealthHandler {
	return &HealthHandler{boundary: boundary}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// The boundary key is deliberately not probed here; its absence
	// surfaces on the first boundary call as an authentication error.
	if h.boundary == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "AI boundary client not configured",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"provider": h.boundary.Name(),
	})
}
