package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutriscan-ai/supplement-platform/internal/content"
	"github.com/nutriscan-ai/supplement-platform/internal/middleware"
	"github.com/nutriscan-ai/supplement-platform/internal/view"
)

// ContentHandler serves the static pages and sample history behind the
// More subtree.
type ContentHandler struct {
	registry *view.Registry
}

// NewContentHandler creates a new content handler.
func NewContentHandler(registry *view.Registry) *ContentHandler {
	return &ContentHandler{registry: registry}
}

// Page handles GET /api/v1/content/{page}
func (h *ContentHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "page")
	page, ok := content.GetPage(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// History handles GET /api/v1/history
func (h *ContentHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.SampleHistory())
}

// LoadHistoryRequest is the body for POST /api/v1/history/load.
type LoadHistoryRequest struct {
	Index int `json:"index"`
}

// LoadHistory handles POST /api/v1/history/load. Opening a history entry
// re-pins it as the held result on Home, the same path a fresh scan takes.
func (h *ContentHandler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	var req LoadHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	history := content.SampleHistory()
	if req.Index < 0 || req.Index >= len(history) {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	c := h.registry.Get(middleware.GetClientKey(r.Context()))
	c.CompleteScan(&history[req.Index])
	writeJSON(w, http.StatusOK, c.Snapshot())
}
