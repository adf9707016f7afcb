package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutriscan-ai/supplement-platform/internal/middleware"
	"github.com/nutriscan-ai/supplement-platform/internal/session"
	"github.com/nutriscan-ai/supplement-platform/internal/view"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

// SearchHandler handles product search endpoints.
type SearchHandler struct {
	registry *view.Registry
	logger   *logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(registry *view.Registry, log *logger.Logger) *SearchHandler {
	return &SearchHandler{registry: registry, logger: log}
}

func (h *SearchHandler) controller(r *http.Request) *view.Controller {
	return h.registry.Get(middleware.GetClientKey(r.Context()))
}

// SearchRequest is the body for POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /api/v1/search. The call blocks until the query
// resolves and returns the resulting session state.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Query); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := h.controller(r)
	if err := c.Search().Submit(r.Context(), req.Query); err != nil {
		if errors.Is(err, session.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Search().Snapshot())
}

// State handles GET /api/v1/search/state
func (h *SearchHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Search().Snapshot())
}
