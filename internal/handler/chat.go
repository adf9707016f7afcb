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

// ChatHandler handles consultant conversation endpoints.
type ChatHandler struct {
	registry *view.Registry
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(registry *view.Registry, log *logger.Logger) *ChatHandler {
	return &ChatHandler{registry: registry, logger: log}
}

func (h *ChatHandler) controller(r *http.Request) *view.Controller {
	return h.registry.Get(middleware.GetClientKey(r.Context()))
}

// ChatRequest is the body for POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Send handles POST /api/v1/chat. The call blocks until the assistant
// turn lands and returns the full turn sequence.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := h.controller(r)
	if err := c.Chat().Submit(r.Context(), req.Message); err != nil {
		if errors.Is(err, session.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Chat().Snapshot())
}

// Turns handles GET /api/v1/chat/turns
func (h *ChatHandler) Turns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Chat().Snapshot())
}

// Reset handles POST /api/v1/chat/reset
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	c.Chat().Reset()
	writeJSON(w, http.StatusOK, c.Chat().Snapshot())
}
