package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutriscan-ai/supplement-platform/internal/middleware"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/internal/view"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

// ViewHandler handles navigation, held-result, profile, and settings
// endpoints.
type ViewHandler struct {
	registry *view.Registry
	logger   *logger.Logger
}

// NewViewHandler creates a new view handler.
func NewViewHandler(registry *view.Registry, log *logger.Logger) *ViewHandler {
	return &ViewHandler{registry: registry, logger: log}
}

func (h *ViewHandler) controller(r *http.Request) *view.Controller {
	return h.registry.Get(middleware.GetClientKey(r.Context()))
}

// State handles GET /api/v1/state
func (h *ViewHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Snapshot())
}

// NavigateRequest is the body for POST /api/v1/navigate.
type NavigateRequest struct {
	Screen model.Screen   `json:"screen"`
	More   model.MoreView `json:"more,omitempty"`
}

// Navigate handles POST /api/v1/navigate
func (h *ViewHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.controller(r)
	if req.Screen != "" {
		if err := c.Navigate(req.Screen); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.More != "" {
		if err := c.NavigateMore(req.More); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// DismissResult handles POST /api/v1/result/dismiss
func (h *ViewHandler) DismissResult(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	c.DismissResult()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// Profile handles GET /api/v1/profile
func (h *ViewHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Profile())
}

// BeginEdit handles POST /api/v1/profile/edit
func (h *ViewHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).BeginEdit())
}

// UpdateDraft handles PUT /api/v1/profile/draft
func (h *ViewHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var draft model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.controller(r).SetDraft(draft); err != nil {
		if errors.Is(err, view.ErrNotEditing) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// SaveProfile handles POST /api/v1/profile/save
func (h *ViewHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.SaveProfile(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Profile())
}

// CancelEdit handles POST /api/v1/profile/cancel
func (h *ViewHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	c.CancelEdit()
	writeJSON(w, http.StatusOK, c.Profile())
}

// Settings handles GET /api/v1/settings
func (h *ViewHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Settings())
}

// ToggleSettingRequest is the body for POST /api/v1/settings/toggle.
type ToggleSettingRequest struct {
	Name string `json:"name"`
}

// ToggleSetting handles POST /api/v1/settings/toggle
func (h *ViewHandler) ToggleSetting(w http.ResponseWriter, r *http.Request) {
	var req ToggleSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	settings, err := h.controller(r).ToggleSetting(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SignOut handles POST /api/v1/signout
func (h *ViewHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	c.SignOut()
	writeJSON(w, http.StatusOK, c.Snapshot())
}
