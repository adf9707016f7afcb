package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nutriscan-ai/supplement-platform/internal/device"
	"github.com/nutriscan-ai/supplement-platform/internal/middleware"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/internal/session"
	"github.com/nutriscan-ai/supplement-platform/internal/view"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

// CaptureHandler drives the scanner: the session state machine on this
// side, the physical camera on the client side, with the device bridge
// relaying between them.
type CaptureHandler struct {
	registry *view.Registry
	logger   *logger.Logger
}

// NewCaptureHandler creates a new capture handler.
func NewCaptureHandler(registry *view.Registry, log *logger.Logger) *CaptureHandler {
	return &CaptureHandler{registry: registry, logger: log}
}

func (h *CaptureHandler) controller(r *http.Request) *view.Controller {
	return h.registry.Get(middleware.GetClientKey(r.Context()))
}

// Start handles POST /api/v1/capture/start. It enters the scanner screen
// and kicks off device acquisition; the response reports the resulting
// session state, including a device error if acquisition failed.
func (h *CaptureHandler) Start(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.Navigate(model.ScreenScanner); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := c.Capture().Start(r.Context()); err != nil && errors.Is(err, session.ErrSessionActive) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Capture().Snapshot())
}

// DeviceRequest reports what the client runtime should ask of its camera.
type DeviceRequest struct {
	Waiting bool              `json:"waiting"`
	Facing  device.FacingMode `json:"facing,omitempty"`
}

// Device handles GET /api/v1/capture/device
func (h *CaptureHandler) Device(w http.ResponseWriter, r *http.Request) {
	constraints, waiting := h.controller(r).Bridge().PendingConstraints()
	resp := DeviceRequest{Waiting: waiting}
	if waiting {
		resp.Facing = constraints.Facing
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeviceReportRequest is the body for POST /api/v1/capture/device.
type DeviceReportRequest struct {
	Outcome device.Outcome `json:"outcome"`
}

// ReportDevice handles POST /api/v1/capture/device
func (h *CaptureHandler) ReportDevice(w http.ResponseWriter, r *http.Request) {
	var req DeviceReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.controller(r).Bridge().Report(req.Outcome); err != nil {
		if errors.Is(err, device.ErrNoPendingRequest) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reported"})
}

// FrameRequest is the body for POST /api/v1/capture/frame.
type FrameRequest struct {
	Image    string `json:"image"` // base64-encoded
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Frame handles POST /api/v1/capture/frame. The client posts the frame it
// snapshotted; the session submits it for analysis exactly once. A frame
// posted while a capture is in flight is rejected without reaching the
// boundary.
func (h *CaptureHandler) Frame(w http.ResponseWriter, r *http.Request) {
	var req FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image must be base64-encoded")
		return
	}
	if req.MIMEType == "" {
		req.MIMEType = "image/jpeg"
	}
	if err := middleware.ValidateImage(data, req.MIMEType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := h.controller(r)
	if err := c.Bridge().DeliverFrame(device.Frame{
		Bytes:    data,
		MIMEType: req.MIMEType,
		Width:    req.Width,
		Height:   req.Height,
	}); err != nil {
		writeError(w, http.StatusConflict, "no live camera stream")
		return
	}

	switch err := c.Capture().Capture(r.Context()); {
	case err == nil:
		// Resolved into Home with the held result set.
		writeJSON(w, http.StatusOK, c.Snapshot())
	case errors.Is(err, session.ErrCaptureInFlight), errors.Is(err, session.ErrNotLive):
		writeError(w, http.StatusConflict, err.Error())
	default:
		// Analysis failed; the session is back in Live with an inline
		// message and the device still held for a retry.
		writeJSON(w, http.StatusOK, c.Capture().Snapshot())
	}
}

// Retry handles POST /api/v1/capture/retry
func (h *CaptureHandler) Retry(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.Capture().Retry(r.Context()); err != nil && errors.Is(err, session.ErrSessionActive) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Capture().Snapshot())
}

// Close handles POST /api/v1/capture/close. Navigating home tears the
// session down and releases the device.
func (h *CaptureHandler) Close(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)
	if err := c.Navigate(model.ScreenHome); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// State handles GET /api/v1/capture/state
func (h *CaptureHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller(r).Capture().Snapshot())
}
