// Package session implements the per-screen interaction state machines:
// camera capture, database search, and consultant chat. Each session owns
// at most one in-flight boundary call and converts failures into screen
// state rather than propagating them to the transport layer.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan-ai/supplement-platform/internal/device"
	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
	"github.com/nutriscan-ai/supplement-platform/pkg/metrics"
)

// CaptureState is the capture session lifecycle state.
type CaptureState string

const (
	CaptureIdle        CaptureState = "idle"
	CaptureRequesting  CaptureState = "requesting-device"
	CaptureLive        CaptureState = "live"
	CaptureCapturing   CaptureState = "capturing"
	CaptureDeviceError CaptureState = "device-error"
)

var (
	// ErrCaptureInFlight rejects a capture while one is already running,
	// so a second boundary call can never be issued for one action.
	ErrCaptureInFlight = errors.New("capture already in flight")

	// ErrNotLive rejects a capture when no live stream is held.
	ErrNotLive = errors.New("no live camera stream")

	// ErrSessionActive rejects starting a session that is already past Idle.
	ErrSessionActive = errors.New("capture session already active")
)

const analysisFailedMessage = "Could not analyze image. Please ensure the product is well-lit and try again."

// CaptureSession sequences the camera lifecycle around a single analyze
// call: acquire, live, capture-once, resolve, and release on every exit.
type CaptureSession struct {
	camera   device.Camera
	boundary llm.Client
	log      *logger.Logger
	timeout  time.Duration

	// onComplete hands the produced review to the view controller. The
	// device is always released before this runs.
	onComplete func(*model.ProductReview)

	mu     sync.Mutex
	state  CaptureState
	stream device.Stream
	errMsg string

	// gen bumps on every close/resolve; async work holding a stale gen
	// discards its result instead of touching the session.
	gen uint64
}

// NewCaptureSession creates an idle capture session.
func NewCaptureSession(camera device.Camera, boundary llm.Client, timeout time.Duration, onComplete func(*model.ProductReview), log *logger.Logger) *CaptureSession {
	return &CaptureSession{
		camera:     camera,
		boundary:   boundary,
		timeout:    timeout,
		onComplete: onComplete,
		log:        log,
		state:      CaptureIdle,
	}
}

// CaptureSnapshot is the observable session state.
type CaptureSnapshot struct {
	State CaptureState `json:"state"`
	Error string       `json:"error,omitempty"`
}

// Snapshot returns the current observable state.
func (s *CaptureSession) Snapshot() CaptureSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CaptureSnapshot{State: s.state, Error: s.errMsg}
}

// Start runs device acquisition from scratch. Allowed from Idle and from
// DeviceError (the retry affordance).
func (s *CaptureSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != CaptureIdle && s.state != CaptureDeviceError {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.state = CaptureRequesting
	s.errMsg = ""
	gen := s.gen
	s.mu.Unlock()

	stream, err := s.acquire(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Session was closed while acquiring; the hard teardown
		// invariant means nothing may stay open past that point.
		if stream != nil {
			stream.Stop()
		}
		return nil
	}
	if err != nil {
		s.state = CaptureDeviceError
		s.errMsg = device.Message(err)
		metrics.DeviceAcquisitionsTotal.WithLabelValues("error").Inc()
		s.log.Warn("camera acquisition failed", zap.Error(err))
		return err
	}
	s.stream = stream
	s.state = CaptureLive
	metrics.DeviceAcquisitionsTotal.WithLabelValues("granted").Inc()
	return nil
}

// acquire prefers the rear-facing camera and falls back to an
// unconstrained request before giving up. An unsupported runtime fails
// immediately; there is no device a fallback could reach.
func (s *CaptureSession) acquire(ctx context.Context) (device.Stream, error) {
	stream, err := s.camera.Acquire(ctx, device.Constraints{Facing: device.FacingEnvironment})
	if err == nil {
		return stream, nil
	}
	if errors.Is(err, device.ErrUnsupported) || ctx.Err() != nil {
		return nil, err
	}
	s.log.Debug("environment camera failed, trying fallback", zap.Error(err))
	return s.camera.Acquire(ctx, device.Constraints{Facing: device.FacingAny})
}

// Retry re-runs acquisition after a device error.
func (s *CaptureSession) Retry(ctx context.Context) error {
	return s.Start(ctx)
}

// Capture snapshots the live frame, submits it for analysis exactly once,
// and resolves. On success the device is released before the review is
// handed off; on failure the live view is kept so the user can retry
// without re-requesting permission.
func (s *CaptureSession) Capture(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case CaptureCapturing:
		s.mu.Unlock()
		return ErrCaptureInFlight
	case CaptureLive:
	default:
		s.mu.Unlock()
		return ErrNotLive
	}
	s.state = CaptureCapturing
	s.errMsg = ""
	gen := s.gen
	stream := s.stream
	s.mu.Unlock()

	frame, err := stream.Frame(ctx)
	var review *model.ProductReview
	if err == nil {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		review, err = s.boundary.AnalyzeImage(cctx, llm.Image{Bytes: frame.Bytes, MIMEType: frame.MIMEType})
		cancel()
	}

	s.mu.Lock()
	if gen != s.gen {
		// Closed mid-flight; Close already released the device.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.state = CaptureLive
		s.errMsg = analysisFailedMessage
		s.mu.Unlock()
		metrics.CapturesTotal.WithLabelValues("failed").Inc()
		s.log.Warn("capture analysis failed", zap.Error(err))
		return err
	}

	// Release before handing the review to the view controller.
	s.stream.Stop()
	s.stream = nil
	s.state = CaptureIdle
	s.gen++
	onComplete := s.onComplete
	s.mu.Unlock()

	metrics.CapturesTotal.WithLabelValues("success").Inc()
	s.log.Info("capture resolved", zap.String("product", review.ProductName))
	if onComplete != nil {
		onComplete(review)
	}
	return nil
}

// Close tears the session down. Every exit path funnels through here or
// through the success branch of Capture; both release the device, and
// releasing an already-released handle is a no-op.
func (s *CaptureSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
	s.state = CaptureIdle
	s.errMsg = ""
	s.gen++
}
