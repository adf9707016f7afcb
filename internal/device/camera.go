// Package device models the media-capture capability the capture session
// depends on. The physical camera belongs to the client runtime; this
// package is the contract the session programs against, plus the bridge
// implementation that relays acquisition and frames over HTTP.
package device

import (
	"context"
	"errors"
)

// FacingMode is the camera-selection hint carried by an acquisition request.
type FacingMode string

const (
	// FacingEnvironment prefers the rear/outward-facing camera.
	FacingEnvironment FacingMode = "environment"
	// FacingAny places no constraint on which camera is used.
	FacingAny FacingMode = "any"
)

// Constraints describe one acquisition request.
type Constraints struct {
	Facing FacingMode
}

// Acquisition failure taxonomy. Each maps to a distinct user-facing
// message; all are recoverable via an explicit retry.
var (
	// ErrUnsupported means the runtime cannot capture at all, e.g. no
	// secure context. No fallback request is attempted after this.
	ErrUnsupported = errors.New("capture capability unsupported")

	// ErrPermissionDenied means the user refused camera access.
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrNotFound means no camera device is present.
	ErrNotFound = errors.New("no camera device found")

	// ErrBusy means the device exists but is held elsewhere.
	ErrBusy = errors.New("camera device unavailable")
)

// ErrStreamClosed is returned by Frame after the stream was stopped.
var ErrStreamClosed = errors.New("camera stream closed")

// Message returns the user-facing text for an acquisition failure.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "Camera API is not supported in this browser context (requires HTTPS)."
	case errors.Is(err, ErrPermissionDenied):
		return "Permission denied. Please allow camera access in your browser settings."
	case errors.Is(err, ErrNotFound):
		return "No camera device found."
	default:
		return "Could not access camera. Please ensure no other apps are using it."
	}
}

// Frame is one still image snapshotted from a live stream, at the video's
// native resolution.
type Frame struct {
	Bytes    []byte
	MIMEType string
	Width    int
	Height   int
}

// Track is one media track within a stream.
type Track interface {
	Kind() string
	Stop()
}

// Stream is a revocable handle on an acquired camera.
type Stream interface {
	// Frame snapshots the current live frame, blocking until one is
	// available or the context ends.
	Frame(ctx context.Context) (Frame, error)

	// Tracks enumerates the stream's media tracks.
	Tracks() []Track

	// Stop stops every track and revokes the handle. Stopping an
	// already-stopped stream is a no-op.
	Stop()
}

// Camera is the acquisition entry point.
type Camera interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}
