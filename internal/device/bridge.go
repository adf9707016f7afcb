package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Outcome is the client-reported result of an acquisition request.
type Outcome string

const (
	OutcomeGranted     Outcome = "granted"
	OutcomeUnsupported Outcome = "unsupported"
	OutcomeDenied      Outcome = "denied"
	OutcomeNotFound    Outcome = "notfound"
	OutcomeBusy        Outcome = "busy"
)

// ErrNoPendingRequest is returned when an outcome or frame arrives while
// no acquisition is waiting for one.
var ErrNoPendingRequest = errors.New("no pending device request")

// Bridge implements Camera for the HTTP deployment. Acquire parks until
// the client runtime, which holds the physical camera, reports the result
// of the getUserMedia-style request it was asked to make; captured frames
// are delivered the same way.
type Bridge struct {
	mu      sync.Mutex
	pending *pendingAcquire
	stream  *bridgeStream
}

type pendingAcquire struct {
	constraints Constraints
	done        chan acquireResult
}

type acquireResult struct {
	stream *bridgeStream
	err    error
}

// NewBridge creates an empty bridge with no pending request.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Acquire publishes the constraints for the client to act on and waits for
// the reported outcome.
func (b *Bridge) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	req := &pendingAcquire{
		constraints: c,
		done:        make(chan acquireResult, 1),
	}

	b.mu.Lock()
	if b.pending != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: acquisition already in progress", ErrBusy)
	}
	b.pending = req
	b.mu.Unlock()

	select {
	case res := <-req.done:
		return streamOrNil(res)
	case <-ctx.Done():
		b.mu.Lock()
		if b.pending == req {
			b.pending = nil
		}
		b.mu.Unlock()
		return nil, ctx.Err()
	}
}

func streamOrNil(res acquireResult) (Stream, error) {
	if res.err != nil {
		return nil, res.err
	}
	// A typed nil inside the interface would read as non-nil to callers.
	return res.stream, nil
}

// PendingConstraints reports the constraints the client should request, if
// an acquisition is waiting.
func (b *Bridge) PendingConstraints() (Constraints, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return Constraints{}, false
	}
	return b.pending.constraints, true
}

// Report resolves the pending acquisition with the client-observed outcome.
// A report with no acquisition waiting, or with an unknown outcome, leaves
// the bridge untouched.
func (b *Bridge) Report(o Outcome) error {
	b.mu.Lock()
	req := b.pending
	if req == nil {
		b.mu.Unlock()
		return ErrNoPendingRequest
	}

	var res acquireResult
	switch o {
	case OutcomeGranted:
		res = acquireResult{stream: newBridgeStream(b)}
	case OutcomeUnsupported:
		res = acquireResult{err: ErrUnsupported}
	case OutcomeDenied:
		res = acquireResult{err: ErrPermissionDenied}
	case OutcomeNotFound:
		res = acquireResult{err: ErrNotFound}
	case OutcomeBusy:
		res = acquireResult{err: ErrBusy}
	default:
		b.mu.Unlock()
		return fmt.Errorf("unknown outcome %q", o)
	}
	b.pending = nil
	if res.stream != nil {
		b.stream = res.stream
	}
	b.mu.Unlock()

	req.done <- res
	return nil
}

// DeliverFrame hands a client-captured frame to the live stream.
func (b *Bridge) DeliverFrame(f Frame) error {
	b.mu.Lock()
	stream := b.stream
	b.mu.Unlock()
	if stream == nil {
		return ErrNoPendingRequest
	}
	return stream.deliver(f)
}

func (b *Bridge) release(s *bridgeStream) {
	b.mu.Lock()
	if b.stream == s {
		b.stream = nil
	}
	b.mu.Unlock()
}

// bridgeStream is the server-side handle on a client-held camera stream.
type bridgeStream struct {
	bridge *Bridge

	mu      sync.Mutex
	stopped bool
	latest  *Frame
	waiters []chan Frame
	tracks  []Track
}

func newBridgeStream(b *Bridge) *bridgeStream {
	s := &bridgeStream{bridge: b}
	s.tracks = []Track{&bridgeTrack{stream: s}}
	return s
}

func (s *bridgeStream) Frame(ctx context.Context) (Frame, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return Frame{}, ErrStreamClosed
	}
	if s.latest != nil {
		f := *s.latest
		s.mu.Unlock()
		return f, nil
	}
	ch := make(chan Frame, 1)
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	select {
	case f, ok := <-ch:
		if !ok {
			return Frame{}, ErrStreamClosed
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

func (s *bridgeStream) deliver(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStreamClosed
	}
	s.latest = &f
	for _, ch := range s.waiters {
		ch <- f
	}
	s.waiters = nil
	return nil
}

func (s *bridgeStream) Tracks() []Track {
	return s.tracks
}

func (s *bridgeStream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, ch := range s.waiters {
		close(ch)
	}
	s.waiters = nil
	s.latest = nil
	s.mu.Unlock()

	s.bridge.release(s)
}

type bridgeTrack struct {
	stream *bridgeStream
}

func (t *bridgeTrack) Kind() string { return "video" }

func (t *bridgeTrack) Stop() { t.stream.Stop() }
