package session

import (
	"context"
	"sync"

	"github.com/nutriscan-ai/supplement-platform/internal/device"
	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
)

// fakeBoundary implements llm.Client with per-operation hooks.
type fakeBoundary struct {
	mu            sync.Mutex
	analyzeCalls  int
	searchCalls   int
	converseCalls int

	analyzeFn  func(ctx context.Context, img llm.Image) (*model.ProductReview, error)
	searchFn   func(ctx context.Context, query string) ([]model.ProductReview, error)
	converseFn func(ctx context.Context, history []model.ConversationTurn, message string) (string, error)
}

func (f *fakeBoundary) Name() string { return "fake" }

func (f *fakeBoundary) AnalyzeImage(ctx context.Context, img llm.Image) (*model.ProductReview, error) {
	f.mu.Lock()
	f.analyzeCalls++
	fn := f.analyzeFn
	f.mu.Unlock()
	if fn == nil {
		return &model.ProductReview{ProductName: "Test Product", OverallVerdict: "Fine"}, nil
	}
	return fn(ctx, img)
}

func (f *fakeBoundary) SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error) {
	f.mu.Lock()
	f.searchCalls++
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, query)
}

func (f *fakeBoundary) Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
	f.mu.Lock()
	f.converseCalls++
	fn := f.converseFn
	f.mu.Unlock()
	if fn == nil {
		return "ok", nil
	}
	return fn(ctx, history, message)
}

// fakeCamera implements device.Camera, recording each acquisition request.
type fakeCamera struct {
	mu       sync.Mutex
	requests []device.Constraints

	acquireFn func(ctx context.Context, c device.Constraints) (device.Stream, error)
}

func (f *fakeCamera) Acquire(ctx context.Context, c device.Constraints) (device.Stream, error) {
	f.mu.Lock()
	f.requests = append(f.requests, c)
	fn := f.acquireFn
	f.mu.Unlock()
	if fn == nil {
		return newFakeStream(), nil
	}
	return fn(ctx, c)
}

func (f *fakeCamera) requested() []device.Constraints {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]device.Constraints(nil), f.requests...)
}

// fakeStream implements device.Stream and counts Stop calls.
type fakeStream struct {
	mu    sync.Mutex
	stops int
	frame device.Frame
}

func newFakeStream() *fakeStream {
	return &fakeStream{frame: device.Frame{Bytes: []byte("jpeg-bytes"), MIMEType: "image/jpeg"}}
}

func (f *fakeStream) Frame(ctx context.Context) (device.Frame, error) {
	return f.frame, nil
}

func (f *fakeStream) Tracks() []device.Track { return nil }

func (f *fakeStream) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeStream) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}
