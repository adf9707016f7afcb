package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

// ErrEmptyQuery rejects empty or whitespace-only queries before the
// boundary is contacted.
var ErrEmptyQuery = errors.New("query must not be empty")

// SearchSession manages one-shot search requests. A failure ends in the
// same observable empty state as a genuine zero-hit response, but the
// failure itself stays recorded so callers that want to distinguish can.
type SearchSession struct {
	boundary llm.Client
	log      *logger.Logger
	timeout  time.Duration

	mu       sync.Mutex
	seq      uint64
	loading  bool
	searched bool
	failed   bool
	results  []model.ProductReview
}

// NewSearchSession creates an empty search session.
func NewSearchSession(boundary llm.Client, timeout time.Duration, log *logger.Logger) *SearchSession {
	return &SearchSession{boundary: boundary, timeout: timeout, log: log}
}

// SearchSnapshot is the observable session state.
type SearchSnapshot struct {
	Loading  bool                  `json:"loading"`
	Searched bool                  `json:"searched"`
	Failed   bool                  `json:"failed"`
	Results  []model.ProductReview `json:"results"`
}

// Snapshot returns the current observable state.
func (s *SearchSession) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SearchSnapshot{
		Loading:  s.loading,
		Searched: s.searched,
		Failed:   s.failed,
		Results:  append([]model.ProductReview(nil), s.results...),
	}
}

// Submit runs one search request to completion. Each submission takes a
// fresh sequence number; a completion that is no longer the newest is
// discarded without touching session state.
func (s *SearchSession) Submit(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.searched = true
	s.failed = false
	s.results = nil
	s.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	reviews, err := s.boundary.SearchProducts(cctx, query)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug("discarding stale search completion", zap.Uint64("seq", seq))
		return nil
	}
	s.loading = false
	if err != nil {
		// Same presentation as zero hits; the flag keeps it
		// distinguishable internally.
		s.failed = true
		s.results = nil
		s.log.Warn("search failed", zap.Error(err))
		return nil
	}
	s.results = reviews
	return nil
}

// Reset clears the session back to its never-searched state and fences
// off any completion still in flight.
func (s *SearchSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = false
	s.searched = false
	s.failed = false
	s.results = nil
}
