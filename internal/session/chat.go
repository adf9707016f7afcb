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
	"github.com/nutriscan-ai/supplement-platform/pkg/metrics"
)

// WelcomeText seeds every consultant session.
const WelcomeText = "Hello! I'm your personal Supplement Consultant. To give you the best advice, could you tell me a bit about your health goals (e.g., better sleep, energy, muscle building) and if you have any dietary restrictions?"

// fallbackText stands in for the assistant reply when the boundary fails.
const fallbackText = "I'm having trouble connecting to my knowledge base right now. Please try again."

// ErrEmptyMessage rejects empty or whitespace-only messages before any
// turn is appended.
var ErrEmptyMessage = errors.New("message must not be empty")

// ChatSession manages the consultant conversation: a single linear,
// append-only turn sequence, resent whole as context on every submission.
type ChatSession struct {
	boundary llm.Client
	log      *logger.Logger
	timeout  time.Duration

	mu      sync.Mutex
	seq     uint64
	loading bool
	turns   []model.ConversationTurn
	lastErr error
}

// NewChatSession creates a session seeded with the welcome turn.
func NewChatSession(boundary llm.Client, timeout time.Duration, log *logger.Logger) *ChatSession {
	return &ChatSession{
		boundary: boundary,
		timeout:  timeout,
		log:      log,
		turns:    []model.ConversationTurn{model.NewTurn(model.RoleAssistant, WelcomeText)},
	}
}

// ChatSnapshot is the observable session state.
type ChatSnapshot struct {
	Loading bool                     `json:"loading"`
	Turns   []model.ConversationTurn `json:"turns"`
}

// Snapshot returns the current observable state.
func (s *ChatSession) Snapshot() ChatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ChatSnapshot{
		Loading: s.loading,
		Turns:   append([]model.ConversationTurn(nil), s.turns...),
	}
}

// Submit appends the user turn immediately, then runs one Converse call
// to completion. The history sent as context excludes the new user turn,
// which travels separately as the new message. On boundary failure the
// canned fallback text is appended as the assistant turn and the error is
// recorded internally.
func (s *ChatSession) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	history := append([]model.ConversationTurn(nil), s.turns...)
	s.turns = append(s.turns, model.NewTurn(model.RoleUser, text))
	s.loading = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	metrics.TurnsTotal.WithLabelValues(string(model.RoleUser)).Inc()

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	reply, err := s.boundary.Converse(cctx, history, text)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debug("discarding stale chat completion", zap.Uint64("seq", seq))
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		reply = fallbackText
		s.log.Warn("consultant call failed", zap.Error(err))
	} else {
		s.lastErr = nil
	}
	s.turns = append(s.turns, model.NewTurn(model.RoleAssistant, reply))
	metrics.TurnsTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	return nil
}

// LastErr reports the boundary error behind the most recent fallback
// reply, if any. The default presentation collapses failure into the
// fallback text; this keeps the two distinguishable.
func (s *ChatSession) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Reset restores the session to the single welcome turn and fences off
// any completion still in flight.
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = false
	s.lastErr = nil
	s.turns = []model.ConversationTurn{model.NewTurn(model.RoleAssistant, WelcomeText)}
}
