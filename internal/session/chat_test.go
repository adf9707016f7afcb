package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

func newChatSession(boundary llm.Client) *ChatSession {
	return NewChatSession(boundary, time.Second, logger.NewNop())
}

func TestChatSeededWithWelcome(t *testing.T) {
	snap := newChatSession(&fakeBoundary{}).Snapshot()
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, model.RoleAssistant, snap.Turns[0].Role)
	assert.Equal(t, WelcomeText, snap.Turns[0].Text)
	assert.NotEmpty(t, snap.Turns[0].ID)
}

func TestChatSubmitAppendsInOrder(t *testing.T) {
	boundary := &fakeBoundary{
		converseFn: func(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
			// History carries only the turns before this submission.
			require.Len(t, history, 1)
			assert.Equal(t, WelcomeText, history[0].Text)
			assert.Equal(t, "Is magnesium good for sleep?", message)
			return "Magnesium glycinate is commonly used for sleep support.", nil
		},
	}
	s := newChatSession(boundary)

	require.NoError(t, s.Submit(context.Background(), "Is magnesium good for sleep?"))

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, model.RoleUser, snap.Turns[1].Role)
	assert.Equal(t, "Is magnesium good for sleep?", snap.Turns[1].Text)
	assert.Equal(t, model.RoleAssistant, snap.Turns[2].Role)
	assert.Equal(t, "Magnesium glycinate is commonly used for sleep support.", snap.Turns[2].Text)
	assert.NoError(t, s.LastErr())
}

func TestChatHistoryGrowsAcrossSubmissions(t *testing.T) {
	var lastHistory int
	boundary := &fakeBoundary{
		converseFn: func(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
			lastHistory = len(history)
			return "reply", nil
		},
	}
	s := newChatSession(boundary)

	require.NoError(t, s.Submit(context.Background(), "first"))
	assert.Equal(t, 1, lastHistory)

	require.NoError(t, s.Submit(context.Background(), "second"))
	// Welcome, first user turn, first reply.
	assert.Equal(t, 3, lastHistory)
}

func TestChatEmptyMessageRejected(t *testing.T) {
	boundary := &fakeBoundary{}
	s := newChatSession(boundary)

	assert.ErrorIs(t, s.Submit(context.Background(), "  "), ErrEmptyMessage)

	boundary.mu.Lock()
	defer boundary.mu.Unlock()
	assert.Zero(t, boundary.converseCalls)
	assert.Len(t, s.Snapshot().Turns, 1)
}

func TestChatFailureAppendsFallback(t *testing.T) {
	boundary := &fakeBoundary{
		converseFn: func(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
			return "", llm.ErrConversation
		},
	}
	s := newChatSession(boundary)

	require.NoError(t, s.Submit(context.Background(), "hello"))

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, model.RoleUser, snap.Turns[1].Role)
	assert.Equal(t, model.RoleAssistant, snap.Turns[2].Role)
	assert.Equal(t, "I'm having trouble connecting to my knowledge base right now. Please try again.", snap.Turns[2].Text)
	assert.ErrorIs(t, s.LastErr(), llm.ErrConversation)
}

func TestChatLastErrClearedOnSuccess(t *testing.T) {
	fail := true
	boundary := &fakeBoundary{
		converseFn: func(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
			if fail {
				return "", llm.ErrConversation
			}
			return "recovered", nil
		},
	}
	s := newChatSession(boundary)

	require.NoError(t, s.Submit(context.Background(), "one"))
	require.Error(t, s.LastErr())

	fail = false
	require.NoError(t, s.Submit(context.Background(), "two"))
	assert.NoError(t, s.LastErr())
}

func TestChatStaleCompletionDiscarded(t *testing.T) {
	release := make(chan struct{})
	boundary := &fakeBoundary{
		converseFn: func(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
			<-release
			return "late reply", nil
		},
	}
	s := newChatSession(boundary)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "slow") }()
	require.Eventually(t, func() bool {
		return s.Snapshot().Loading
	}, time.Second, time.Millisecond)

	s.Reset()

	close(release)
	require.NoError(t, <-done)

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, WelcomeText, snap.Turns[0].Text)
	assert.False(t, snap.Loading)
}

func TestChatReset(t *testing.T) {
	s := newChatSession(&fakeBoundary{})
	require.NoError(t, s.Submit(context.Background(), "hello"))
	require.Len(t, s.Snapshot().Turns, 3)

	s.Reset()

	snap := s.Snapshot()
	require.Len(t, snap.Turns, 1)
	assert.Equal(t, model.RoleAssistant, snap.Turns[0].Role)
	assert.Equal(t, WelcomeText, snap.Turns[0].Text)
}
