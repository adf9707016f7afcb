package view

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

type stubBoundary struct {
	reviews []model.ProductReview
	reply   string
}

func (s *stubBoundary) Name() string { return "stub" }

func (s *stubBoundary) AnalyzeImage(ctx context.Context, img llm.Image) (*model.ProductReview, error) {
	return &model.ProductReview{ProductName: "Stub", OverallVerdict: "V"}, nil
}

func (s *stubBoundary) SearchProducts(ctx context.Context, query string) ([]model.ProductReview, error) {
	return s.reviews, nil
}

func (s *stubBoundary) Converse(ctx context.Context, history []model.ConversationTurn, message string) (string, error) {
	return s.reply, nil
}

func newController() *Controller {
	return NewController(&stubBoundary{reply: "ok"}, time.Second, logger.NewNop())
}

func sampleReview() *model.ProductReview {
	return &model.ProductReview{ProductName: "Omega-3", OverallVerdict: "Recommended"}
}

func TestControllerInitialState(t *testing.T) {
	snap := newController().Snapshot()
	assert.Equal(t, model.ScreenHome, snap.Screen)
	assert.Empty(t, snap.MoreView)
	assert.Nil(t, snap.HeldResult)
	assert.Nil(t, snap.Draft)
	assert.Equal(t, model.DefaultProfile(), snap.Profile)
	assert.Equal(t, model.DefaultSettings(), snap.Settings)
}

func TestNavigateUnknownScreen(t *testing.T) {
	c := newController()
	assert.ErrorIs(t, c.Navigate("nonsense"), ErrUnknownScreen)
	assert.Equal(t, model.ScreenHome, c.Snapshot().Screen)
}

func TestNavigateShowsExactlyOneScreen(t *testing.T) {
	c := newController()
	for _, screen := range []model.Screen{
		model.ScreenSearch,
		model.ScreenConsultant,
		model.ScreenMore,
		model.ScreenHome,
	} {
		require.NoError(t, c.Navigate(screen))
		assert.Equal(t, screen, c.Snapshot().Screen)
	}
}

func TestHeldResultClearedOnNavigation(t *testing.T) {
	c := newController()
	c.CompleteScan(sampleReview())
	require.NotNil(t, c.HeldResult())

	require.NoError(t, c.Navigate(model.ScreenSearch))
	assert.Nil(t, c.HeldResult())

	// Coming back to Home does not resurrect it.
	require.NoError(t, c.Navigate(model.ScreenHome))
	assert.Nil(t, c.HeldResult())
}

func TestHeldResultSurvivesHomeOperations(t *testing.T) {
	c := newController()
	c.CompleteScan(sampleReview())

	_, err := c.ToggleSetting("dark_mode")
	require.NoError(t, err)
	require.NotNil(t, c.HeldResult())
	assert.Equal(t, "Omega-3", c.HeldResult().ProductName)
}

func TestCompleteScanReturnsHome(t *testing.T) {
	c := newController()
	require.NoError(t, c.Navigate(model.ScreenScanner))

	c.CompleteScan(sampleReview())

	snap := c.Snapshot()
	assert.Equal(t, model.ScreenHome, snap.Screen)
	require.NotNil(t, snap.HeldResult)
	assert.Equal(t, "Omega-3", snap.HeldResult.ProductName)
}

func TestDismissResult(t *testing.T) {
	c := newController()
	c.CompleteScan(sampleReview())

	c.DismissResult()

	snap := c.Snapshot()
	assert.Equal(t, model.ScreenHome, snap.Screen)
	assert.Nil(t, snap.HeldResult)
}

func TestHeldResultIsACopy(t *testing.T) {
	c := newController()
	review := sampleReview()
	c.CompleteScan(review)

	review.ProductName = "mutated"
	held := c.HeldResult()
	require.NotNil(t, held)
	assert.Equal(t, "Omega-3", held.ProductName)

	held.ProductName = "also mutated"
	assert.Equal(t, "Omega-3", c.HeldResult().ProductName)
}

func TestNavigateResetsDepartedSessions(t *testing.T) {
	c := newController()

	require.NoError(t, c.Navigate(model.ScreenSearch))
	require.NoError(t, c.Search().Submit(context.Background(), "anything"))
	require.NoError(t, c.Chat().Submit(context.Background(), "hello"))

	require.NoError(t, c.Navigate(model.ScreenConsultant))
	assert.False(t, c.Search().Snapshot().Searched, "leaving search discards its results")

	require.NoError(t, c.Navigate(model.ScreenHome))
	require.Len(t, c.Chat().Snapshot().Turns, 1, "leaving consultant resets the conversation")
}

func TestNavigateSameScreenKeepsSession(t *testing.T) {
	c := newController()
	require.NoError(t, c.Navigate(model.ScreenSearch))
	require.NoError(t, c.Search().Submit(context.Background(), "anything"))

	require.NoError(t, c.Navigate(model.ScreenSearch))
	assert.True(t, c.Search().Snapshot().Searched)
}

func TestMoreSubtreeNavigation(t *testing.T) {
	c := newController()

	// Sub-view navigation requires being on the More screen.
	assert.Error(t, c.NavigateMore(model.MoreProfile))

	require.NoError(t, c.Navigate(model.ScreenMore))
	assert.Equal(t, model.MoreMenu, c.Snapshot().MoreView)

	require.NoError(t, c.NavigateMore(model.MoreSettings))
	assert.Equal(t, model.MoreSettings, c.Snapshot().MoreView)

	// Re-entering More always lands on the menu.
	require.NoError(t, c.Navigate(model.ScreenHome))
	require.NoError(t, c.Navigate(model.ScreenMore))
	assert.Equal(t, model.MoreMenu, c.Snapshot().MoreView)
}

func TestProfileDraftCommit(t *testing.T) {
	c := newController()

	draft := c.BeginEdit()
	assert.Equal(t, c.Profile(), draft)

	draft.Name = "Jane Smith"
	draft.Age = "34"
	require.NoError(t, c.SetDraft(draft))

	// The committed profile is untouched until save.
	assert.Equal(t, model.DefaultProfile(), c.Profile())

	require.NoError(t, c.SaveProfile())
	saved := c.Profile()
	assert.Equal(t, "Jane Smith", saved.Name)
	assert.Equal(t, "34", saved.Age)
	assert.Nil(t, c.Snapshot().Draft)
}

func TestProfileDraftCancel(t *testing.T) {
	c := newController()

	draft := c.BeginEdit()
	draft.Name = "Discarded"
	require.NoError(t, c.SetDraft(draft))

	c.CancelEdit()

	assert.Equal(t, model.DefaultProfile(), c.Profile())
	assert.ErrorIs(t, c.SaveProfile(), ErrNotEditing)
}

func TestProfileDraftRequiresEditing(t *testing.T) {
	c := newController()
	assert.ErrorIs(t, c.SetDraft(model.UserProfile{Name: "X"}), ErrNotEditing)
	assert.ErrorIs(t, c.SaveProfile(), ErrNotEditing)
}

func TestProfileDraftDiscardedOnLeavingMore(t *testing.T) {
	c := newController()
	require.NoError(t, c.Navigate(model.ScreenMore))
	require.NoError(t, c.NavigateMore(model.MoreProfile))
	c.BeginEdit()

	require.NoError(t, c.Navigate(model.ScreenHome))
	assert.ErrorIs(t, c.SaveProfile(), ErrNotEditing)
}

func TestToggleSetting(t *testing.T) {
	c := newController()

	settings, err := c.ToggleSetting("notifications")
	require.NoError(t, err)
	assert.False(t, settings.Notifications)

	settings, err = c.ToggleSetting("dark_mode")
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)

	// Toggling one switch leaves the other alone.
	assert.False(t, settings.Notifications)

	_, err = c.ToggleSetting("unknown")
	assert.Error(t, err)
}

func TestSignOutResetsMoreSubtree(t *testing.T) {
	c := newController()
	require.NoError(t, c.Navigate(model.ScreenMore))
	require.NoError(t, c.NavigateMore(model.MoreProfile))
	c.BeginEdit()

	c.SignOut()

	assert.Equal(t, model.MoreMenu, c.Snapshot().MoreView)
	assert.ErrorIs(t, c.SaveProfile(), ErrNotEditing)
}

func TestRegistryOneControllerPerClient(t *testing.T) {
	r := NewRegistry(&stubBoundary{}, time.Second, logger.NewNop())

	a := r.Get("client-a")
	b := r.Get("client-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, r.Get("client-a"))

	// State is isolated per client.
	a.CompleteScan(sampleReview())
	assert.Nil(t, b.HeldResult())
}

func TestRegistryEvictsIdleClients(t *testing.T) {
	r := NewRegistry(&stubBoundary{}, time.Second, logger.NewNop())
	a := r.Get("client-a")
	a.CompleteScan(sampleReview())

	r.mu.Lock()
	r.clients["client-a"].lastSeen = time.Now().Add(-2 * r.maxIdle)
	r.mu.Unlock()

	// Any lookup sweeps idle states.
	r.Get("client-b")

	fresh := r.Get("client-a")
	assert.NotSame(t, a, fresh)
	assert.Nil(t, fresh.HeldResult())
}

func TestRegistryKeepsRecentlySeenClients(t *testing.T) {
	r := NewRegistry(&stubBoundary{}, time.Second, logger.NewNop())
	a := r.Get("client-a")

	r.Get("client-b")
	assert.Same(t, a, r.Get("client-a"))
}
