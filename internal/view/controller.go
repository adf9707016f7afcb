// Package view owns the navigation state machine: which screen is
// visible, the held result pinned to Home, the user profile with its
// draft/commit editing flow, and the More subtree.
package view

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutriscan-ai/supplement-platform/internal/device"
	"github.com/nutriscan-ai/supplement-platform/internal/llm"
	"github.com/nutriscan-ai/supplement-platform/internal/model"
	"github.com/nutriscan-ai/supplement-platform/internal/session"
	"github.com/nutriscan-ai/supplement-platform/pkg/logger"
)

var (
	// ErrUnknownScreen rejects navigation to a screen that does not exist.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrNotEditing rejects draft operations outside an editing session.
	ErrNotEditing = errors.New("profile is not being edited")
)

// Controller is the single owner of one client's UI state. Setters replace
// values whole; nothing here is mutated through shared references.
type Controller struct {
	log *logger.Logger

	mu       sync.Mutex
	screen   model.Screen
	moreView model.MoreView
	held     *model.ProductReview
	profile  model.UserProfile
	draft    *model.UserProfile
	settings model.Settings

	capture *session.CaptureSession
	search  *session.SearchSession
	chat    *session.ChatSession
	bridge  *device.Bridge
}

// NewController builds a controller on the Home dashboard with fresh
// sessions wired to the given boundary client.
func NewController(boundary llm.Client, timeout time.Duration, log *logger.Logger) *Controller {
	c := &Controller{
		log:      log,
		screen:   model.ScreenHome,
		moreView: model.MoreMenu,
		profile:  model.DefaultProfile(),
		settings: model.DefaultSettings(),
		bridge:   device.NewBridge(),
	}
	c.capture = session.NewCaptureSession(c.bridge, boundary, timeout, c.CompleteScan, log)
	c.search = session.NewSearchSession(boundary, timeout, log)
	c.chat = session.NewChatSession(boundary, timeout, log)
	return c
}

// Capture returns the capture session.
func (c *Controller) Capture() *session.CaptureSession { return c.capture }

// Search returns the search session.
func (c *Controller) Search() *session.SearchSession { return c.search }

// Chat returns the chat session.
func (c *Controller) Chat() *session.ChatSession { return c.chat }

// Bridge returns the device bridge the client runtime reports to.
func (c *Controller) Bridge() *device.Bridge { return c.bridge }

// Snapshot is the observable controller state.
type Snapshot struct {
	Screen     model.Screen          `json:"screen"`
	MoreView   model.MoreView        `json:"more_view,omitempty"`
	HeldResult *model.ProductReview  `json:"held_result,omitempty"`
	Profile    model.UserProfile     `json:"profile"`
	Draft      *model.UserProfile    `json:"draft,omitempty"`
	Settings   model.Settings        `json:"settings"`
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Screen:   c.screen,
		Profile:  c.profile,
		Settings: c.settings,
	}
	if c.screen == model.ScreenMore {
		snap.MoreView = c.moreView
	}
	if c.held != nil {
		held := *c.held
		snap.HeldResult = &held
	}
	if c.draft != nil {
		draft := *c.draft
		snap.Draft = &draft
	}
	return snap
}

// Navigate switches the top-level screen on an explicit user action.
// Entering any screen other than Home clears the held result, so stale
// content cannot leak into an unrelated screen. Leaving a screen resets
// its session: the scanner releases its device, search forgets its
// results, and the consultant history returns to the greeting.
func (c *Controller) Navigate(screen model.Screen) error {
	if !screen.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}

	c.mu.Lock()
	prev := c.screen
	c.screen = screen
	if screen != model.ScreenHome {
		c.held = nil
	}
	if screen == model.ScreenMore {
		c.moreView = model.MoreMenu
	}
	if prev == model.ScreenMore && screen != model.ScreenMore {
		c.draft = nil
	}
	c.mu.Unlock()

	if prev != screen {
		switch prev {
		case model.ScreenScanner:
			c.capture.Close()
		case model.ScreenSearch:
			c.search.Reset()
		case model.ScreenConsultant:
			c.chat.Reset()
		}
		c.log.Debug("navigated", zap.String("from", string(prev)), zap.String("to", string(screen)))
	}
	return nil
}

// NavigateMore switches the More subtree sub-view.
func (c *Controller) NavigateMore(v model.MoreView) error {
	if !v.Valid() {
		return fmt.Errorf("%w: more view %q", ErrUnknownScreen, v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen != model.ScreenMore {
		return fmt.Errorf("%w: not on the more screen", ErrUnknownScreen)
	}
	c.moreView = v
	if v != model.MoreProfile {
		c.draft = nil
	}
	return nil
}

// CompleteScan pins a freshly produced review and returns Home, where the
// result-detail sub-view renders it. Captures resolve into the dashboard
// rather than a dedicated result screen.
func (c *Controller) CompleteScan(review *model.ProductReview) {
	c.mu.Lock()
	held := *review
	c.held = &held
	c.screen = model.ScreenHome
	c.mu.Unlock()
	c.log.Info("scan completed", zap.String("product", review.ProductName))
}

// DismissResult clears the held result, returning Home to the dashboard
// sub-view.
func (c *Controller) DismissResult() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = nil
}

// HeldResult returns the review currently pinned to Home, if any.
func (c *Controller) HeldResult() *model.ProductReview {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.held == nil {
		return nil
	}
	held := *c.held
	return &held
}

// Profile returns the committed profile.
func (c *Controller) Profile() model.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// BeginEdit starts a profile edit by copying the committed profile into a
// scratch draft.
func (c *Controller) BeginEdit() model.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft := c.profile
	c.draft = &draft
	return draft
}

// SetDraft replaces the scratch copy. The committed profile is untouched
// until SaveProfile.
func (c *Controller) SetDraft(p model.UserProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ErrNotEditing
	}
	c.draft = &p
	return nil
}

// SaveProfile commits the draft: every field is copied over at once, so
// no partial update is ever visible.
func (c *Controller) SaveProfile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return ErrNotEditing
	}
	c.profile = *c.draft
	c.draft = nil
	return nil
}

// CancelEdit discards the draft, leaving the committed profile unchanged.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
}

// Settings returns the current toggle state.
func (c *Controller) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// ToggleSetting flips one named toggle.
func (c *Controller) ToggleSetting(name string) (model.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "notifications":
		c.settings.Notifications = !c.settings.Notifications
	case "dark_mode":
		c.settings.DarkMode = !c.settings.DarkMode
	default:
		return c.settings, fmt.Errorf("unknown setting %q", name)
	}
	return c.settings, nil
}

// SignOut resets the More subtree to its menu. Nothing else is held on
// the user's behalf, so there is nothing more to clear.
func (c *Controller) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moreView = model.MoreMenu
	c.draft = nil
}
