package coreexp

import (
	"sync"

	"github.com/audiolab/coreexp/pkg/releases"
	"github.com/audiolab/coreexp/pkg/updates"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for release events.
type (
	// ReleaseAppliedHook is called after a release is pinned to the node.
	ReleaseAppliedHook func(info releases.Info)

	// ReleaseClearedHook is called after the release pin is cleared.
	ReleaseClearedHook func()

	// UpdateAvailableHook is called when a check finds a newer release the
	// configured core version cannot use yet.
	UpdateAvailableHook func(report updates.Report)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnReleaseApplied registers a callback for when a release is pinned.
	OnReleaseApplied(ReleaseAppliedHook)

	// OnReleaseCleared registers a callback for when the pin is cleared.
	OnReleaseCleared(ReleaseClearedHook)

	// OnUpdateAvailable registers a callback for when a newer release
	// requires a newer core version.
	OnUpdateAvailable(UpdateAvailableHook)
}

// hooks manages event callbacks for release changes.
type hooks struct {
	mu                sync.RWMutex
	onReleaseApplied  []ReleaseAppliedHook
	onReleaseCleared  []ReleaseClearedHook
	onUpdateAvailable []UpdateAvailableHook
}

// newHooks creates a new hooks instance.
func newHooks() *hooks {
	return &hooks{}
}

// OnReleaseApplied registers a callback for when a release is pinned.
func (c *client) OnReleaseApplied(fn ReleaseAppliedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReleaseApplied = append(c.hooks.onReleaseApplied, fn)
}

// OnReleaseCleared registers a callback for when the pin is cleared.
func (c *client) OnReleaseCleared(fn ReleaseClearedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReleaseCleared = append(c.hooks.onReleaseCleared, fn)
}

// OnUpdateAvailable registers a callback for when a newer release requires a
// newer core version.
func (c *client) OnUpdateAvailable(fn UpdateAvailableHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUpdateAvailable = append(c.hooks.onUpdateAvailable, fn)
}

func (h *hooks) triggerReleaseApplied(info releases.Info) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onReleaseApplied {
		hook(info)
	}
}

func (h *hooks) triggerReleaseCleared() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onReleaseCleared {
		hook()
	}
}

func (h *hooks) triggerUpdateAvailable(report updates.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onUpdateAvailable {
		hook(report)
	}
}
