package coreexp

import (
	"context"

	"github.com/audiolab/coreexp/pkg/releases"
	"github.com/audiolab/coreexp/pkg/updates"
)

// Compile-time interface check to ensure proper implementation.
var _ Updater = (*client)(nil)

// Updater handles release check, apply and reset operations.
type Updater interface {
	// Check fetches the index and reports the newest release on the stream
	// and the newest one the configured core version can use.
	Check(ctx context.Context, stream releases.Stream) (*updates.Report, error)

	// Apply pins the given release to the node and restarts it.
	Apply(ctx context.Context, info releases.Info) error

	// Reset clears the release pin. The shipped defaults apply on the
	// node's next start.
	Reset(ctx context.Context) error

	// Current returns the pinned release, nil when the node runs the
	// shipped defaults.
	Current() *releases.Info
}

// Check fetches the index and reports the newest release on the stream and
// the newest one the configured core version can use. When a newer release
// exists that the core version cannot use, the update-available hooks fire.
func (c *client) Check(ctx context.Context, stream releases.Stream) (*updates.Report, error) {
	report, err := c.manager.Check(ctx, stream)
	if err != nil {
		return nil, err
	}

	if report.NewerNeedsCore() != "" {
		c.hooks.triggerUpdateAvailable(*report)
	}
	return report, nil
}

// Apply pins the given release to the node and restarts it.
func (c *client) Apply(ctx context.Context, info releases.Info) error {
	if err := c.manager.Apply(ctx, info); err != nil {
		return err
	}
	c.hooks.triggerReleaseApplied(info)
	return nil
}

// Reset clears the release pin.
func (c *client) Reset(ctx context.Context) error {
	if err := c.manager.Reset(ctx); err != nil {
		return err
	}
	c.hooks.triggerReleaseCleared()
	return nil
}

// Current returns the pinned release, nil when the node runs the shipped
// defaults.
func (c *client) Current() *releases.Info {
	return c.manager.Current()
}
