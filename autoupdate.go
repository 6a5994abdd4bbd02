package coreexp

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoUpdater = (*client)(nil)

// AutoUpdater provides controls for automatic release updates.
type AutoUpdater interface {
	// AutoUpdatesOn begins automatic update checks if configured
	AutoUpdatesOn() error

	// AutoUpdatesOff stops automatic update checks
	AutoUpdatesOff() error
}

// AutoUpdatesOn begins automatic update checks. Each cycle checks the
// configured stream and applies the newest compatible release when the node
// is behind.
func (c *client) AutoUpdatesOn() error {
	if c.options.autoUpdateInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoUpdateInterval",
			Value:   c.options.autoUpdateInterval,
			Message: "update interval must be positive",
		}
	}

	// Stop any existing auto-updates to prevent resource leaks
	if err := c.AutoUpdatesOff(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Recreate stopCh since it was closed in AutoUpdatesOff
	c.stopCh = make(chan struct{})
	c.updateTicker = time.NewTicker(c.options.autoUpdateInterval)

	ctx, cancel := context.WithCancel(context.Background())
	c.updateCancel = cancel

	ticker := c.updateTicker
	stopCh := c.stopCh

	go func(parentCtx context.Context) {
		for {
			select {
			case <-ticker.C:
				updateCtx, updateCancel := context.WithTimeout(parentCtx, constants.UpdateContextTimeout)
				err := c.autoUpdate(updateCtx)
				updateCancel()

				if err != nil {
					if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
						return
					}
					logging.Error().Err(err).Msg("Auto-update failed")
				}
			case <-parentCtx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}(ctx)

	return nil
}

// AutoUpdatesOff stops automatic update checks.
func (c *client) AutoUpdatesOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.updateTicker != nil {
		c.updateTicker.Stop()
		c.updateTicker = nil
	}
	if c.updateCancel != nil {
		c.updateCancel()
		c.updateCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}

// autoUpdate runs one automatic update cycle.
func (c *client) autoUpdate(ctx context.Context) error {
	report, err := c.Check(ctx, c.options.autoUpdateStream)
	if err != nil {
		return err
	}

	if report.UpToDate || report.LatestCompatible == nil {
		return nil
	}

	logging.Info().
		Str("release", report.LatestCompatible.ReleaseName).
		Msg("Applying release automatically")
	return c.Apply(ctx, *report.LatestCompatible)
}
