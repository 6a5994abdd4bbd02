// Package coreexp provides the embeddable entry point for the coreexp
// experimental extensions. It offers a high-level interface for running a
// managed Lavalink audio node whose releases are updated independently of
// the core application's release schedule.
//
// Coreexp wraps the update manager and the managed node with additional
// features including:
// - Automatic background update checks against the published release index
// - Event hooks for release changes (applied, cleared, newer available)
// - Thread-safe access to the pinned release
// - Flexible configuration through functional options
//
// Example usage:
//
//	// Create a client with default settings
//	c, err := coreexp.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.AutoUpdatesOff()
//
//	// Register event hooks
//	c.OnReleaseApplied(func(info releases.Info) {
//	    log.Printf("Now running Lavalink %s", info.JarVersion)
//	})
//
//	// Manually check for and apply an update
//	report, err := c.Check(ctx, releases.StreamStable)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !report.UpToDate && report.LatestCompatible != nil {
//	    err = c.Apply(ctx, *report.LatestCompatible)
//	}
//
//	// Configure with custom options
//	c, err = coreexp.New(
//	    coreexp.WithHomeDir("/srv/coreexp"),
//	    coreexp.WithAutoUpdates(true),
//	    coreexp.WithAutoUpdateInterval(30*time.Minute),
//	)
package coreexp

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/lavalink"
	"github.com/audiolab/coreexp/pkg/updates"
)

// DefaultCoreVersion is the core application version compatibility checks
// run against when none is configured.
const DefaultCoreVersion = "3.5.14"

// Client manages a Lavalink node with independent release updates.
type Client interface {

	// Updater handles release check, apply and reset operations
	Updater

	// Node provides control over the managed node process
	Node

	// AutoUpdater provides access to automatic update controls
	AutoUpdater

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// manager orchestrates release updates for the node
	manager *updates.Manager

	// node is the managed Lavalink server
	node *lavalink.ServerManager

	// auto update state
	mu           sync.Mutex
	updateTicker *time.Ticker       // update ticker to trigger auto-updates
	stopCh       chan struct{}      // stop channel to stop auto-updates
	updateCancel context.CancelFunc // cancel function for the update goroutine

	hooks *hooks // event hooks for release changes
}

// New creates a new Client instance with the given options. Any persisted
// release pin is applied to the node before the client is returned.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	nodeOpts := []lavalink.Option{
		lavalink.WithUserConfig(o.nodeSettings),
	}
	if o.javaPath != "" {
		nodeOpts = append(nodeOpts, lavalink.WithJavaPath(o.javaPath))
	}
	node := lavalink.NewServerManager(filepath.Join(o.homeDir, constants.NodeDirName), nodeOpts...)

	updatesClient := updates.NewClient(updates.WithIndexURL(o.indexURL))
	store := updates.NewStore(filepath.Join(o.homeDir, constants.ReleasePinFileName))

	manager, err := updates.NewManager(updatesClient, store, node, o.coreVersion)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		manager: manager,
		node:    node,
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	if o.autoUpdatesEnabled {
		if err := c.AutoUpdatesOn(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Node provides control over the managed node process.
type Node interface {
	// StartNode prepares the node directory and starts the server process.
	StartNode(ctx context.Context) error

	// ShutdownNode stops the server process gracefully.
	ShutdownNode(ctx context.Context) error

	// RestartNode stops and starts the server process.
	RestartNode(ctx context.Context) error

	// NodeRunning reports whether the server process is running.
	NodeRunning() bool
}

// StartNode prepares the node directory and starts the server process.
func (c *client) StartNode(ctx context.Context) error {
	return c.node.Start(ctx)
}

// ShutdownNode stops the server process gracefully.
func (c *client) ShutdownNode(ctx context.Context) error {
	err := c.node.Shutdown(ctx)
	if err != nil && stderrors.Is(err, errors.ErrNodeNotRunning) {
		return nil
	}
	return err
}

// RestartNode stops and starts the server process.
func (c *client) RestartNode(ctx context.Context) error {
	return c.node.Restart(ctx)
}

// NodeRunning reports whether the server process is running.
func (c *client) NodeRunning() bool {
	return c.node.IsRunning()
}
