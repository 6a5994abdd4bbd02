// Package application provides the application interface for coreexp commands.
//
// The Application interface defines the contract between the application layer
// and command implementations, enabling dependency injection and testability.
// Commands accept this interface rather than the concrete App type, so tests
// can substitute a Mock.
package application

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/audiolab/coreexp/pkg/experiments"
	"github.com/audiolab/coreexp/pkg/lavalink"
	"github.com/audiolab/coreexp/pkg/updates"
)

// Application provides the application interface that commands need.
// The App struct from cmd/coreexp/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// Quiet reports whether quiet mode is enabled. Commands should suppress
	// informational output when it is.
	Quiet() bool

	// CoreVersion returns the core application version that release
	// compatibility is evaluated against.
	CoreVersion() (*semver.Version, error)

	// Node returns the managed Lavalink node.
	Node() *lavalink.ServerManager

	// Registry returns the experiments registry with every shipped
	// experiment registered.
	Registry() (*experiments.Registry, error)

	// UpdateManager returns the release update manager, loading the
	// audio_ll_updates experiment on first use.
	UpdateManager(ctx context.Context) (*updates.Manager, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
