// Package app provides the application context and dependency management
// for the coreexp CLI. It centralizes configuration, dependency injection,
// and lifecycle management.
package app

import (
	"context"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/audiolab/coreexp"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/experiments"
	"github.com/audiolab/coreexp/pkg/experiments/audioll"
	"github.com/audiolab/coreexp/pkg/lavalink"
	"github.com/audiolab/coreexp/pkg/updates"
)

// DefaultCoreVersion is the core application version compatibility checks
// run against when none is configured.
const DefaultCoreVersion = coreexp.DefaultCoreVersion

// App represents the coreexp application with all its dependencies.
// It provides a centralized place for configuration, logging, the managed
// node, and the experiments registry.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily-initialized singletons
	mu       sync.Mutex
	node     *lavalink.ServerManager
	registry *experiments.Registry
	audioll  *audioll.Experiment
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Quiet reports whether quiet mode is enabled.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// CoreVersion returns the configured core application version.
func (a *App) CoreVersion() (*semver.Version, error) {
	version, err := semver.NewVersion(a.config.CoreVersion)
	if err != nil {
		return nil, &errors.ConfigError{
			Component: "core_version",
			Message:   "not a valid version: " + a.config.CoreVersion,
			Err:       err,
		}
	}
	return version, nil
}

// Node returns the managed node, creating it lazily.
func (a *App) Node() *lavalink.ServerManager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nodeLocked()
}

// Registry returns the experiments registry, creating it lazily with every
// shipped experiment registered.
func (a *App) Registry() (*experiments.Registry, error) {
	a.mu.Lock()
	registry := a.registry
	a.mu.Unlock()
	if registry != nil {
		return registry, nil
	}

	coreVersion, err := a.CoreVersion()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.registry != nil {
		return a.registry, nil
	}

	registry = experiments.NewRegistry()

	client := updates.NewClient(updates.WithIndexURL(a.config.IndexURL))
	store := updates.NewStore(a.config.PinPath())
	exp := audioll.New(client, store, a.nodeLocked(), coreVersion)
	if err := registry.Register(exp); err != nil {
		return nil, err
	}

	a.registry = registry
	a.audioll = exp
	return registry, nil
}

// nodeLocked returns the managed node. Callers must hold a.mu.
func (a *App) nodeLocked() *lavalink.ServerManager {
	if a.node == nil {
		opts := []lavalink.Option{
			lavalink.WithUserConfig(a.config.NodeSettings),
		}
		if a.config.JavaPath != "" {
			opts = append(opts, lavalink.WithJavaPath(a.config.JavaPath))
		}
		a.node = lavalink.NewServerManager(a.config.NodeDir(), opts...)
	}
	return a.node
}

// UpdateManager returns the audio_ll_updates manager, loading the experiment
// on first use.
func (a *App) UpdateManager(ctx context.Context) (*updates.Manager, error) {
	registry, err := a.Registry()
	if err != nil {
		return nil, err
	}

	if !registry.IsLoaded(audioll.ExperimentName) {
		if err := registry.Load(ctx, audioll.ExperimentName); err != nil {
			return nil, err
		}
	}

	a.mu.Lock()
	exp := a.audioll
	a.mu.Unlock()
	return exp.Manager()
}

// Shutdown performs graceful shutdown of the application: loaded experiments
// are unloaded and the managed node is left running, since it serves audio
// independently of this process.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	registry := a.registry
	a.mu.Unlock()

	if registry != nil {
		return registry.UnloadAll(ctx)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
