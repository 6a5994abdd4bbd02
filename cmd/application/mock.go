package application

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/audiolab/coreexp/pkg/experiments"
	"github.com/audiolab/coreexp/pkg/lavalink"
	"github.com/audiolab/coreexp/pkg/updates"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	LoggerFunc        func() *zerolog.Logger
	QuietFunc         func() bool
	CoreVersionFunc   func() (*semver.Version, error)
	NodeFunc          func() *lavalink.ServerManager
	RegistryFunc      func() (*experiments.Registry, error)
	UpdateManagerFunc func(ctx context.Context) (*updates.Manager, error)
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Quiet returns quiet mode using the mock function or false.
func (m *Mock) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// CoreVersion returns a core version using the mock function or 3.5.14.
func (m *Mock) CoreVersion() (*semver.Version, error) {
	if m.CoreVersionFunc != nil {
		return m.CoreVersionFunc()
	}
	return semver.NewVersion("3.5.14")
}

// Node returns a node using the mock function or nil.
func (m *Mock) Node() *lavalink.ServerManager {
	if m.NodeFunc != nil {
		return m.NodeFunc()
	}
	return nil
}

// Registry returns a registry using the mock function or an empty registry.
func (m *Mock) Registry() (*experiments.Registry, error) {
	if m.RegistryFunc != nil {
		return m.RegistryFunc()
	}
	return experiments.NewRegistry(), nil
}

// UpdateManager returns a manager using the mock function or nil.
func (m *Mock) UpdateManager(ctx context.Context) (*updates.Manager, error) {
	if m.UpdateManagerFunc != nil {
		return m.UpdateManagerFunc(ctx)
	}
	return nil, nil
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}
