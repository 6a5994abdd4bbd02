package updates

import (
	"context"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/agentstation/utc"

	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/logging"
	"github.com/audiolab/coreexp/pkg/releases"
)

// Node is the managed Lavalink node the update manager rewires. Satisfied by
// *lavalink.ServerManager.
type Node interface {
	ApplyRelease(info releases.Info)
	ResetRelease()
	Restart(ctx context.Context) error
}

// Report is the outcome of an update check against the index.
type Report struct {
	// Latest is the newest release on the requested stream regardless of
	// core version, nil when the index has none.
	Latest *releases.Info

	// LatestCompatible is the newest release on the requested stream the
	// running core version can use, nil when there is none.
	LatestCompatible *releases.Info

	// UpToDate reports whether the pinned release already is LatestCompatible.
	UpToDate bool
}

// NewerNeedsCore returns the core version constraint of a newer release that
// the running core cannot use yet, or "" when the compatible release is also
// the newest one.
func (r *Report) NewerNeedsCore() string {
	if r.Latest == nil || r.LatestCompatible == nil {
		return ""
	}
	if r.Latest.Equal(*r.LatestCompatible) {
		return ""
	}
	return r.Latest.CoreVersions.String()
}

// Manager orchestrates release updates for the managed node: check the index,
// apply a release with rollback on failure, persist the pin.
type Manager struct {
	mu sync.Mutex

	client      *Client
	store       *Store
	node        Node
	coreVersion *semver.Version

	current  *releases.Info
	pinnedAt *utc.Time
}

// NewManager creates a manager and applies any persisted pin to the node so
// the node starts with the pinned release instead of the shipped defaults.
func NewManager(client *Client, store *Store, node Node, coreVersion *semver.Version) (*Manager, error) {
	m := &Manager{
		client:      client,
		store:       store,
		node:        node,
		coreVersion: coreVersion,
	}

	pin, err := store.Load()
	if err != nil {
		return nil, err
	}
	if pin != nil {
		m.current = &pin.Release
		m.pinnedAt = &pin.PinnedAt
		node.ApplyRelease(pin.Release)
		logging.Info().
			Str("release", pin.Release.ReleaseName).
			Msg("Applied pinned Lavalink release")
	}

	return m, nil
}

// Current returns the pinned release, nil when the node runs the defaults.
func (m *Manager) Current() *releases.Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// PinnedAt returns when the current release was pinned, nil when unpinned.
func (m *Manager) PinnedAt() *utc.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pinnedAt
}

// CoreVersion returns the core application version updates are checked against.
func (m *Manager) CoreVersion() *semver.Version {
	return m.coreVersion
}

// Check fetches the index and reports the newest release on the stream and
// the newest one the running core version can use.
func (m *Manager) Check(ctx context.Context, stream releases.Stream) (*Report, error) {
	idx, err := m.client.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	if latest, err := idx.Latest(stream); err == nil {
		report.Latest = &latest
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if compatible, err := idx.Latest(stream, releases.ForCoreVersion(m.coreVersion)); err == nil {
		report.LatestCompatible = &compatible
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if report.LatestCompatible != nil {
		m.mu.Lock()
		report.UpToDate = m.current != nil && m.current.Equal(*report.LatestCompatible)
		m.mu.Unlock()
	}

	return report, nil
}

// Apply pins the given release: the node is rewired to it and restarted, and
// the pin is persisted. When the restart fails the previous release (or the
// shipped defaults) is restored before the error is returned.
func (m *Manager) Apply(ctx context.Context, info releases.Info) error {
	m.mu.Lock()
	previous := m.current
	m.mu.Unlock()

	m.node.ApplyRelease(info)

	if err := m.node.Restart(ctx); err != nil {
		if previous != nil {
			m.node.ApplyRelease(*previous)
		} else {
			m.node.ResetRelease()
		}
		logging.Ctx(ctx).Error().Err(err).
			Str("release", info.ReleaseName).
			Msg("Applying release failed, previous release restored")
		return err
	}

	if err := m.store.Save(info); err != nil {
		return err
	}

	pin, err := m.store.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &pin.Release
	m.pinnedAt = &pin.PinnedAt
	m.mu.Unlock()

	logging.Ctx(ctx).Info().
		Str("release", info.ReleaseName).
		Str("jar_version", info.JarVersion).
		Msg("Lavalink release pinned")
	return nil
}

// Reset clears the pin. The node keeps running the current build; the shipped
// defaults apply on its next start.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.store.Clear(); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = nil
	m.pinnedAt = nil
	m.mu.Unlock()

	m.node.ResetRelease()
	logging.Ctx(ctx).Info().Msg("Lavalink release pin cleared")
	return nil
}
