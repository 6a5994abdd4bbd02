package updates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/releases"
)

const managerTestIndex = `[
  {
    "release_name": "Lavalink 4.0.8 (preview)",
    "jar_version": "4.0.8",
    "jar_url": "https://example.com/jars/4.0.8/Lavalink.jar",
    "yt_plugin_version": "1.8.3",
    "java_versions": [17, 21],
    "red_version": ">=3.6.0",
    "release_stream": "preview",
    "application_yml_overrides": {}
  },
  {
    "release_name": "Lavalink 3.7.11",
    "jar_version": "3.7.11",
    "jar_url": "https://example.com/jars/3.7.11/Lavalink.jar",
    "yt_plugin_version": "1.7.2",
    "java_versions": [11, 17],
    "red_version": ">=3.5.0",
    "release_stream": "stable",
    "application_yml_overrides": {}
  }
]`

// fakeNode records release wiring and lets tests fail the restart.
type fakeNode struct {
	applied    []releases.Info
	resets     int
	restarts   int
	restartErr error
}

func (n *fakeNode) ApplyRelease(info releases.Info) { n.applied = append(n.applied, info) }
func (n *fakeNode) ResetRelease()                   { n.resets++ }
func (n *fakeNode) Restart(context.Context) error {
	n.restarts++
	return n.restartErr
}

func newTestManager(t *testing.T, node *fakeNode, coreVersion string) *Manager {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(managerTestIndex))
	}))
	t.Cleanup(server.Close)

	client := NewClient(WithIndexURL(server.URL))
	store := NewStore(filepath.Join(t.TempDir(), "release.yaml"))

	version, err := semver.NewVersion(coreVersion)
	require.NoError(t, err)

	manager, err := NewManager(client, store, node, version)
	require.NoError(t, err)
	return manager
}

func TestManager_Check_UpdateAvailable(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	require.NotNil(t, report.Latest)
	require.NotNil(t, report.LatestCompatible)
	assert.Equal(t, "3.7.11", report.LatestCompatible.JarVersion)
	assert.False(t, report.UpToDate)
	assert.Empty(t, report.NewerNeedsCore())
}

func TestManager_Check_NewerNeedsCore(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamPreview)
	require.NoError(t, err)
	require.NotNil(t, report.Latest)
	assert.Equal(t, "4.0.8", report.Latest.JarVersion)
	require.NotNil(t, report.LatestCompatible)
	assert.Equal(t, "3.7.11", report.LatestCompatible.JarVersion)
	assert.Equal(t, ">=3.6.0", report.NewerNeedsCore())
}

func TestManager_Check_NoCompatible(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.4.0")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	require.NotNil(t, report.Latest)
	assert.Nil(t, report.LatestCompatible)
}

func TestManager_Apply_PersistsAndRestarts(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)

	require.NoError(t, manager.Apply(context.Background(), *report.LatestCompatible))
	assert.Equal(t, 1, node.restarts)
	require.Len(t, node.applied, 1)
	assert.Equal(t, "3.7.11", node.applied[0].JarVersion)

	require.NotNil(t, manager.Current())
	assert.Equal(t, "3.7.11", manager.Current().JarVersion)
	require.NotNil(t, manager.PinnedAt())

	// The next check reports up to date.
	report, err = manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	assert.True(t, report.UpToDate)
}

func TestManager_Apply_RollsBackOnRestartFailure(t *testing.T) {
	node := &fakeNode{restartErr: errors.New("java exploded")}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)

	err = manager.Apply(context.Background(), *report.LatestCompatible)
	require.Error(t, err)

	// Nothing was pinned: no prior release existed, so the node was reset.
	assert.Nil(t, manager.Current())
	assert.Equal(t, 1, node.resets)

	pin, err := manager.store.Load()
	require.NoError(t, err)
	assert.Nil(t, pin)
}

func TestManager_Apply_RollsBackToPreviousRelease(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	require.NoError(t, manager.Apply(context.Background(), *report.LatestCompatible))

	previewReport, err := manager.Check(context.Background(), releases.StreamPreview)
	require.NoError(t, err)
	next := *previewReport.Latest
	require.Equal(t, "4.0.8", next.JarVersion)

	node.restartErr = errors.New("java exploded")
	err = manager.Apply(context.Background(), next)
	require.Error(t, err)

	// The previously pinned release was re-applied to the node.
	require.NotNil(t, manager.Current())
	assert.Equal(t, "3.7.11", manager.Current().JarVersion)
	assert.Equal(t, "3.7.11", node.applied[len(node.applied)-1].JarVersion)
}

func TestManager_Reset(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	require.NoError(t, manager.Apply(context.Background(), *report.LatestCompatible))

	require.NoError(t, manager.Reset(context.Background()))
	assert.Nil(t, manager.Current())
	assert.Nil(t, manager.PinnedAt())
	assert.Equal(t, 1, node.resets)
}

func TestNewManager_AppliesPersistedPin(t *testing.T) {
	node := &fakeNode{}
	manager := newTestManager(t, node, "3.5.14")

	report, err := manager.Check(context.Background(), releases.StreamStable)
	require.NoError(t, err)
	require.NoError(t, manager.Apply(context.Background(), *report.LatestCompatible))

	// A new manager over the same store applies the pin at construction.
	node2 := &fakeNode{}
	version, err := semver.NewVersion("3.5.14")
	require.NoError(t, err)
	manager2, err := NewManager(manager.client, manager.store, node2, version)
	require.NoError(t, err)

	require.NotNil(t, manager2.Current())
	assert.Equal(t, "3.7.11", manager2.Current().JarVersion)
	require.Len(t, node2.applied, 1)
	assert.Equal(t, 0, node2.restarts)
}

func TestClient_FetchIndex_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithIndexURL(server.URL))
	_, err := client.FetchIndex(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsIndexUnavailable(err))
}

func TestClient_DefaultIndexURL(t *testing.T) {
	assert.Contains(t, NewClient().IndexURL(), "index.0.json")
}
