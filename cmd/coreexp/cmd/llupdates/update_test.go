package llupdates

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/coreexp/cmd/application"
	"github.com/audiolab/coreexp/pkg/releases"
	"github.com/audiolab/coreexp/pkg/updates"
)

const testIndex = `[
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

func newTestApp(t *testing.T, node *fakeNode, coreVersion string) *application.Mock {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testIndex))
	}))
	t.Cleanup(server.Close)

	client := updates.NewClient(updates.WithIndexURL(server.URL))
	store := updates.NewStore(filepath.Join(t.TempDir(), "release.yaml"))

	version, err := semver.NewVersion(coreVersion)
	require.NoError(t, err)

	manager, err := updates.NewManager(client, store, node, version)
	require.NoError(t, err)

	return &application.Mock{
		QuietFunc: func() bool { return true },
		UpdateManagerFunc: func(context.Context) (*updates.Manager, error) {
			return manager, nil
		},
	}
}

func TestExecuteUpdate_AppliesNewestCompatible(t *testing.T) {
	node := &fakeNode{}
	app := newTestApp(t, node, "3.5.14")

	var out bytes.Buffer
	flags := &UpdateFlags{AutoApprove: true}
	require.NoError(t, ExecuteUpdate(context.Background(), &out, app, flags))

	require.Len(t, node.applied, 1)
	assert.Equal(t, "3.7.11", node.applied[0].JarVersion)
	assert.Equal(t, 1, node.restarts)
	assert.Contains(t, out.String(), "Pinned release Lavalink 3.7.11")
}

func TestExecuteUpdate_AlreadyUpToDate(t *testing.T) {
	node := &fakeNode{}
	app := newTestApp(t, node, "3.5.14")
	flags := &UpdateFlags{AutoApprove: true}

	var first bytes.Buffer
	require.NoError(t, ExecuteUpdate(context.Background(), &first, app, flags))

	var out bytes.Buffer
	require.NoError(t, ExecuteUpdate(context.Background(), &out, app, flags))

	assert.Contains(t, out.String(), "Already running the newest compatible release")
	assert.Equal(t, 1, node.restarts)
}

func TestExecuteUpdate_PreviewNeedsNewerCore(t *testing.T) {
	node := &fakeNode{}
	app := newTestApp(t, node, "3.5.14")

	var out bytes.Buffer
	flags := &UpdateFlags{Preview: true, AutoApprove: true}
	require.NoError(t, ExecuteUpdate(context.Background(), &out, app, flags))

	// The stable 3.7.11 build is the newest the running core can use; the
	// 4.0.8 preview requires a newer core.
	require.Len(t, node.applied, 1)
	assert.Equal(t, "3.7.11", node.applied[0].JarVersion)
	assert.Contains(t, out.String(), "requires core >=3.6.0")
}

func TestExecuteUpdate_NoCompatibleRelease(t *testing.T) {
	node := &fakeNode{}
	app := newTestApp(t, node, "3.0.0")

	var out bytes.Buffer
	flags := &UpdateFlags{AutoApprove: true}
	require.NoError(t, ExecuteUpdate(context.Background(), &out, app, flags))

	assert.Empty(t, node.applied)
	assert.Contains(t, out.String(), "No published release supports core version 3.0.0")
}

func TestResetCommand(t *testing.T) {
	node := &fakeNode{}
	app := newTestApp(t, node, "3.5.14")

	var out bytes.Buffer
	require.NoError(t, ExecuteUpdate(context.Background(), &out, app, &UpdateFlags{AutoApprove: true}))

	cmd := NewCommand(app)
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"reset"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Release pin Lavalink 3.7.11 cleared")
	assert.Equal(t, 1, node.resets)

	// A second reset is a no-op
	out.Reset()
	cmd.SetArgs([]string{"reset"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No release is pinned")
	assert.Equal(t, 1, node.resets)
}
