// Package lavalink manages the Lavalink server process: its jar, its
// generated application.yml, its version pins, and its lifecycle.
package lavalink

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/logging"
	"github.com/audiolab/coreexp/pkg/releases"
)

// ServerManager owns the managed Lavalink node: it prepares the node
// directory (jar, config) and starts and stops the java process.
// All exported methods are safe for concurrent use.
type ServerManager struct {
	mu sync.Mutex

	dir         string
	javaPath    string
	downloadURL string
	pins        Pins
	releaseOver map[string]any // config overrides dictated by the applied release
	userOver    map[string]any // user settings, always the last layer
	downloader  *Downloader

	starting bool // a Start is in flight; claimed under mu
	cmd      *exec.Cmd
	done     chan struct{}
}

// Option configures a ServerManager.
type Option func(*ServerManager)

// WithJavaPath sets the java binary to use instead of the one on PATH.
func WithJavaPath(path string) Option {
	return func(m *ServerManager) {
		m.javaPath = path
	}
}

// WithDownloader sets a custom downloader. Useful for tests.
func WithDownloader(d *Downloader) Option {
	return func(m *ServerManager) {
		m.downloader = d
	}
}

// WithUserConfig sets the user settings layer merged last into application.yml.
func WithUserConfig(settings map[string]any) Option {
	return func(m *ServerManager) {
		m.userOver = settings
	}
}

// NewServerManager creates a manager for the node living in dir, pinned to
// the shipped defaults until a release is applied.
func NewServerManager(dir string, opts ...Option) *ServerManager {
	m := &ServerManager{
		dir:        dir,
		javaPath:   "java",
		pins:       DefaultPins(),
		downloader: NewDownloader(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// JarPath returns the path of the managed jar.
func (m *ServerManager) JarPath() string {
	return filepath.Join(m.dir, constants.JarFileName)
}

// ConfigPath returns the path of the generated application.yml.
func (m *ServerManager) ConfigPath() string {
	return filepath.Join(m.dir, constants.ConfigFileName)
}

// Pins returns the effective version pins.
func (m *ServerManager) Pins() Pins {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins
}

// DownloadURL returns the effective jar download URL, empty until a release
// is applied.
func (m *ServerManager) DownloadURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.downloadURL
}

// ApplyRelease rewires the node to the given release: jar download URL,
// version pins, and the release's application.yml overrides. The node is not
// restarted; callers restart it once the release is applied.
func (m *ServerManager) ApplyRelease(info releases.Info) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadURL = info.JarURL
	m.pins = FromRelease(info)
	m.releaseOver = info.ConfigOverrides
}

// ResetRelease restores the shipped defaults.
func (m *ServerManager) ResetRelease() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloadURL = ""
	m.pins = DefaultPins()
	m.releaseOver = nil
}

// IsRunning reports whether the node process is alive.
func (m *ServerManager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running()
}

// running must be called with m.mu held.
func (m *ServerManager) running() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// CheckJava locates the java binary, probes its version, and verifies the
// pinned build supports it. Returns the detected major version.
func (m *ServerManager) CheckJava(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, m.javaPath, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &errors.ProcessError{
			Operation: "probe java version",
			Command:   m.javaPath + " -version",
			Output:    string(output),
			Err:       err,
		}
	}

	major, err := ParseJavaVersionOutput(output)
	if err != nil {
		return 0, err
	}

	if !m.Pins().SupportsJava(major) {
		return major, &errors.ValidationError{
			Field:   "java",
			Value:   major,
			Message: "Java version is not supported by the pinned Lavalink build",
		}
	}
	return major, nil
}

// ProbeJarVersion runs the jar with --version and returns the build version.
func (m *ServerManager) ProbeJarVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.VersionProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.javaPath, "-jar", m.JarPath(), "--version")
	cmd.Dir = m.dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &errors.ProcessError{
			Operation: "probe jar version",
			Command:   m.javaPath + " -jar " + constants.JarFileName + " --version",
			Output:    string(output),
			Err:       err,
		}
	}
	return ParseVersionOutput(output)
}

// EnsureJar makes sure the jar on disk matches the pinned version,
// downloading it when missing or stale. Requires a download URL, which only
// an applied release provides; without one the existing jar is trusted.
func (m *ServerManager) EnsureJar(ctx context.Context) error {
	url := m.DownloadURL()
	jarPath := m.JarPath()

	if _, err := os.Stat(jarPath); err != nil {
		if !os.IsNotExist(err) {
			return errors.WrapIO("stat", jarPath, err)
		}
		if url == "" {
			return &errors.NotFoundError{Resource: "Lavalink jar", ID: jarPath}
		}
		return m.downloader.Download(ctx, url, jarPath)
	}

	version, err := m.ProbeJarVersion(ctx)
	if err != nil {
		if url == "" {
			return err
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Jar version probe failed, re-downloading")
		return m.downloader.Download(ctx, url, jarPath)
	}

	pinned := m.Pins().JarVersion
	if version == pinned {
		return nil
	}
	if url == "" {
		return &errors.ValidationError{
			Field:   "jar_version",
			Value:   version,
			Message: "jar on disk does not match pinned version " + pinned,
		}
	}

	logging.Ctx(ctx).Info().
		Str("found", version).
		Str("pinned", pinned).
		Msg("Jar version mismatch, downloading pinned build")
	return m.downloader.Download(ctx, url, jarPath)
}

// WriteServerConfig regenerates application.yml from the defaults, the
// applied release's overrides, and the user settings.
func (m *ServerManager) WriteServerConfig() error {
	m.mu.Lock()
	pins, releaseOver, userOver := m.pins, m.releaseOver, m.userOver
	m.mu.Unlock()

	config := GenerateConfig(pins, releaseOver, userOver)
	return WriteConfig(m.ConfigPath(), config)
}

// prepare readies the node directory: java check and jar download run
// concurrently, then the config is regenerated.
func (m *ServerManager) prepare(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := m.CheckJava(gctx)
		return err
	})
	g.Go(func() error {
		return m.EnsureJar(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return m.WriteServerConfig()
}

// Start prepares the node directory and launches the java process. The start
// transition is claimed under the lock so concurrent Start calls cannot spawn
// a second process.
func (m *ServerManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.starting || m.running() {
		m.mu.Unlock()
		return &errors.ValidationError{Field: "node", Message: "managed node already running"}
	}
	m.starting = true
	m.mu.Unlock()

	if err := m.prepare(ctx); err != nil {
		m.abortStart()
		return err
	}

	cmd := exec.Command(m.javaPath, "-Djdk.tls.client.protocols=TLSv1.2", "-jar", constants.JarFileName)
	cmd.Dir = m.dir
	if err := cmd.Start(); err != nil {
		m.abortStart()
		return &errors.ProcessError{
			Operation: "start managed node",
			Command:   m.javaPath + " -jar " + constants.JarFileName,
			Err:       err,
		}
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	m.mu.Lock()
	m.cmd = cmd
	m.done = done
	m.starting = false
	m.mu.Unlock()

	logging.Ctx(ctx).Info().
		Int("pid", cmd.Process.Pid).
		Str("jar_version", m.Pins().JarVersion).
		Msg("Managed node started")
	return nil
}

// abortStart releases a claimed start transition after a failure.
func (m *ServerManager) abortStart() {
	m.mu.Lock()
	m.starting = false
	m.mu.Unlock()
}

// Shutdown stops the node process: SIGTERM first, then a kill when the
// process does not exit within the shutdown timeout or ctx is done.
func (m *ServerManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	cmd, done := m.cmd, m.done
	m.cmd = nil
	m.done = nil
	m.mu.Unlock()

	if cmd == nil {
		return errors.ErrNodeNotRunning
	}
	select {
	case <-done:
		return errors.ErrNodeNotRunning
	default:
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = cmd.Process.Kill()
		<-done
		return nil
	}

	timer := time.NewTimer(constants.NodeShutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		logging.Ctx(ctx).Warn().Msg("Managed node did not exit in time, killing")
		_ = cmd.Process.Kill()
		<-done
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	}

	logging.Ctx(ctx).Info().Msg("Managed node stopped")
	return nil
}

// Restart stops the node if it is running and starts it again.
func (m *ServerManager) Restart(ctx context.Context) error {
	if err := m.Shutdown(ctx); err != nil && !stderrors.Is(err, errors.ErrNodeNotRunning) {
		return err
	}
	return m.Start(ctx)
}
