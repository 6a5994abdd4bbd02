// Package constants provides shared constants used throughout the coreexp codebase.
// This includes timeouts, file permissions, and default paths that should be
// consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests such as
	// fetching the release index
	DefaultHTTPTimeout = 30 * time.Second

	// DownloadTimeout is the timeout for downloading release artifacts
	DownloadTimeout = 10 * time.Minute

	// NodeShutdownTimeout is how long to wait for a graceful node shutdown
	// before the process is killed
	NodeShutdownTimeout = 15 * time.Second

	// VersionProbeTimeout is the timeout for running the jar with --version
	VersionProbeTimeout = 30 * time.Second

	// DefaultUpdateInterval is how often automatic update checks run
	DefaultUpdateInterval = 6 * time.Hour

	// UpdateContextTimeout bounds a single automatic update cycle
	UpdateContextTimeout = 15 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Default paths and remote endpoints
const (
	// DefaultReleaseIndexURL is the published index of Lavalink builds
	DefaultReleaseIndexURL = "https://cog-creators.github.io/Lavalink-Jars/index.0.json"

	// DefaultHomeDirName is the per-user coreexp directory under $HOME
	DefaultHomeDirName = ".coreexp"

	// ReleasePinFileName is the file storing the pinned release under the home dir
	ReleasePinFileName = "release.yaml"

	// NodeDirName is the managed node directory under the home dir
	NodeDirName = "node"

	// JarFileName is the Lavalink jar file name inside the node directory
	JarFileName = "Lavalink.jar"

	// ConfigFileName is the generated server configuration file name
	ConfigFileName = "application.yml"
)
