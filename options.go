package coreexp

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/releases"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options holds the resolved client configuration.
type options struct {
	homeDir      string
	indexURL     string
	javaPath     string
	coreVersion  *semver.Version
	nodeSettings map[string]any

	autoUpdatesEnabled bool
	autoUpdateInterval time.Duration
	autoUpdateStream   releases.Stream
}

// defaults returns the default client configuration.
func defaults() *options {
	homeDir := constants.DefaultHomeDirName
	if home, err := os.UserHomeDir(); err == nil {
		homeDir = filepath.Join(home, constants.DefaultHomeDirName)
	}

	return &options{
		homeDir:            homeDir,
		indexURL:           constants.DefaultReleaseIndexURL,
		coreVersion:        semver.MustParse(DefaultCoreVersion),
		autoUpdatesEnabled: false,
		autoUpdateInterval: constants.DefaultUpdateInterval,
		autoUpdateStream:   releases.StreamStable,
	}
}

// apply applies the given options in order.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithHomeDir configures the directory holding the managed node and the
// release pin.
func WithHomeDir(dir string) Option {
	return func(o *options) error {
		o.homeDir = dir
		return nil
	}
}

// WithIndexURL configures the release index endpoint.
func WithIndexURL(url string) Option {
	return func(o *options) error {
		o.indexURL = url
		return nil
	}
}

// WithJavaPath configures the Java executable used to run the node.
func WithJavaPath(path string) Option {
	return func(o *options) error {
		o.javaPath = path
		return nil
	}
}

// WithCoreVersion configures the core application version release
// compatibility is evaluated against.
func WithCoreVersion(version string) Option {
	return func(o *options) error {
		parsed, err := semver.NewVersion(version)
		if err != nil {
			return &errors.ValidationError{
				Field:   "coreVersion",
				Value:   version,
				Message: "not a valid version",
			}
		}
		o.coreVersion = parsed
		return nil
	}
}

// WithNodeSettings configures the user settings layer merged last into the
// node's application.yml.
func WithNodeSettings(settings map[string]any) Option {
	return func(o *options) error {
		o.nodeSettings = settings
		return nil
	}
}

// WithAutoUpdates configures whether automatic update checks are enabled.
func WithAutoUpdates(enabled bool) Option {
	return func(o *options) error {
		o.autoUpdatesEnabled = enabled
		return nil
	}
}

// WithAutoUpdateInterval configures how often automatic update checks run.
func WithAutoUpdateInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoUpdateInterval = interval
		return nil
	}
}

// WithAutoUpdateStream configures the release stream automatic updates follow.
func WithAutoUpdateStream(stream releases.Stream) Option {
	return func(o *options) error {
		o.autoUpdateStream = stream
		return nil
	}
}
