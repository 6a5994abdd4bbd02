package updates

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/releases"
)

// Pin is the persisted release selection.
type Pin struct {
	PinnedAt utc.Time      `yaml:"pinned_at"`
	Release  releases.Info `yaml:"release"`
}

// Store persists the pinned release as YAML on disk. A missing file means no
// release is pinned and the node runs the shipped defaults.
type Store struct {
	path string
}

// NewStore creates a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath returns the pin file path under the user's coreexp home.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapIO("resolve", "home directory", err)
	}
	return filepath.Join(home, constants.DefaultHomeDirName, constants.ReleasePinFileName), nil
}

// Path returns the pin file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the pinned release. Returns (nil, nil) when nothing is pinned.
func (s *Store) Load() (*Pin, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", s.path, err)
	}

	var pin Pin
	if err := yaml.Unmarshal(data, &pin); err != nil {
		return nil, errors.WrapParse("yaml", s.path, err)
	}
	return &pin, nil
}

// Save persists the release as the current pin, stamping it with the current
// time. The write is atomic.
func (s *Store) Save(info releases.Info) error {
	pin := Pin{
		PinnedAt: utc.Now(),
		Release:  info,
	}
	data, err := yaml.Marshal(pin)
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".release_*.yaml")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", s.path, err)
	}
	return nil
}

// Clear removes the pin. Clearing an absent pin is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", s.path, err)
	}
	return nil
}
