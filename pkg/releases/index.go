package releases

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"

	"github.com/audiolab/coreexp/pkg/errors"
)

// Index is the ordered list of published Lavalink builds, newest first.
type Index struct {
	Releases []Info
}

// DecodeIndex decodes the published index document (a JSON array of release
// entries, newest first).
func DecodeIndex(data []byte) (*Index, error) {
	var entries []Info
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapParse("json", "release index", err)
	}
	return &Index{Releases: entries}, nil
}

// LatestOption narrows the candidates considered by Latest.
type LatestOption func(*latestOptions)

type latestOptions struct {
	coreVersion *semver.Version
}

// ForCoreVersion restricts Latest to releases whose core version constraint
// contains v.
func ForCoreVersion(v *semver.Version) LatestOption {
	return func(o *latestOptions) {
		o.coreVersion = v
	}
}

// Latest returns the newest release published to the given stream. Requesting
// the preview stream also considers stable builds. With ForCoreVersion,
// releases incompatible with that core version are skipped.
func (idx *Index) Latest(stream Stream, opts ...LatestOption) (Info, error) {
	var options latestOptions
	for _, opt := range opts {
		opt(&options)
	}

	for _, release := range idx.Releases {
		if !stream.Matches(release.Stream) {
			continue
		}
		if options.coreVersion != nil && !release.CoreVersions.Contains(options.coreVersion) {
			continue
		}
		return release, nil
	}

	return Info{}, &errors.NotFoundError{Resource: "release", ID: "matching " + stream.String() + " stream"}
}
