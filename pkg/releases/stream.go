package releases

import (
	"github.com/audiolab/coreexp/pkg/errors"
)

// Stream identifies the release channel a Lavalink build was published to.
type Stream string

// Known release streams.
const (
	StreamStable  Stream = "stable"
	StreamPreview Stream = "preview"
)

// ParseStream converts a raw stream string from the index into a Stream.
func ParseStream(raw string) (Stream, error) {
	switch Stream(raw) {
	case StreamStable:
		return StreamStable, nil
	case StreamPreview:
		return StreamPreview, nil
	default:
		return "", &errors.ValidationError{
			Field:   "release_stream",
			Value:   raw,
			Message: "expected \"stable\" or \"preview\"",
		}
	}
}

// String returns the stream name as published in the index.
func (s Stream) String() string {
	return string(s)
}

// Matches reports whether a release published to stream other satisfies a
// request for s. Requesting the preview stream also accepts stable builds,
// since a stable build newer than every preview build is the better pick.
func (s Stream) Matches(other Stream) bool {
	if s == other {
		return true
	}
	return s == StreamPreview && other == StreamStable
}
