// Package releases models the published index of Lavalink builds and the
// selection of the newest build compatible with the running core application.
package releases

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/audiolab/coreexp/pkg/errors"
)

// Info describes one published Lavalink build. Wire field names are fixed by
// the published index document and must not change.
type Info struct {
	ReleaseName     string         `json:"release_name" yaml:"release_name"`
	JarVersion      string         `json:"jar_version" yaml:"jar_version"`
	JarURL          string         `json:"jar_url" yaml:"jar_url"`
	YTPluginVersion string         `json:"yt_plugin_version" yaml:"yt_plugin_version"`
	JavaVersions    []int          `json:"java_versions" yaml:"java_versions"`
	CoreVersions    CoreVersions   `json:"red_version" yaml:"red_version"`
	Stream          Stream         `json:"release_stream" yaml:"release_stream"`
	ConfigOverrides map[string]any `json:"application_yml_overrides" yaml:"application_yml_overrides,omitempty"`
}

// rawInfo mirrors Info with pointer fields so missing keys can be told apart
// from zero values during decoding.
type rawInfo struct {
	ReleaseName     *string        `json:"release_name"`
	JarVersion      *string        `json:"jar_version"`
	JarURL          *string        `json:"jar_url"`
	YTPluginVersion *string        `json:"yt_plugin_version"`
	JavaVersions    *[]int         `json:"java_versions"`
	CoreVersions    *CoreVersions  `json:"red_version"`
	Stream          *string        `json:"release_stream"`
	ConfigOverrides map[string]any `json:"application_yml_overrides"`
}

// UnmarshalJSON decodes a release entry, rejecting documents with missing or
// mistyped keys so a malformed index fails loudly instead of producing a
// half-filled release.
func (i *Info) UnmarshalJSON(data []byte) error {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WrapParse("json", "release entry", err)
	}

	for key, ptr := range map[string]any{
		"release_name":      raw.ReleaseName,
		"jar_version":       raw.JarVersion,
		"jar_url":           raw.JarURL,
		"yt_plugin_version": raw.YTPluginVersion,
		"java_versions":     raw.JavaVersions,
		"red_version":       raw.CoreVersions,
		"release_stream":    raw.Stream,
	} {
		if reflect.ValueOf(ptr).IsNil() {
			return &errors.ValidationError{Field: key, Message: "missing key"}
		}
	}

	stream, err := ParseStream(*raw.Stream)
	if err != nil {
		return err
	}

	if len(*raw.JavaVersions) == 0 {
		return &errors.ValidationError{
			Field:   "java_versions",
			Message: "expected at least one supported Java version",
		}
	}

	i.ReleaseName = *raw.ReleaseName
	i.JarVersion = *raw.JarVersion
	i.JarURL = *raw.JarURL
	i.YTPluginVersion = *raw.YTPluginVersion
	i.JavaVersions = *raw.JavaVersions
	i.CoreVersions = *raw.CoreVersions
	i.Stream = stream
	i.ConfigOverrides = raw.ConfigOverrides
	return nil
}

// Equal reports whether two releases describe the same build. Used to detect
// "already up to date" before prompting for an update.
func (i Info) Equal(other Info) bool {
	return i.ReleaseName == other.ReleaseName &&
		i.JarVersion == other.JarVersion &&
		i.JarURL == other.JarURL &&
		i.YTPluginVersion == other.YTPluginVersion &&
		slices.Equal(i.JavaVersions, other.JavaVersions) &&
		i.CoreVersions.String() == other.CoreVersions.String() &&
		i.Stream == other.Stream &&
		reflect.DeepEqual(i.ConfigOverrides, other.ConfigOverrides)
}

// LatestSupportedJava returns the newest Java major version the build supports.
// JavaVersions is published in ascending order.
func (i Info) LatestSupportedJava() int {
	if len(i.JavaVersions) == 0 {
		return 0
	}
	return i.JavaVersions[len(i.JavaVersions)-1]
}
