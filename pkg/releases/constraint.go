package releases

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"

	"github.com/audiolab/coreexp/pkg/errors"
)

// CoreVersions is the set of core application versions a release supports,
// published in the index as a version constraint string (wire key
// "red_version", e.g. ">=3.5.0, <3.6.0").
type CoreVersions struct {
	raw         string
	constraints *semver.Constraints
}

// ParseCoreVersions parses a constraint string from the index.
func ParseCoreVersions(raw string) (CoreVersions, error) {
	constraints, err := semver.NewConstraint(raw)
	if err != nil {
		return CoreVersions{}, &errors.ValidationError{
			Field:   "red_version",
			Value:   raw,
			Message: "expected a version constraint set: " + err.Error(),
		}
	}
	return CoreVersions{raw: raw, constraints: constraints}, nil
}

// String returns the constraint string as published in the index.
func (cv CoreVersions) String() string {
	return cv.raw
}

// IsZero reports whether the constraint set is unset.
func (cv CoreVersions) IsZero() bool {
	return cv.constraints == nil
}

// Contains reports whether version v satisfies the constraint set.
// Prerelease builds of the core are accepted when their release portion
// satisfies the constraints, so dev builds can still pick up releases.
func (cv CoreVersions) Contains(v *semver.Version) bool {
	if cv.constraints == nil || v == nil {
		return false
	}
	if cv.constraints.Check(v) {
		return true
	}
	if v.Prerelease() == "" {
		return false
	}
	stripped, err := v.SetPrerelease("")
	if err != nil {
		return false
	}
	return cv.constraints.Check(&stripped)
}

// MarshalJSON encodes the constraint set as its index string form.
func (cv CoreVersions) MarshalJSON() ([]byte, error) {
	return json.Marshal(cv.raw)
}

// UnmarshalJSON decodes the constraint set from its index string form.
func (cv *CoreVersions) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &errors.ValidationError{
			Field:   "red_version",
			Value:   string(data),
			Message: "expected a string",
		}
	}
	parsed, err := ParseCoreVersions(raw)
	if err != nil {
		return err
	}
	*cv = parsed
	return nil
}

// MarshalYAML encodes the constraint set for the pin file.
func (cv CoreVersions) MarshalYAML() (interface{}, error) {
	return cv.raw, nil
}

// UnmarshalYAML decodes the constraint set from the pin file.
func (cv *CoreVersions) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseCoreVersions(raw)
	if err != nil {
		return err
	}
	*cv = parsed
	return nil
}
