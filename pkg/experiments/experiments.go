// Package experiments provides the registry of experimental extension
// modules. Experiments are optionally loaded, can be unloaded independently
// of the core application, and are not guaranteed to ship in the stable
// core project.
package experiments

import (
	"context"
	"strings"

	"github.com/audiolab/coreexp/pkg/errors"
)

// NamePrefix marks a module as an experimental feature. Every experiment
// name must carry it.
const NamePrefix = "core_exp_"

// Name identifies an experiment, e.g. "core_exp_audio_ll_updates".
type Name string

// Validate checks the naming convention: the literal prefix "core_exp_"
// followed by a non-empty descriptive suffix.
func (n Name) Validate() error {
	suffix, ok := strings.CutPrefix(string(n), NamePrefix)
	if !ok {
		return &errors.ValidationError{
			Field:   "name",
			Value:   string(n),
			Message: "experiment names must begin with the " + NamePrefix + " prefix",
		}
	}
	if suffix == "" {
		return &errors.ValidationError{
			Field:   "name",
			Value:   string(n),
			Message: "experiment names need a descriptive suffix after the " + NamePrefix + " prefix",
		}
	}
	return nil
}

// String returns the name as a string.
func (n Name) String() string {
	return string(n)
}

// Experiment is an optionally-loaded extension module.
type Experiment interface {
	// Name returns the experiment's name, which must satisfy Name.Validate.
	Name() Name

	// Description is a one-line human-readable summary.
	Description() string

	// Load initializes the experiment. It is called at most once before
	// Unload.
	Load(ctx context.Context) error

	// Unload releases everything Load acquired.
	Unload(ctx context.Context) error
}
