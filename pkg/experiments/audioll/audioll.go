// Package audioll is the core_exp_audio_ll_updates experiment: it lets the
// managed Lavalink node be updated independently of the core application's
// release schedule.
package audioll

import (
	"context"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/experiments"
	"github.com/audiolab/coreexp/pkg/updates"
)

// ExperimentName is the experiment's registered name.
const ExperimentName = experiments.Name("core_exp_audio_ll_updates")

// Experiment wires the update manager against the managed node while loaded.
type Experiment struct {
	mu sync.Mutex

	client      *updates.Client
	store       *updates.Store
	node        updates.Node
	coreVersion *semver.Version

	manager *updates.Manager
}

// New creates the experiment. Nothing is wired until Load.
func New(client *updates.Client, store *updates.Store, node updates.Node, coreVersion *semver.Version) *Experiment {
	return &Experiment{
		client:      client,
		store:       store,
		node:        node,
		coreVersion: coreVersion,
	}
}

// Name implements experiments.Experiment.
func (e *Experiment) Name() experiments.Name {
	return ExperimentName
}

// Description implements experiments.Experiment.
func (e *Experiment) Description() string {
	return "Update the managed Lavalink node independently of the core release schedule"
}

// Load creates the update manager, applying any persisted release pin to the
// node.
func (e *Experiment) Load(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	manager, err := updates.NewManager(e.client, e.store, e.node, e.coreVersion)
	if err != nil {
		return err
	}
	e.manager = manager
	return nil
}

// Unload releases the update manager.
func (e *Experiment) Unload(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.manager = nil
	return nil
}

// Manager returns the update manager once loaded.
func (e *Experiment) Manager() (*updates.Manager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.manager == nil {
		return nil, &errors.NotFoundError{Resource: "loaded experiment", ID: ExperimentName.String()}
	}
	return e.manager, nil
}
