package experiments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/logging"
)

// loadState tracks an experiment's position in the load/unload transition.
// Pending states are claimed under the registry lock before the experiment's
// own Load/Unload runs, so concurrent transitions for the same name fail
// instead of running twice.
type loadState int

const (
	stateUnloaded loadState = iota
	stateLoading
	stateLoaded
	stateUnloading
)

// Registry holds the known experiments and tracks which are loaded.
// All methods are safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	experiments map[Name]Experiment
	states      map[Name]loadState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		experiments: make(map[Name]Experiment),
		states:      make(map[Name]loadState),
	}
}

// Register adds an experiment. The name must satisfy the naming convention
// and must not already be registered.
func (r *Registry) Register(exp Experiment) error {
	name := exp.Name()
	if err := name.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.experiments[name]; ok {
		return fmt.Errorf("experiment %s: %w", name, errors.ErrAlreadyExists)
	}
	r.experiments[name] = exp
	return nil
}

// Get returns the experiment registered under name.
func (r *Registry) Get(name Name) (Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exp, ok := r.experiments[name]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "experiment", ID: name.String()}
	}
	return exp, nil
}

// Names returns the registered experiment names in sorted order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// IsLoaded reports whether the experiment is currently loaded.
func (r *Registry) IsLoaded(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[name] == stateLoaded
}

// Load loads the experiment registered under name. Loading an already-loaded
// (or currently loading) experiment is an error.
func (r *Registry) Load(ctx context.Context, name Name) error {
	exp, err := r.Get(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.states[name] != stateUnloaded {
		r.mu.Unlock()
		return &errors.ValidationError{
			Field:   "name",
			Value:   name.String(),
			Message: "experiment already loaded",
		}
	}
	r.states[name] = stateLoading
	r.mu.Unlock()

	if err := exp.Load(ctx); err != nil {
		r.mu.Lock()
		delete(r.states, name)
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.states[name] = stateLoaded
	r.mu.Unlock()

	logging.Ctx(ctx).Info().Str("experiment", name.String()).Msg("Experiment loaded")
	return nil
}

// Unload unloads a loaded experiment.
func (r *Registry) Unload(ctx context.Context, name Name) error {
	exp, err := r.Get(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.states[name] != stateLoaded {
		r.mu.Unlock()
		return &errors.NotFoundError{Resource: "loaded experiment", ID: name.String()}
	}
	r.states[name] = stateUnloading
	r.mu.Unlock()

	if err := exp.Unload(ctx); err != nil {
		r.mu.Lock()
		r.states[name] = stateLoaded
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	delete(r.states, name)
	r.mu.Unlock()

	logging.Ctx(ctx).Info().Str("experiment", name.String()).Msg("Experiment unloaded")
	return nil
}

// UnloadAll unloads every loaded experiment. The first error is returned,
// but unloading continues for the rest.
func (r *Registry) UnloadAll(ctx context.Context) error {
	var firstErr error
	for _, name := range r.Names() {
		if !r.IsLoaded(name) {
			continue
		}
		if err := r.Unload(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
