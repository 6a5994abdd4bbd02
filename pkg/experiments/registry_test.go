package experiments

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/coreexp/pkg/errors"
)

// stub is a minimal experiment for registry tests.
type stub struct {
	name      Name
	loads     int
	unloads   int
	loadErr   error
	unloadErr error
}

func (s *stub) Name() Name          { return s.name }
func (s *stub) Description() string { return "test experiment" }
func (s *stub) Load(context.Context) error {
	s.loads++
	return s.loadErr
}
func (s *stub) Unload(context.Context) error {
	s.unloads++
	return s.unloadErr
}

func TestName_Validate(t *testing.T) {
	assert.NoError(t, Name("core_exp_audio_ll_updates").Validate())

	assert.Error(t, Name("audio_ll_updates").Validate())
	assert.Error(t, Name("core_exp_").Validate())
	assert.Error(t, Name("").Validate())
	assert.Error(t, Name("CORE_EXP_audio").Validate())
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	exp := &stub{name: "core_exp_audio_ll_updates"}

	require.NoError(t, r.Register(exp))
	got, err := r.Get("core_exp_audio_ll_updates")
	require.NoError(t, err)
	assert.Equal(t, exp, got)
}

func TestRegistry_Register_InvalidName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&stub{name: "audio_ll_updates"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stub{name: "core_exp_audio_ll_updates"}))

	err := r.Register(&stub{name: "core_exp_audio_ll_updates"})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestRegistry_Get_Unknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("core_exp_nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stub{name: "core_exp_zeta"}))
	require.NoError(t, r.Register(&stub{name: "core_exp_alpha"}))

	assert.Equal(t, []Name{"core_exp_alpha", "core_exp_zeta"}, r.Names())
}

func TestRegistry_LoadUnload(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	exp := &stub{name: "core_exp_audio_ll_updates"}
	require.NoError(t, r.Register(exp))

	assert.False(t, r.IsLoaded(exp.name))
	require.NoError(t, r.Load(ctx, exp.name))
	assert.True(t, r.IsLoaded(exp.name))
	assert.Equal(t, 1, exp.loads)

	// Loading twice is an error.
	require.Error(t, r.Load(ctx, exp.name))
	assert.Equal(t, 1, exp.loads)

	require.NoError(t, r.Unload(ctx, exp.name))
	assert.False(t, r.IsLoaded(exp.name))
	assert.Equal(t, 1, exp.unloads)

	// Unloading an unloaded experiment is an error.
	require.Error(t, r.Unload(ctx, exp.name))
}

func TestRegistry_Load_ErrorKeepsUnloaded(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	exp := &stub{name: "core_exp_audio_ll_updates", loadErr: errors.New("boom")}
	require.NoError(t, r.Register(exp))

	require.Error(t, r.Load(ctx, exp.name))
	assert.False(t, r.IsLoaded(exp.name))
}

// gatedStub blocks in Load until released so tests can hold an experiment in
// the middle of its load transition.
type gatedStub struct {
	name    Name
	started chan struct{}
	release chan struct{}
	loads   atomic.Int32
}

func (s *gatedStub) Name() Name          { return s.name }
func (s *gatedStub) Description() string { return "gated test experiment" }
func (s *gatedStub) Load(context.Context) error {
	s.loads.Add(1)
	close(s.started)
	<-s.release
	return nil
}
func (s *gatedStub) Unload(context.Context) error { return nil }

func TestRegistry_Load_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	exp := &gatedStub{
		name:    "core_exp_audio_ll_updates",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	require.NoError(t, r.Register(exp))

	firstErr := make(chan error, 1)
	go func() { firstErr <- r.Load(ctx, exp.name) }()

	// Wait until the first load is underway, then try to load again while
	// the first one is still in flight.
	<-exp.started
	err := r.Load(ctx, exp.name)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	close(exp.release)
	require.NoError(t, <-firstErr)

	assert.True(t, r.IsLoaded(exp.name))
	assert.Equal(t, int32(1), exp.loads.Load())
}

func TestRegistry_UnloadAll(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	a := &stub{name: "core_exp_alpha"}
	b := &stub{name: "core_exp_beta", unloadErr: errors.New("boom")}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Load(ctx, a.name))
	require.NoError(t, r.Load(ctx, b.name))

	err := r.UnloadAll(ctx)
	require.Error(t, err)
	assert.False(t, r.IsLoaded(a.name))
	assert.True(t, r.IsLoaded(b.name))
	assert.Equal(t, 1, a.unloads)
}
