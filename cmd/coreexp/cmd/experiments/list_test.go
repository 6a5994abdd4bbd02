package experiments

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/coreexp/cmd/application"
	"github.com/audiolab/coreexp/pkg/experiments"
)

type stubExperiment struct {
	name experiments.Name
}

func (s *stubExperiment) Name() experiments.Name       { return s.name }
func (s *stubExperiment) Description() string          { return "A stub experiment" }
func (s *stubExperiment) Load(context.Context) error   { return nil }
func (s *stubExperiment) Unload(context.Context) error { return nil }

func TestListCommand(t *testing.T) {
	registry := experiments.NewRegistry()
	require.NoError(t, registry.Register(&stubExperiment{name: "core_exp_stub"}))
	require.NoError(t, registry.Load(context.Background(), "core_exp_stub"))

	app := &application.Mock{
		RegistryFunc: func() (*experiments.Registry, error) {
			return registry, nil
		},
	}

	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "core_exp_stub (loaded)")
	assert.Contains(t, out.String(), "A stub experiment")
}

func TestListCommand_Empty(t *testing.T) {
	app := &application.Mock{}

	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "No experiments registered.")
}
