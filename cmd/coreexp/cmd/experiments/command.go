// Package experiments implements the experiments command group for
// inspecting the experiment modules this build ships.
package experiments

import (
	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
)

// NewCommand creates the experiments command group.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiments",
		GroupID: "core",
		Short:   "Inspect the experiment modules this build ships",
		Long: `Experiments are extension modules that are not guaranteed to ship in
the stable core project. Every experiment is named with the core_exp_ prefix
and can be loaded and unloaded independently of the others.`,
	}

	cmd.AddCommand(newListCommand(app))

	return cmd
}
