// Package llupdates implements the llupdates command group, the CLI surface
// of the core_exp_audio_ll_updates experiment. It checks the published
// release index, pins new Lavalink releases to the managed node, and clears
// pins again.
package llupdates

import (
	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
)

// NewCommand creates the llupdates command group.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "llupdates",
		GroupID: "core",
		Short:   "Update the managed Lavalink node independently",
		Long: `Llupdates manages the Lavalink build the managed audio node runs.

Releases are published to an index independently of the core release
schedule. Updating pins a published release to the node: its jar, YouTube
plugin version and server settings replace the shipped defaults until the
pin is cleared.`,
	}

	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newResetCommand(app))
	cmd.AddCommand(newStatusCommand(app))

	return cmd
}
