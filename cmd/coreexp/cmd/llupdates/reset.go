package llupdates

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
)

func newResetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the release pin",
		Long: `Reset clears the pinned release. The node keeps running its current
build; the shipped defaults apply the next time it starts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			manager, err := app.UpdateManager(ctx)
			if err != nil {
				return err
			}

			current := manager.Current()
			if current == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No release is pinned.")
				return nil
			}

			if err := manager.Reset(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Release pin %s cleared. The shipped defaults apply on the next node start.\n",
				current.ReleaseName)
			return nil
		},
	}
}
