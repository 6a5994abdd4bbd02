package llupdates

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
)

func newStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the pinned release and the node's effective versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			manager, err := app.UpdateManager(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Core version: %s\n", manager.CoreVersion())

			if current := manager.Current(); current != nil {
				fmt.Fprintf(out, "Pinned release: %s (%s stream)\n",
					current.ReleaseName, current.Stream)
				if pinnedAt := manager.PinnedAt(); pinnedAt != nil {
					fmt.Fprintf(out, "Pinned at: %s\n", pinnedAt.Format(time.RFC3339))
				}
			} else {
				fmt.Fprintln(out, "Pinned release: none (shipped defaults)")
			}

			pins := app.Node().Pins()
			fmt.Fprintln(out, "Effective node versions:")
			fmt.Fprintf(out, "  Lavalink:       %s\n", pins.JarVersion)
			fmt.Fprintf(out, "  YouTube plugin: %s\n", pins.YTPluginVersion)
			fmt.Fprintf(out, "  Java:           %s\n", formatJavaVersions(pins.SupportedJavaVersions))
			return nil
		},
	}
}
