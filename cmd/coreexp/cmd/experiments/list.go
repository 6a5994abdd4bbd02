package experiments

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
)

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered experiments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := app.Registry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := registry.Names()
			if len(names) == 0 {
				fmt.Fprintln(out, "No experiments registered.")
				return nil
			}

			for _, name := range names {
				exp, err := registry.Get(name)
				if err != nil {
					return err
				}

				state := "unloaded"
				if registry.IsLoaded(name) {
					state = "loaded"
				}

				fmt.Fprintf(out, "%s (%s)\n", name, state)
				fmt.Fprintf(out, "  %s\n", exp.Description())
			}
			return nil
		},
	}
}
