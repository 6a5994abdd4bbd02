package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	expcmd "github.com/audiolab/coreexp/cmd/coreexp/cmd/experiments"
	"github.com/audiolab/coreexp/cmd/coreexp/cmd/llupdates"
)

// CreateLLUpdatesCommand creates the llupdates command with app dependencies.
func (a *App) CreateLLUpdatesCommand() *cobra.Command {
	return llupdates.NewCommand(a)
}

// CreateExperimentsCommand creates the experiments command with app dependencies.
func (a *App) CreateExperimentsCommand() *cobra.Command {
	return expcmd.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the coreexp CLI.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "coreexp version %s\n", a.version)
			fmt.Fprintf(out, "commit: %s\n", a.commit)
			fmt.Fprintf(out, "built: %s\n", a.date)
			fmt.Fprintf(out, "built by: %s\n", a.builtBy)
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
