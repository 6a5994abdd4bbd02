package llupdates

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/audiolab/coreexp/cmd/application"
	"github.com/audiolab/coreexp/pkg/releases"
)

// UpdateFlags holds the flags of the update subcommand.
type UpdateFlags struct {
	Preview     bool
	AutoApprove bool
}

func newUpdateCommand(app application.Application) *cobra.Command {
	flags := &UpdateFlags{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and apply the newest compatible release",
		Long: `Update fetches the release index, picks the newest release on the
requested stream that the running core version supports, and pins it to the
managed node.

Applying a release restarts the node, which interrupts any audio it is
currently playing. The command asks for confirmation before restarting
unless -y is given.`,
		Example: `  coreexp llupdates update              # newest stable release
  coreexp llupdates update --preview    # include preview releases
  coreexp llupdates update -y           # skip the confirmation prompt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ExecuteUpdate(cmd.Context(), cmd.OutOrStdout(), app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Preview, "preview", false, "consider preview releases as well as stable ones")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false, "apply without asking for confirmation")

	return cmd
}

// ExecuteUpdate orchestrates the complete update process.
func ExecuteUpdate(ctx context.Context, out io.Writer, app application.Application, flags *UpdateFlags) error {
	manager, err := app.UpdateManager(ctx)
	if err != nil {
		return err
	}

	stream := releases.StreamStable
	if flags.Preview {
		stream = releases.StreamPreview
	}

	report, err := manager.Check(ctx, stream)
	if err != nil {
		return err
	}

	core := manager.CoreVersion()

	if report.Latest == nil {
		fmt.Fprintf(out, "No release has been published on the %s stream yet.\n", stream)
		return nil
	}

	if report.LatestCompatible == nil {
		fmt.Fprintf(out, "No published release supports core version %s.\n", core)
		fmt.Fprintf(out, "The newest release, %s, requires core %s.\n",
			report.Latest.ReleaseName, report.Latest.CoreVersions)
		return nil
	}

	if report.UpToDate {
		fmt.Fprintf(out, "Already running the newest compatible release: %s\n",
			report.LatestCompatible.ReleaseName)
		if needs := report.NewerNeedsCore(); needs != "" {
			fmt.Fprintf(out, "A newer release, %s, exists but requires core %s.\n",
				report.Latest.ReleaseName, needs)
		}
		return nil
	}

	target := *report.LatestCompatible
	printRelease(out, target)
	if needs := report.NewerNeedsCore(); needs != "" {
		fmt.Fprintf(out, "A newer release, %s, exists but requires core %s.\n",
			report.Latest.ReleaseName, needs)
	}

	proceed, err := ConfirmApply(out, app.Quiet(), flags.AutoApprove)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	if err := manager.Apply(ctx, target); err != nil {
		return err
	}

	fmt.Fprintf(out, "Pinned release %s. The node is running Lavalink %s.\n",
		target.ReleaseName, target.JarVersion)
	return nil
}
