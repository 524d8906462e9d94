package cli

import (
	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes, really bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete ALL exercises, PRs, and weight entries",
		Long: `Delete every exercise, PR entry, and weight entry, locally and
(best effort) from the remote. This cannot be undone, so it requires the
double confirmation --yes --really.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes || !really {
				return NewExitError(ExitCommandError, "refusing to clear all data without --yes --really")
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.engine.ClearAll(cmd.Context())
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the clear")
	cmd.Flags().BoolVar(&really, "really", false, "confirm the clear a second time")

	return cmd
}
