package cli

import (
	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/model"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete one entry by id",
		Long: `Delete one entry from a collection by its id.

Collections: exercises, pr-entries, weight-entries.

Deletion is destructive; pass --yes to confirm. With a remote configured
the remote copy is removed best-effort; a remote failure still removes
the local copy.

Example:
  prtrack delete pr-entries 8f14e45f --yes`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to delete without --yes")
			}

			collection := model.Collection(args[0])
			if !collection.Valid() {
				return NewExitError(ExitCommandError, "unknown collection "+args[0])
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.engine.Delete(cmd.Context(), collection, args[1]); err != nil {
				return WrapExitError(ExitFailure, "delete rejected", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	return cmd
}
