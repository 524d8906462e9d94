package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/model"
)

// NewExerciseCommand groups exercise subcommands.
func NewExerciseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Manage exercises",
	}
	cmd.AddCommand(newExerciseAddCommand(rootOpts))
	cmd.AddCommand(newExerciseListCommand(rootOpts))
	return cmd
}

func newExerciseAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new exercise",
		Long: `Add a new exercise to track PRs against.

Exercise names are unique, compared case-insensitively. With a remote
configured the exercise is written there first and carries the assigned id;
when the remote is unreachable the exercise is kept locally without an id.

Example:
  prtrack exercise add "Back Squat"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			ex, err := a.engine.CreateExercise(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "exercise rejected", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(ex)
			}
			return out.Success(fmt.Sprintf("added exercise %q", ex.Name))
		},
	}
}

func newExerciseListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			exercises := a.engine.Exercises()
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(exercises)
			}
			if len(exercises) == 0 {
				return out.Success("no exercises yet")
			}
			for _, ex := range exercises {
				line := ex.Name
				if ex.ID != "" {
					line += "  (" + ex.ID + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// datedLine formats one entry line the way the UI lists do.
func datedLine(date model.Date, rest string) string {
	return fmt.Sprintf("%s  %s", date, rest)
}
