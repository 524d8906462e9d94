package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/model"
)

// PRAddOptions holds flags for the pr add command.
type PRAddOptions struct {
	Exercise string
	Date     string
	Weight   float64
	Reps     int
}

// NewPRCommand groups PR entry subcommands.
func NewPRCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Manage personal record entries",
	}
	cmd.AddCommand(newPRAddCommand(rootOpts))
	cmd.AddCommand(newPRListCommand(rootOpts))
	return cmd
}

func newPRAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PRAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new PR",
		Long: `Record a personal record for an exercise.

--date defaults to today. --reps is optional; a PR without reps records
the weight alone.

Example:
  prtrack pr add --exercise "Back Squat" --weight 142.5 --reps 3`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := model.PREntry{
				Exercise: opts.Exercise,
				Weight:   opts.Weight,
				Reps:     opts.Reps,
			}
			if opts.Date == "" {
				entry.Date = model.Today()
			} else {
				date, err := model.ParseDate(opts.Date)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --date", err)
				}
				entry.Date = date
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.engine.CreatePR(cmd.Context(), entry)
			if err != nil {
				return WrapExitError(ExitFailure, "PR rejected", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(created)
			}
			return out.Success(fmt.Sprintf("recorded %s: %.1fkg", created.Exercise, created.Weight))
		},
	}

	cmd.Flags().StringVar(&opts.Exercise, "exercise", "", "exercise name (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&opts.Weight, "weight", 0, "weight in kg (required)")
	cmd.Flags().IntVar(&opts.Reps, "reps", 0, "repetitions (optional)")
	_ = cmd.MarkFlagRequired("exercise")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}

func newPRListCommand(rootOpts *RootOptions) *cobra.Command {
	var exercise string
	var period int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List PR entries, most recent first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.engine.PREntries()
			if exercise != "" {
				folded := model.FoldName(exercise)
				filtered := entries[:0]
				for _, e := range entries {
					if model.FoldName(e.Exercise) == folded {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
			entries = model.FilterPRsByPeriod(entries, period, time.Now())

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(entries)
			}
			if len(entries) == 0 {
				return out.Success("no PR entries")
			}
			for _, e := range entries {
				rest := fmt.Sprintf("%s: %.1fkg", e.Exercise, e.Weight)
				if e.Reps > 0 {
					rest += fmt.Sprintf(" x%d", e.Reps)
				}
				if e.ID != "" {
					rest += "  (" + e.ID + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), datedLine(e.Date, rest))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exercise, "exercise", "", "only entries for this exercise")
	cmd.Flags().IntVar(&period, "period", 0, "only entries from the last N months (0 = all)")

	return cmd
}
