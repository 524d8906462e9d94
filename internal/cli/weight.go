package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/model"
)

// NewWeightCommand groups body-weight subcommands.
func NewWeightCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Manage body-weight entries",
	}
	cmd.AddCommand(newWeightAddCommand(rootOpts))
	cmd.AddCommand(newWeightListCommand(rootOpts))
	return cmd
}

func newWeightAddCommand(rootOpts *RootOptions) *cobra.Command {
	var date string
	var weight float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a body-weight measurement",
		Long: `Record a body-weight measurement. --date defaults to today.

Example:
  prtrack weight add --weight 82.4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := model.WeightEntry{Weight: weight}
			if date == "" {
				entry.Date = model.Today()
			} else {
				parsed, err := model.ParseDate(date)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --date", err)
				}
				entry.Date = parsed
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.engine.CreateWeight(cmd.Context(), entry)
			if err != nil {
				return WrapExitError(ExitFailure, "weight entry rejected", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(created)
			}
			return out.Success(fmt.Sprintf("recorded %.1fkg on %s", created.Weight, created.Date))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "body weight in kg (required)")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}

func newWeightListCommand(rootOpts *RootOptions) *cobra.Command {
	var period int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List body-weight entries, most recent first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := model.FilterWeightsByPeriod(a.engine.WeightEntries(), period, time.Now())

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(entries)
			}
			if len(entries) == 0 {
				return out.Success("no weight entries")
			}
			for _, e := range entries {
				rest := fmt.Sprintf("%.1fkg", e.Weight)
				if e.ID != "" {
					rest += "  (" + e.ID + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), datedLine(e.Date, rest))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&period, "period", 0, "only entries from the last N months (0 = all)")

	return cmd
}
