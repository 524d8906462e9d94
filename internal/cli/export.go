package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/model"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as a JSON snapshot",
		Long: `Export all three collections plus an export timestamp to a JSON
file. The default filename is pr-tracker-backup-YYYY-MM-DD.json; pass
"-o -" to write the snapshot to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			snapshot := a.engine.ExportSnapshot()
			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return WrapExitError(ExitFailure, "failed to serialize snapshot", err)
			}
			data = append(data, '\n')

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			path := output
			if path == "" {
				path = fmt.Sprintf("pr-tracker-backup-%s.json", model.DateOf(snapshot.ExportDate))
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return WrapExitError(ExitFailure, "failed to write snapshot", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return out.Success("exported to " + path)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout)`)

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported snapshot",
		Long: `Replace the local collections with the contents of an exported
snapshot file. The remote store is not touched; a later refresh from a
configured remote remains authoritative.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read snapshot", err)
			}
			var snapshot model.Snapshot
			if err := json.Unmarshal(data, &snapshot); err != nil {
				return WrapExitError(ExitCommandError, "snapshot is not valid JSON", err)
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.engine.ImportSnapshot(snapshot)
			return nil
		},
	}
}
