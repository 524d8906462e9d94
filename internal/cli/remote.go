package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRemoteCommand groups remote-configuration subcommands.
func NewRemoteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the remote store connection",
	}
	cmd.AddCommand(newRemoteSetCommand(rootOpts))
	cmd.AddCommand(newRemoteClearCommand(rootOpts))
	cmd.AddCommand(newRemoteStatusCommand(rootOpts))
	return cmd
}

func newRemoteSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <config.json|->",
		Short: "Configure the remote store from a JSON blob",
		Long: `Configure the remote document store from a JSON config blob,
read from a file or from stdin with "-". The blob is validated before
anything is persisted; a malformed blob leaves the previous configuration
in place. A valid config is stored locally, the connection is rebuilt,
and a refresh from the remote runs immediately.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var blob []byte
			var err error
			if args[0] == "-" {
				blob, err = io.ReadAll(cmd.InOrStdin())
			} else {
				blob, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read config", err)
			}

			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.engine.Configure(cmd.Context(), blob); err != nil {
				return WrapExitError(ExitCommandError, "remote configuration rejected", err)
			}
			return nil
		},
	}
}

func newRemoteClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Remove the remote configuration and go fully offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.engine.Unconfigure(); err != nil {
				return WrapExitError(ExitFailure, "failed to remove remote configuration", err)
			}
			return nil
		},
	}
}

func newRemoteStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show whether a remote store is configured",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if a.engine.Configured() {
				return out.Success("remote configured")
			}
			return out.Success("offline (no remote configured)")
		},
	}
}

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload all collections from the remote store",
		Long: `Reload every collection from the configured remote store. The
remote is authoritative: collections that load successfully replace local
state. Collections that fail to load keep their local state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.engine.RefreshFromRemote(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "refresh incomplete", err)
			}
			return nil
		},
	}
}
