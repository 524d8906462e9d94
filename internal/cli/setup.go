package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/engine"
	"github.com/tbruckner/prtrack/internal/localstore"
)

// app bundles the store and engine a command operates on.
type app struct {
	store  *localstore.Store
	engine *engine.Engine
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("error closing local store", "error", err)
	}
}

// openApp configures logging, opens the Local Store, and hydrates an engine
// from it. The engine restores any persisted remote config but does not
// contact the remote; commands that want a refresh trigger one explicitly.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	configureLogging(opts.Verbose)

	path, err := dataPath(opts.Data)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve data path", err)
	}
	st, err := localstore.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open local store", err)
	}

	eng := engine.New(st, engine.WithNotifier(noticePrinter(cmd.ErrOrStderr())))
	eng.Hydrate()

	return &app{store: st, engine: eng}, nil
}

// configureLogging sets the process-wide logger based on the verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// dataPath resolves the Local Store location, defaulting to the user config
// directory.
func dataPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "prtrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "prtrack.db"), nil
}

// noticePrinter renders engine notices for the terminal.
func noticePrinter(w io.Writer) engine.NotifierFunc {
	return func(level engine.Level, message string) {
		fmt.Fprintf(w, "[%s] %s\n", level, message)
	}
}
