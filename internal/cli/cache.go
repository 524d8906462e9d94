package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbruckner/prtrack/internal/assetcache"
)

// CacheServeOptions holds flags for the cache serve command.
type CacheServeOptions struct {
	Manifest string
	Root     string
	Listen   string
	NoFill   bool
}

// NewCacheCommand groups asset cache subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Run the asset cache manager",
	}
	cmd.AddCommand(newCacheServeCommand(rootOpts))
	return cmd
}

func newCacheServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve intercepted asset requests through the versioned caches",
		Long: `Run the asset cache manager: install (precache the manifest's
app-shell paths and external allow-list), activate (evict caches from older
versions), then serve intercepted GET requests cache-first for same-origin
and allow-listed assets and network-first for everything else. Non-GET
requests pass through untouched.

The manager runs as its own process, independent of the data commands.

Example:
  prtrack cache serve --manifest assets.yaml --root ~/.cache/prtrack --listen :8100`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "path to the asset manifest YAML (required)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "cache root directory (required)")
	cmd.Flags().StringVar(&opts.Listen, "listen", "127.0.0.1:8100", "listen address")
	cmd.Flags().BoolVar(&opts.NoFill, "no-install", false, "skip precaching (serve an already warm cache)")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("root")

	return cmd
}

func runCacheServe(cmd *cobra.Command, rootOpts *RootOptions, opts *CacheServeOptions) error {
	configureLogging(rootOpts.Verbose)

	manifest, err := assetcache.LoadManifest(opts.Manifest)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	manager, err := assetcache.NewManager(manifest, opts.Root, slog.Default())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open caches", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if !opts.NoFill {
		slog.Info("installing", "manifest", opts.Manifest, "version", manifest.Version)
		if err := manager.Install(ctx); err != nil {
			return WrapExitError(ExitFailure, "install failed", err)
		}
	}

	evicted, err := manager.Activate(opts.Root)
	if err != nil {
		return WrapExitError(ExitFailure, "activation failed", err)
	}
	slog.Info("activated", "evicted", len(evicted))

	server := &http.Server{
		Addr:    opts.Listen,
		Handler: manager,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Asset cache manager listening on %s (version %s)\n", opts.Listen, manifest.Version)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", err)
	}
	return nil
}
