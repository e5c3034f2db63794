package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/runtimepath"
	"github.com/1broseidon/tagtile/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "workspaces":
		os.Exit(runWorkspaces(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tagtile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  windows             List managed windows")
	fmt.Fprintln(w, "  workspaces          List workspaces and their usable area")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List available layouts")
	fmt.Fprintln(w, "  layout apply        Apply a layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagtile <command> --help' for command-specific options.")
}

// loadConfig reads path, or the standard location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// socketPath resolves the daemon socket for the configured display. A
// broken config falls back to $DISPLAY so queries keep working.
func socketPath() (string, error) {
	display := ""
	if cfg, err := config.Load(); err == nil {
		display = cfg.Display
	}
	return runtimepath.SocketPath(display)
}

func newClient() (*ipc.Client, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(path), nil
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the X display as its window manager. SIGHUP reloads the config.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config
	logger := newLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	load := func() (*config.Config, error) {
		res, err := loadConfig(*path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	if err := serveDaemon(cfg, load, logger); err != nil {
		logger.Error("daemon failed", "error", err)
		if errors.Is(err, x11.ErrOtherWM) {
			return 3
		}
		return 1
	}
	return 0
}

func serveDaemon(cfg *config.Config, load daemon.ConfigLoader, logger *slog.Logger) error {
	backend, err := platform.New(platform.Options{
		Display: cfg.Display,
		Tags:    cfg.Tags,
		Theme:   cfg.Theme(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Close()

	loop, err := daemon.NewLoop(backend, cfg, logger)
	if err != nil {
		return err
	}

	socket, err := runtimepath.SocketPath(cfg.Display)
	if err != nil {
		return err
	}
	state := daemon.NewStateService(loop, load)
	ipcServer := ipc.NewServer(socket, state, logger)
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval(),
		Logger:   logger,
	}, loop, backend.ExistingWindows)
	go reconciler.Run(ctx)

	go reloadOnHangup(ctx, state, logger)

	logger.Info("tagtile daemon started", "socket", socket, "layout", cfg.DefaultLayout)
	return loop.Run(ctx)
}

// reloadOnHangup reloads the configuration on every SIGHUP until ctx ends.
func reloadOnHangup(ctx context.Context, state *daemon.StateService, logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			logger.Info("received SIGHUP, reloading config")
			if err := state.Reload(ctx); err != nil {
				logger.Warn("config reload failed", "error", err)
			}
		}
	}
}
