package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/daemon"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "clients":
		os.Exit(runClients(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "check":
		os.Exit(runCheck(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "top":
		os.Exit(runTop(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Println("tagwm", version)
		os.Exit(0)
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
	fmt.Fprintln(w, "Usage: tagwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Become the window manager (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  clients             List managed windows")
	fmt.Fprintln(w, "  action <name> [arg] Run a bindable action")
	fmt.Fprintln(w, "  check               Check internal consistency")
	fmt.Fprintln(w, "  menu                Pick a window, tag, layout or action (rofi/dmenu)")
	fmt.Fprintln(w, "  top                 Live dashboard of monitors and clients")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagwm <command> --help' for command-specific options.")
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm run [--config PATH] [--display NAME] [--check-interval DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Manage the X display in the foreground until quit.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("config", "", "Config file path (default: ~/.config/tagwm/config.yaml)")
	display := fs.String("display", "", "X display (default: $DISPLAY)")
	checkInterval := fs.Duration("check-interval", 0, "Run the invariant checker periodically (0 disables)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := daemon.NewLogger(os.Stderr, cfg.LogLevel)
	logger.Info("configuration loaded", "tags", len(cfg.Tags), "layouts", len(cfg.Layouts), "gap", cfg.GapPx)

	res, err := daemon.Run(context.Background(), daemon.Config{
		WM:            cfg,
		Display:       *display,
		Version:       version,
		CheckInterval: *checkInterval,
		Logger:        logger,
	})
	if err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			fmt.Fprintln(os.Stderr, "tagwm:", err)
			return 1
		}
		logger.Error("tagwm exited", "error", err)
		return 1
	}

	if res.Restart {
		logger.Info("restarting")
		if err := daemon.Reexec(); err != nil {
			logger.Error("restart failed", "error", err)
			return 1
		}
	}
	return 0
}
