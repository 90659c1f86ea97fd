//go:build linux

package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/x11"
)

const wmName = "tagwm"

func openDisplay(display string, cfg *config.Config, logger *slog.Logger) (*session, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display %q: %w", display, err)
	}
	if err := conn.BecomeWM(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Advertise(wmName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to publish EWMH support: %w", err)
	}

	backend, err := platform.NewLinuxBackend(conn, platform.Colors{
		Normal:  cfg.Colors.NormalBorder,
		Focused: cfg.Colors.FocusedBorder,
		Urgent:  cfg.Colors.UrgentBorder,
	}, logger)
	if err != nil {
		conn.Withdraw()
		conn.Close()
		return nil, err
	}

	logger.Info("display opened", "display", display, "randr", conn.HasRandr(), "barriers", conn.HasBarriers())
	return &session{
		backend: backend,
		close: func() {
			conn.Withdraw()
			conn.Sync()
			backend.Disconnect()
		},
	}, nil
}

// Reexec replaces the current process with a fresh copy of itself, keeping
// the original arguments and environment.
func Reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to find executable: %w", err)
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}
