// Package daemon supervises one window manager process: the per-display
// instance lock, the display session, the event loop, the control socket
// and signal handling.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Config describes one supervised run.
type Config struct {
	WM *config.Config
	// Display defaults to $DISPLAY.
	Display string
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Version    string
	// CheckInterval enables the invariant watchdog when positive.
	CheckInterval time.Duration
	Logger        *slog.Logger
}

// Result reports how the event loop ended.
type Result struct {
	// Restart is set when the restart action ended the loop; the caller
	// should re-exec after Run returns.
	Restart bool
}

// session is an open display that we own as window manager.
type session struct {
	backend platform.Backend
	close   func()
}

// Run becomes the window manager on the configured display and blocks
// until quit, restart, SIGINT/SIGTERM, ctx cancellation or loss of the
// display connection. SIGHUP requests a restart.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.WM == nil {
		return Result{}, errors.New("daemon: nil config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	display := cfg.Display
	if display == "" {
		display = os.Getenv("DISPLAY")
	}

	lock, err := AcquireLock(display)
	if err != nil {
		return Result{}, err
	}
	defer lock.Unlock()

	sess, err := openDisplay(display, cfg.WM, logger)
	if err != nil {
		return Result{}, err
	}
	defer sess.close()

	w, err := wm.New(sess.backend, wm.Options{Config: cfg.WM, Logger: logger})
	if err != nil {
		return Result{}, err
	}
	w.Start()

	ctrl := ipc.NewController(w)
	srv, err := ipc.NewServer(ctrl, ipc.ServerOptions{
		SocketPath: cfg.SocketPath,
		Logger:     logger,
		Version:    cfg.Version,
	})
	if err != nil {
		w.Cleanup()
		return Result{}, err
	}
	if err := srv.Start(); err != nil {
		w.Cleanup()
		return Result{}, err
	}
	defer srv.Stop()

	loopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	auxCtx, cancelAux := context.WithCancel(loopCtx)
	defer cancelAux()
	go handleHangup(auxCtx, w, logger)

	if cfg.CheckInterval > 0 {
		wd := NewWatchdog(WatchdogConfig{Interval: cfg.CheckInterval, Logger: logger}, ctrl.Check)
		go wd.Run(auxCtx)
	}

	runErr := w.Run(loopCtx)
	cancelAux()

	if errors.Is(runErr, wm.ErrConnectionClosed) {
		logger.Error("display connection lost")
		return Result{}, runErr
	}
	w.Cleanup()
	if runErr != nil {
		return Result{}, fmt.Errorf("event loop: %w", runErr)
	}
	return Result{Restart: w.Restarting()}, nil
}

// handleHangup turns SIGHUP into the restart action so a changed config
// file is picked up.
func handleHangup(ctx context.Context, w *wm.WM, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, restarting")
			var execErr error
			if err := w.Do(ctx, func() { execErr = w.Exec("restart", "") }); err != nil {
				return
			}
			if execErr != nil {
				logger.Warn("restart failed", "error", execErr)
			}
		}
	}
}
