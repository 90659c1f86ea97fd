package daemon

import (
	"context"
	"log/slog"
	"time"
)

// CheckFunc runs the invariant checker and returns one line per violation.
type CheckFunc func(ctx context.Context) ([]string, error)

// WatchdogConfig holds configuration for the watchdog.
type WatchdogConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watchdog periodically runs the invariant checker inside the event loop
// and logs any drift it finds.
type Watchdog struct {
	interval time.Duration
	check    CheckFunc
	logger   *slog.Logger

	// last is the violation count of the previous pass, so a persisting
	// problem is reported once.
	last int
}

// NewWatchdog creates a watchdog. A non-positive interval defaults to 30s.
func NewWatchdog(cfg WatchdogConfig, check CheckFunc) *Watchdog {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watchdog{
		interval: interval,
		check:    check,
		logger:   logger,
	}
}

// Run starts the check loop. Blocks until context is cancelled.
func (d *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug("watchdog started", "interval", d.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.CheckNow(ctx)
		}
	}
}

// CheckNow performs a single pass and returns the violations found.
func (d *Watchdog) CheckNow(ctx context.Context) []string {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("watchdog panic recovered", "error", err)
		}
	}()

	checkCtx, cancel := context.WithTimeout(ctx, d.interval)
	defer cancel()

	violations, err := d.check(checkCtx)
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Warn("watchdog: check failed", "error", err)
		}
		return nil
	}

	if len(violations) != d.last {
		if len(violations) == 0 {
			d.logger.Info("watchdog: state consistent again")
		}
		for _, v := range violations {
			d.logger.Error("watchdog: invariant violated", "violation", v)
		}
	}
	d.last = len(violations)
	return violations
}
