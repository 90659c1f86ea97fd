package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireLock(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	first, err := AcquireLock(":0")
	if err != nil {
		t.Fatalf("AcquireLock() error: %v", err)
	}
	if got := filepath.Base(first.Path()); got != "tagwm-_0.lock" {
		t.Fatalf("lock file = %q", got)
	}

	if _, err := AcquireLock(":0"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second AcquireLock() error = %v, want ErrAlreadyRunning", err)
	}

	other, err := AcquireLock(":1")
	if err != nil {
		t.Fatalf("AcquireLock(:1) error: %v", err)
	}
	defer other.Unlock()

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	again, err := AcquireLock(":0")
	if err != nil {
		t.Fatalf("AcquireLock() after unlock error: %v", err)
	}
	again.Unlock()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" Warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warning")
	logger.Info("hidden")
	logger.Warn("shown", "window", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warning level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "window=42") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestRun_NilConfig(t *testing.T) {
	if _, err := Run(context.Background(), Config{}); err == nil {
		t.Fatalf("Run() without config succeeded")
	}
}

func TestWatchdog_CheckNow(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	var violations []string
	var checkErr error
	wd := NewWatchdog(WatchdogConfig{Interval: time.Second, Logger: logger}, func(context.Context) ([]string, error) {
		return violations, checkErr
	})

	if got := wd.CheckNow(context.Background()); len(got) != 0 {
		t.Fatalf("clean pass returned %v", got)
	}

	violations = []string{"client 0x400001: empty tag mask"}
	if got := wd.CheckNow(context.Background()); len(got) != 1 {
		t.Fatalf("CheckNow() = %v", got)
	}
	if n := strings.Count(buf.String(), "invariant violated"); n != 1 {
		t.Fatalf("violation logged %d times, want 1", n)
	}

	// An unchanged result is not logged again.
	wd.CheckNow(context.Background())
	if n := strings.Count(buf.String(), "invariant violated"); n != 1 {
		t.Fatalf("persisting violation logged %d times, want 1", n)
	}

	violations = nil
	wd.CheckNow(context.Background())
	if !strings.Contains(buf.String(), "state consistent again") {
		t.Fatalf("recovery not logged: %q", buf.String())
	}

	checkErr = errors.New("event loop is not running")
	if got := wd.CheckNow(context.Background()); got != nil {
		t.Fatalf("failed check returned %v", got)
	}
	if !strings.Contains(buf.String(), "check failed") {
		t.Fatalf("check error not logged: %q", buf.String())
	}
}

func TestWatchdog_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	wd := NewWatchdog(WatchdogConfig{Logger: NewLogger(&buf, "info")}, func(context.Context) ([]string, error) {
		panic("boom")
	})
	if got := wd.CheckNow(context.Background()); got != nil {
		t.Fatalf("CheckNow() = %v", got)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %q", buf.String())
	}
}

func TestWatchdog_RunStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	wd := NewWatchdog(WatchdogConfig{Interval: 5 * time.Millisecond, Logger: NewLogger(&bytes.Buffer{}, "error")},
		func(context.Context) ([]string, error) {
			calls.Add(1)
			return nil, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		wd.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("watchdog ran %d checks", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
