package wm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

func runLoop(w *WM) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background()) }()
	return errc
}

func waitLoop(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("event loop did not stop")
		return nil
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	fb := newFakeBackend()
	if _, err := New(fb, Options{}); err == nil {
		t.Fatalf("New without config succeeded")
	}

	cfg := testConfig()
	cfg.Keys[0].Action = "nosuchaction"
	if _, err := New(fb, Options{Config: cfg}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("New() error = %v, want ErrUnknownAction", err)
	}
}

func TestRun_QuitKey(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	fb.push(platform.KeyPress{Keysym: "q", State: platform.Mod1 | platform.ModShift})
	if err := waitLoop(t, runLoop(w)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if w.Restarting() {
		t.Fatalf("quit reported a restart")
	}
	w.Cleanup()
	if fb.windows[10].state != platform.StateWithdrawn {
		t.Fatalf("client not released after quit")
	}
}

func TestRun_ConnectionClosed(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)

	errc := runLoop(w)
	fb.close()
	if err := waitLoop(t, errc); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("Run() error = %v, want ErrConnectionClosed", err)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	cancel()
	if err := waitLoop(t, errc); err != nil {
		t.Fatalf("Run() error after cancel: %v", err)
	}
}

func TestDo_RunsOnEventLoop(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	errc := runLoop(w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var snap Snapshot
	if err := w.Do(ctx, func() { snap = w.Snapshot() }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if len(snap.Clients) != 1 || snap.Clients[0].Window != 10 {
		t.Fatalf("snapshot clients %+v", snap.Clients)
	}

	var execErr error
	if err := w.Do(ctx, func() { execErr = w.Exec("view", "4") }); err != nil || execErr != nil {
		t.Fatalf("Do(view) = %v / %v", err, execErr)
	}
	if err := w.Do(ctx, func() { snap = w.Snapshot() }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if snap.Monitors[0].Tags != 4 || snap.Clients[0].Visible {
		t.Fatalf("view through Do not applied: %+v", snap.Monitors[0])
	}

	fb.close()
	waitLoop(t, errc)
	if err := w.Do(ctx, func() {}); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Do() after exit = %v, want ErrNotRunning", err)
	}
}

func TestVerify_DetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(w *WM, c *Client)
	}{
		{name: "tagset outside mask", corrupt: func(w *WM, c *Client) { w.sel.Tagset[1] = 1 << 20 }},
		{name: "client without tags", corrupt: func(w *WM, c *Client) { c.Tags = 0 }},
		{name: "client missing from stack", corrupt: func(w *WM, c *Client) { w.sel.stack = w.sel.stack[1:] }},
		{name: "hidden selection", corrupt: func(w *WM, c *Client) { c.Tags = 2 }},
		{name: "fullscreen tiled", corrupt: func(w *WM, c *Client) { c.Fullscreen = true }},
		{name: "dangling selection", corrupt: func(w *WM, c *Client) { w.sel.Sel = 99 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			w := newTestWM(t, fb, nil)
			mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
			c := mapWindow(t, w, fb, 11, tiling.Rect{Width: 100, Height: 100})
			mustVerify(t, w)

			tt.corrupt(w, c)
			if err := w.Verify(); err == nil {
				t.Fatalf("Verify() passed on a corrupted state")
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	fb := newFakeBackend(
		tiling.Rect{Width: 1920, Height: 1080},
		tiling.Rect{X: 1920, Width: 1280, Height: 1024},
	)
	cfg := testConfig()
	cfg.GapPx = 4
	w := newTestWM(t, fb, cfg)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	c := mapWindow(t, w, fb, 11, tiling.Rect{Width: 100, Height: 100})
	c.Tags = 3

	s := w.Snapshot()
	if len(s.Monitors) != 2 || s.Gap != 4 {
		t.Fatalf("monitors=%d gap=%d", len(s.Monitors), s.Gap)
	}
	m0, m1 := s.Monitors[0], s.Monitors[1]
	if !m0.Selected || m1.Selected || m0.SelWindow != 11 {
		t.Fatalf("selection: %+v / %+v", m0, m1)
	}
	if m1.Tags != 2 || m1.Layout != "tile" || m0.Symbol != "[]=" {
		t.Fatalf("monitor 1 tags %#x layout %q, monitor 0 symbol %q", m1.Tags, m1.Layout, m0.Symbol)
	}
	if len(s.Clients) != 2 || s.Clients[0].Window != 11 || !s.Clients[0].Focused || s.Clients[1].Focused {
		t.Fatalf("clients %+v", s.Clients)
	}
	if s.Clients[0].Tags != 3 || !s.Clients[0].Visible || s.Clients[0].Monitor != 0 {
		t.Fatalf("client 11 state %+v", s.Clients[0])
	}
}
