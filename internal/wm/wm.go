// Package wm implements the window manager core: the client and monitor
// registry, tag visibility, focus, layouts, interactive move/resize,
// window admission and removal, and the event loop tying them together.
package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/movemode"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

var (
	// ErrNotRunning is returned by Do when the event loop is not running.
	ErrNotRunning = errors.New("event loop is not running")
	// ErrConnectionClosed is returned by Run when the display connection ends.
	ErrConnectionClosed = errors.New("display connection closed")
)

// Options configure a window manager instance.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	// Spawn launches a command without waiting for it. Nil uses a detached
	// child process.
	Spawn func(argv []string) error
}

// WM is the window manager context. All fields are owned by the event loop
// goroutine; other goroutines interact through Do.
type WM struct {
	be     platform.Backend
	cfg    *config.Config
	logger *slog.Logger
	spawn  func(argv []string) error

	layouts   []tiling.Layout
	tagMask   uint32
	ntags     int
	gap       int
	barHeight int
	keys      []keyBinding
	buttons   []buttonBinding
	grabs     []platform.ButtonGrab

	screen tiling.Rect
	mons   []*Monitor
	sel    *Monitor
	prev   *Monitor
	// motionMon is the monitor the pointer was last seen on.
	motionMon *Monitor

	reg        registry
	prevClient ClientID

	drag    *movemode.State
	pending []platform.Event

	handlers [platform.NumKinds]func(platform.Event)

	running bool
	restart bool

	cmds chan func()
	done chan struct{}
}

// New builds a window manager over backend. The configuration must be
// validated.
func New(backend platform.Backend, opts Options) (*WM, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("wm: nil config")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	spawn := opts.Spawn
	if spawn == nil {
		spawn = spawnDetached
	}
	cfg := opts.Config

	w := &WM{
		be:        backend,
		cfg:       cfg,
		logger:    logger,
		spawn:     spawn,
		layouts:   cfg.TiledLayouts(),
		tagMask:   cfg.TagMask(),
		ntags:     len(cfg.Tags),
		gap:       cfg.GapPx,
		barHeight: cfg.BarHeight,
		reg:       newRegistry(),
		drag:      movemode.NewState(),
		cmds:      make(chan func(), 16),
		done:      make(chan struct{}),
	}
	if len(w.layouts) == 0 {
		return nil, fmt.Errorf("wm: no layouts configured")
	}
	if err := w.loadBindings(); err != nil {
		return nil, err
	}
	w.initHandlers()
	return w, nil
}

// Start discovers outputs, grabs keys and adopts existing windows.
func (w *WM) Start() {
	w.screen = w.be.Screen()
	w.updateGeom()
	w.grabKeys()
	w.focus(nil)
	w.scan()
	w.running = true
	w.logger.Info("window manager started",
		"monitors", len(w.mons), "clients", len(w.reg.clients))
}

// Run processes events until quit or restart is requested, ctx is done or
// the connection is lost. Start must have been called.
func (w *WM) Run(ctx context.Context) error {
	defer close(w.done)
	stop := context.AfterFunc(ctx, w.be.Wake)
	defer stop()

	w.be.Sync()
	for w.running {
		if ctx.Err() != nil {
			w.logger.Info("event loop cancelled")
			return nil
		}
		ev, ok := w.nextEvent()
		if !ok {
			return ErrConnectionClosed
		}
		w.dispatch(ev)
		w.drainCommands()
	}
	return nil
}

// Restarting reports whether the loop ended because of a restart request.
func (w *WM) Restarting() bool { return w.restart }

// Do runs fn on the event loop goroutine and waits for it to finish.
func (w *WM) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}
	select {
	case w.cmds <- job:
	case <-w.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	w.be.Wake()
	select {
	case <-finished:
		return nil
	case <-w.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *WM) drainCommands() {
	for {
		select {
		case job := <-w.cmds:
			job()
		default:
			return
		}
	}
}

func (w *WM) nextEvent() (platform.Event, bool) {
	if len(w.pending) > 0 {
		ev := w.pending[0]
		w.pending = w.pending[1:]
		return ev, true
	}
	return w.be.NextEvent()
}

// discardEnter drops every queued pointer crossing event so restacking
// does not move focus under a still pointer.
func (w *WM) discardEnter() {
	w.be.Sync()
	w.pending = slices.DeleteFunc(w.pending, isEnter)
	for {
		ev, ok := w.be.PollEvent()
		if !ok {
			return
		}
		if !isEnter(ev) {
			w.pending = append(w.pending, ev)
		}
	}
}

func isEnter(ev platform.Event) bool {
	return ev.Kind() == platform.KindEnterNotify
}

// Cleanup releases every client and restores the display for the next
// window manager.
func (w *WM) Cleanup() {
	w.view(^uint32(0))
	if w.sel != nil {
		w.sel.Layout = tiling.Layout{}
	}
	for _, m := range w.mons {
		for len(m.stack) > 0 {
			w.unmanage(w.reg.get(m.stack[0]), false)
		}
	}
	w.be.UngrabKeys()
	if w.cfg.Barriers {
		w.be.SetBarriers(nil)
	}
	w.be.Sync()
	w.be.FocusRoot()
	w.be.ClearActiveWindow()
	w.logger.Info("window manager stopped", "restart", w.restart)
}
