package wm

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

const fakeRoot platform.WindowID = 1

type fakeWindow struct {
	attrs     platform.WindowAttributes
	title     string
	class     string
	instance  string
	transient platform.WindowID
	hints     tiling.NormalHints
	wmHints   *platform.WMHints
	wtype     platform.WindowType
	protocols map[platform.Protocol]bool
	state     platform.WMState
	hasState  bool

	geom       tiling.Rect
	border     int
	mapped     bool
	scheme     platform.BorderScheme
	fullscreen bool
}

// fakeBackend is an in-memory display. Scripted events are served in
// order; once they run out NextEvent blocks until Wake or close.
type fakeBackend struct {
	mu     sync.Mutex
	events []platform.Event
	wake   chan struct{}
	closed bool

	screen tiling.Rect
	heads  []tiling.Rect
	px, py int

	windows  map[platform.WindowID]*fakeWindow
	children []platform.WindowID

	focused    platform.WindowID
	active     platform.WindowID
	clientList []platform.WindowID
	raised     []platform.WindowID
	sent       []platform.Protocol
	killed     []platform.WindowID
	warps      [][3]int
	keyGrabs   []platform.KeyGrab
	barriers   []platform.Barrier
	grabbed    bool
	syncs      int
	// replays records the focused window at each pointer replay.
	replays []platform.WindowID
}

func newFakeBackend(heads ...tiling.Rect) *fakeBackend {
	if len(heads) == 0 {
		heads = []tiling.Rect{{Width: 1920, Height: 1080}}
	}
	screen := tiling.Rect{}
	for _, h := range heads {
		screen.Width = max(screen.Width, h.Right())
		screen.Height = max(screen.Height, h.Bottom())
	}
	return &fakeBackend{
		wake:    make(chan struct{}, 1),
		screen:  screen,
		heads:   heads,
		windows: make(map[platform.WindowID]*fakeWindow),
	}
}

// addWindow creates an unmapped window known to the display.
func (f *fakeBackend) addWindow(win platform.WindowID, r tiling.Rect) *fakeWindow {
	fw := &fakeWindow{
		attrs:     platform.WindowAttributes{Geometry: r},
		title:     "window",
		class:     "Test",
		instance:  "test",
		protocols: map[platform.Protocol]bool{},
		geom:      r,
	}
	f.windows[win] = fw
	f.children = append(f.children, win)
	return fw
}

func (f *fakeBackend) push(evs ...platform.Event) {
	f.mu.Lock()
	f.events = append(f.events, evs...)
	f.mu.Unlock()
	f.Wake()
}

func (f *fakeBackend) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.Wake()
}

func (f *fakeBackend) NextEvent() (platform.Event, bool) {
	for {
		f.mu.Lock()
		if len(f.events) > 0 {
			ev := f.events[0]
			f.events = f.events[1:]
			f.mu.Unlock()
			return ev, true
		}
		closed := f.closed
		f.mu.Unlock()
		if closed {
			return nil, false
		}
		<-f.wake
		f.mu.Lock()
		pending := len(f.events) > 0 || f.closed
		f.mu.Unlock()
		if !pending {
			return platform.Wake{}, true
		}
	}
}

func (f *fakeBackend) PollEvent() (platform.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil, false
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true
}

func (f *fakeBackend) Sync() { f.syncs++ }

func (f *fakeBackend) Wake() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *fakeBackend) Screen() tiling.Rect { return f.screen }

func (f *fakeBackend) Heads() ([]tiling.Rect, error) {
	return append([]tiling.Rect(nil), f.heads...), nil
}

func (f *fakeBackend) Root() platform.WindowID { return fakeRoot }

func (f *fakeBackend) Pointer() (int, int, bool) { return f.px, f.py, true }

func (f *fakeBackend) WarpPointer(win platform.WindowID, x, y int) {
	f.warps = append(f.warps, [3]int{int(win), x, y})
	if fw, ok := f.windows[win]; ok {
		x += fw.geom.X
		y += fw.geom.Y
	}
	f.px, f.py = x, y
}

func (f *fakeBackend) Children() ([]platform.WindowID, error) {
	return append([]platform.WindowID(nil), f.children...), nil
}

func (f *fakeBackend) Attributes(win platform.WindowID) (platform.WindowAttributes, error) {
	fw, ok := f.windows[win]
	if !ok {
		return platform.WindowAttributes{}, io.EOF
	}
	return fw.attrs, nil
}

func (f *fakeBackend) SelectClientInput(platform.WindowID) {}

func (f *fakeBackend) Configure(win platform.WindowID, r tiling.Rect, border int) {
	if fw, ok := f.windows[win]; ok {
		fw.geom = r
		fw.border = border
	}
}

func (f *fakeBackend) SendConfigure(platform.WindowID, tiling.Rect, int) {}

func (f *fakeBackend) ForwardConfigure(ev platform.ConfigureRequest) {
	fw, ok := f.windows[ev.Window]
	if !ok {
		return
	}
	if ev.Mask&platform.ConfigX != 0 {
		fw.geom.X = ev.X
	}
	if ev.Mask&platform.ConfigY != 0 {
		fw.geom.Y = ev.Y
	}
	if ev.Mask&platform.ConfigWidth != 0 {
		fw.geom.Width = ev.Width
	}
	if ev.Mask&platform.ConfigHeight != 0 {
		fw.geom.Height = ev.Height
	}
}

func (f *fakeBackend) Move(win platform.WindowID, x, y int) {
	if fw, ok := f.windows[win]; ok {
		fw.geom.X, fw.geom.Y = x, y
	}
}

func (f *fakeBackend) SetBorderWidth(win platform.WindowID, border int) {
	if fw, ok := f.windows[win]; ok {
		fw.border = border
	}
}

func (f *fakeBackend) SetBorder(win platform.WindowID, scheme platform.BorderScheme) {
	if fw, ok := f.windows[win]; ok {
		fw.scheme = scheme
	}
}

func (f *fakeBackend) Raise(win platform.WindowID) { f.raised = append(f.raised, win) }

func (f *fakeBackend) StackBelow(platform.WindowID, platform.WindowID) {}

func (f *fakeBackend) Map(win platform.WindowID) {
	if fw, ok := f.windows[win]; ok {
		fw.mapped = true
		fw.attrs.Viewable = true
	}
}

func (f *fakeBackend) SetInputFocus(win platform.WindowID) { f.focused = win }
func (f *fakeBackend) FocusRoot()                          { f.focused = fakeRoot }
func (f *fakeBackend) SetActiveWindow(win platform.WindowID) {
	f.active = win
}
func (f *fakeBackend) ClearActiveWindow() { f.active = platform.None }

func (f *fakeBackend) SetClientList(wins []platform.WindowID) {
	f.clientList = append([]platform.WindowID(nil), wins...)
}

func (f *fakeBackend) SendProtocol(win platform.WindowID, p platform.Protocol) bool {
	fw, ok := f.windows[win]
	if !ok || !fw.protocols[p] {
		return false
	}
	f.sent = append(f.sent, p)
	return true
}

func (f *fakeBackend) Kill(win platform.WindowID) { f.killed = append(f.killed, win) }

func (f *fakeBackend) SetWMState(win platform.WindowID, state platform.WMState) {
	if fw, ok := f.windows[win]; ok {
		fw.state = state
		fw.hasState = true
	}
}

func (f *fakeBackend) WMState(win platform.WindowID) (platform.WMState, bool) {
	fw, ok := f.windows[win]
	if !ok || !fw.hasState {
		return 0, false
	}
	return fw.state, true
}

func (f *fakeBackend) SetFullscreenState(win platform.WindowID, on bool) {
	if fw, ok := f.windows[win]; ok {
		fw.fullscreen = on
	}
}

func (f *fakeBackend) Title(win platform.WindowID) string {
	if fw, ok := f.windows[win]; ok {
		return fw.title
	}
	return ""
}

func (f *fakeBackend) Class(win platform.WindowID) (string, string) {
	if fw, ok := f.windows[win]; ok {
		return fw.class, fw.instance
	}
	return "", ""
}

func (f *fakeBackend) TransientFor(win platform.WindowID) (platform.WindowID, bool) {
	if fw, ok := f.windows[win]; ok && fw.transient != platform.None {
		return fw.transient, true
	}
	return platform.None, false
}

func (f *fakeBackend) NormalHints(win platform.WindowID) (tiling.NormalHints, bool) {
	if fw, ok := f.windows[win]; ok {
		return fw.hints, true
	}
	return tiling.NormalHints{}, false
}

func (f *fakeBackend) WMHints(win platform.WindowID) (platform.WMHints, bool) {
	if fw, ok := f.windows[win]; ok && fw.wmHints != nil {
		return *fw.wmHints, true
	}
	return platform.WMHints{}, false
}

func (f *fakeBackend) ClearUrgency(win platform.WindowID) {
	if fw, ok := f.windows[win]; ok && fw.wmHints != nil {
		fw.wmHints.Urgent = false
	}
}

func (f *fakeBackend) WindowType(win platform.WindowID) platform.WindowType {
	if fw, ok := f.windows[win]; ok {
		return fw.wtype
	}
	return platform.WindowType{}
}

func (f *fakeBackend) GrabKeys(keys []platform.KeyGrab) {
	f.keyGrabs = append([]platform.KeyGrab(nil), keys...)
}
func (f *fakeBackend) UngrabKeys()       { f.keyGrabs = nil }
func (f *fakeBackend) RefreshKeyboard()  {}
func (f *fakeBackend) GrabButtons(platform.WindowID, bool, []platform.ButtonGrab) {}
func (f *fakeBackend) ReplayPointer()                                              { f.replays = append(f.replays, f.focused) }
func (f *fakeBackend) UngrabButtons(platform.WindowID)                           {}

func (f *fakeBackend) GrabPointer(platform.Cursor) bool {
	f.grabbed = true
	return true
}
func (f *fakeBackend) UngrabPointer() { f.grabbed = false }
func (f *fakeBackend) GrabServer()    {}
func (f *fakeBackend) UngrabServer()  {}

func (f *fakeBackend) CleanMask(state uint16) uint16 {
	return state & platform.ModAllKeys &^ (platform.ModLock | platform.Mod2)
}

func (f *fakeBackend) SetBarriers(bs []platform.Barrier) {
	f.barriers = append([]platform.Barrier(nil), bs...)
}

var _ platform.Backend = (*fakeBackend)(nil)

// testConfig is the default configuration with round numbers: one pixel
// borders, no gaps and no bar.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BorderPx = 1
	cfg.GapPx = 0
	cfg.BarHeight = 0
	cfg.Rules = nil
	return cfg
}

func newTestWM(t *testing.T, fb *fakeBackend, cfg *config.Config) *WM {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	w, err := New(fb, Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Spawn:  func([]string) error { return nil },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	w.Start()
	return w
}

// mapWindow makes win appear and asks the window manager to map it.
func mapWindow(t *testing.T, w *WM, fb *fakeBackend, win platform.WindowID, r tiling.Rect) *Client {
	t.Helper()
	if _, ok := fb.windows[win]; !ok {
		fb.addWindow(win, r)
	}
	w.dispatch(platform.MapRequest{Window: win})
	c := w.reg.byWindow(win)
	if c == nil {
		t.Fatalf("window %d was not managed", win)
	}
	return c
}

func mustVerify(t *testing.T, w *WM) {
	t.Helper()
	if err := w.Verify(); err != nil {
		t.Fatalf("invariants violated:\n%v", err)
	}
}
