package wm

import (
	"testing"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

func TestConfigureRequest(t *testing.T) {
	all := platform.ConfigX | platform.ConfigY | platform.ConfigWidth | platform.ConfigHeight

	t.Run("unmanaged window is forwarded", func(t *testing.T) {
		fb := newFakeBackend()
		w := newTestWM(t, fb, nil)
		fb.addWindow(20, tiling.Rect{Width: 10, Height: 10})

		w.dispatch(platform.ConfigureRequest{Window: 20, Mask: platform.ConfigX | platform.ConfigWidth, X: 40, Width: 300})
		if got := fb.windows[20].geom; got.X != 40 || got.Width != 300 {
			t.Fatalf("forwarded geometry %+v", got)
		}
	})

	t.Run("tiled client keeps its geometry", func(t *testing.T) {
		fb := newFakeBackend()
		w := newTestWM(t, fb, nil)
		c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
		before := c.Geom

		w.dispatch(platform.ConfigureRequest{Window: 10, Mask: all, X: 5, Y: 5, Width: 50, Height: 50})
		if c.Geom != before || fb.windows[10].geom != before {
			t.Fatalf("tiled client resized to %+v", c.Geom)
		}
	})

	t.Run("floating client is honoured", func(t *testing.T) {
		fb := newFakeBackend()
		w := newTestWM(t, fb, nil)
		c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
		w.toggleFloating()

		w.dispatch(platform.ConfigureRequest{Window: 10, Mask: all, X: 100, Y: 100, Width: 300, Height: 200})
		want := tiling.Rect{X: 100, Y: 100, Width: 300, Height: 200}
		if c.Geom != want || fb.windows[10].geom != want {
			t.Fatalf("geometry %+v, want %+v", c.Geom, want)
		}
	})

	t.Run("overflowing floating client is centred", func(t *testing.T) {
		fb := newFakeBackend()
		w := newTestWM(t, fb, nil)
		c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
		w.toggleFloating()

		w.dispatch(platform.ConfigureRequest{Window: 10, Mask: all, X: 1800, Y: 10, Width: 400, Height: 200})
		if c.Geom.X != 759 || c.Geom.Y != 10 {
			t.Fatalf("position (%d,%d), want (759,10)", c.Geom.X, c.Geom.Y)
		}
	})

	t.Run("border width is recorded", func(t *testing.T) {
		fb := newFakeBackend()
		w := newTestWM(t, fb, nil)
		c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

		w.dispatch(platform.ConfigureRequest{Window: 10, Mask: platform.ConfigBorderWidth, BorderWidth: 5})
		if c.BW != 5 {
			t.Fatalf("border width %d, want 5", c.BW)
		}
	})
}

func TestKeyPress_IgnoresLockModifiers(t *testing.T) {
	tests := []struct {
		name  string
		state uint16
	}{
		{name: "plain", state: platform.Mod1},
		{name: "num lock", state: platform.Mod1 | platform.Mod2},
		{name: "caps lock", state: platform.Mod1 | platform.ModLock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, cs := mapThree(t)
			w.dispatch(platform.KeyPress{Keysym: "j", State: tt.state})
			if w.selected() != cs[1] {
				t.Fatalf("selected window %d, want 11", w.selected().Win)
			}
		})
	}
}

func TestKeyPress_TagKeys(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	w.dispatch(platform.KeyPress{Keysym: "3", State: platform.Mod1 | platform.ModShift})
	if c.Tags != 4 {
		t.Fatalf("tags = %#x, want 4", c.Tags)
	}
	w.dispatch(platform.KeyPress{Keysym: "3", State: platform.Mod1})
	if w.sel.Tags() != 4 || w.selected() != c {
		t.Fatalf("view did not follow the client")
	}
	w.dispatch(platform.KeyPress{Keysym: "1", State: platform.Mod1 | platform.ModControl})
	if w.sel.Tags() != 5 {
		t.Fatalf("toggleview tags = %#x, want 5", w.sel.Tags())
	}
	w.dispatch(platform.KeyPress{Keysym: "1", State: platform.Mod1 | platform.ModControl | platform.ModShift})
	if c.Tags != 5 {
		t.Fatalf("toggletag tags = %#x, want 5", c.Tags)
	}
	w.dispatch(platform.KeyPress{Keysym: "3", State: platform.Mod4})
	if c.Tags != 5 || w.sel.Tags() != 5 {
		t.Fatalf("unbound key changed state")
	}
	mustVerify(t, w)
}

func TestButtonPress(t *testing.T) {
	w, _, cs := mapThree(t)

	w.dispatch(platform.ButtonPress{Window: 10, Button: 1})
	if w.selected() != cs[0] {
		t.Fatalf("click did not focus window 10")
	}
	if cs[0].Floating {
		t.Fatalf("plain click ran a binding")
	}

	w.dispatch(platform.ButtonPress{Window: 10, Button: 2, State: platform.Mod1 | platform.Mod2})
	if !cs[0].Floating {
		t.Fatalf("Mod1-button2 did not toggle floating")
	}
	mustVerify(t, w)
}

func TestButtonPress_ReplaysAfterFocus(t *testing.T) {
	w, fb, cs := mapThree(t)
	fb.replays = nil

	// A press drained while discarding crossings is queued, not replayed.
	fb.push(platform.ButtonPress{Window: cs[0].Win, Button: 1})
	w.discardEnter()
	if len(fb.replays) != 0 {
		t.Fatalf("pointer replayed before the press was handled: %v", fb.replays)
	}
	if len(w.pending) != 1 {
		t.Fatalf("pending = %d events, want the queued press", len(w.pending))
	}

	ev := w.pending[0]
	w.pending = w.pending[1:]
	w.dispatch(ev)
	if len(fb.replays) != 1 || fb.replays[0] != cs[0].Win {
		t.Fatalf("replays = %v, want one replay after focusing %#x", fb.replays, cs[0].Win)
	}

	w.dispatch(platform.ButtonPress{Window: fakeRoot, Button: 1})
	if len(fb.replays) != 1 {
		t.Fatalf("root click replayed the pointer: %v", fb.replays)
	}
}

func TestEnterNotify_FocusFollowsPointer(t *testing.T) {
	w, _, cs := mapThree(t)

	w.dispatch(platform.EnterNotify{Window: 10, Normal: false})
	if w.selected() != cs[2] {
		t.Fatalf("grab crossing changed focus")
	}
	w.dispatch(platform.EnterNotify{Window: 10, Normal: true, Inferior: true})
	if w.selected() != cs[2] {
		t.Fatalf("inferior crossing changed focus")
	}
	w.dispatch(platform.EnterNotify{Window: 10, Normal: true})
	if w.selected() != cs[0] {
		t.Fatalf("entering window 10 did not focus it")
	}
}

func TestMotionNotify_SwitchesMonitor(t *testing.T) {
	fb := newFakeBackend(
		tiling.Rect{Width: 1920, Height: 1080},
		tiling.Rect{X: 1920, Width: 1280, Height: 1024},
	)
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	w.dispatch(platform.MotionNotify{Window: fakeRoot, RootX: 100, RootY: 100})
	if w.sel != w.mons[0] {
		t.Fatalf("first motion changed monitor")
	}
	w.dispatch(platform.MotionNotify{Window: 10, RootX: 2000, RootY: 100})
	if w.sel != w.mons[0] {
		t.Fatalf("motion over a client window changed monitor")
	}
	w.dispatch(platform.MotionNotify{Window: fakeRoot, RootX: 2000, RootY: 100})
	if w.sel != w.mons[1] {
		t.Fatalf("selected monitor %d, want 1", w.sel.Num)
	}
	if fb.windows[10].scheme != platform.BorderNormal || fb.focused != fakeRoot {
		t.Fatalf("client on the old monitor kept focus")
	}
	if w.mons[0].Sel != c.ID {
		t.Fatalf("old monitor forgot its selection")
	}
}

func TestPropertyNotify(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	parent := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	c := mapWindow(t, w, fb, 11, tiling.Rect{Width: 100, Height: 100})

	fb.windows[11].title = "renamed"
	w.dispatch(platform.PropertyNotify{Window: 11, Prop: platform.PropName})
	if c.Name != "renamed" {
		t.Fatalf("title %q, want renamed", c.Name)
	}
	fb.windows[11].title = "gone"
	w.dispatch(platform.PropertyNotify{Window: 11, Prop: platform.PropName, Deleted: true})
	if c.Name != "renamed" {
		t.Fatalf("deleted property was read")
	}

	fb.windows[11].transient = parent.Win
	w.dispatch(platform.PropertyNotify{Window: 11, Prop: platform.PropTransientFor})
	if !c.Floating {
		t.Fatalf("client with a managed parent not floating")
	}

	fb.windows[10].hints = tiling.NormalHints{HasMin: true, MinW: 50, MinH: 50, HasMax: true, MaxW: 50, MaxH: 50}
	w.dispatch(platform.PropertyNotify{Window: 10, Prop: platform.PropNormalHints})
	if !parent.Fixed {
		t.Fatalf("size hints not re-read")
	}

	fb.windows[10].wtype.Fullscreen = true
	w.dispatch(platform.PropertyNotify{Window: 10, Prop: platform.PropWindowType})
	if !parent.Fullscreen || parent.Geom != w.sel.Screen {
		t.Fatalf("fullscreen window type ignored: %+v", parent.Geom)
	}
	mustVerify(t, w)
}

func TestStateRequest_Fullscreen(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	tiled := c.Geom

	w.dispatch(platform.StateRequest{Window: 10, Action: platform.StateToggle})
	if !c.Fullscreen || c.BW != 0 || !fb.windows[10].fullscreen || c.Geom != w.sel.Screen {
		t.Fatalf("toggle did not enter fullscreen: %+v bw=%d", c.Geom, c.BW)
	}
	w.dispatch(platform.StateRequest{Window: 10, Action: platform.StateAdd})
	w.dispatch(platform.StateRequest{Window: 10, Action: platform.StateRemove})
	if c.Fullscreen || c.Floating || c.BW != 1 || c.Geom != tiled {
		t.Fatalf("state after leaving fullscreen: floating=%t bw=%d %+v", c.Floating, c.BW, c.Geom)
	}
}

func TestActivateRequest_RevealsHiddenClient(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	c := mapWindow(t, w, fb, 11, tiling.Rect{Width: 100, Height: 100})
	w.tag(1 << 4)

	w.dispatch(platform.ActivateRequest{Window: 11})
	if w.sel.Tags() != 1<<4 {
		t.Fatalf("tagset %#x, want the client's tags", w.sel.Tags())
	}
	if w.selected() != c || fb.focused != 11 {
		t.Fatalf("activated client not focused")
	}
	w.view(0)
	if w.sel.Tags() != 1 {
		t.Fatalf("previous tagset lost: %#x", w.sel.Tags())
	}
	mustVerify(t, w)
}

func TestFocusIn_ReassertsSelection(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	fb.focused = 99
	w.dispatch(platform.FocusIn{Window: 99})
	if fb.focused != 10 {
		t.Fatalf("focus on %d, want 10", fb.focused)
	}
}

func TestMappingNotify_RegrabsKeys(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	want := len(fb.keyGrabs)
	if want == 0 {
		t.Fatalf("no keys grabbed at start")
	}

	fb.keyGrabs = nil
	w.dispatch(platform.MappingNotify{Keyboard: false})
	if fb.keyGrabs != nil {
		t.Fatalf("pointer mapping change regrabbed keys")
	}
	w.dispatch(platform.MappingNotify{Keyboard: true})
	if len(fb.keyGrabs) != want {
		t.Fatalf("%d keys grabbed, want %d", len(fb.keyGrabs), want)
	}
}

func TestBarriers(t *testing.T) {
	fb := newFakeBackend()
	cfg := testConfig()
	cfg.Barriers = true
	cfg.BarHeight = 32
	w := newTestWM(t, fb, cfg)

	if len(fb.barriers) != 4 {
		t.Fatalf("%d barriers, want 4", len(fb.barriers))
	}
	want := platform.Barrier{X1: 0, Y1: 33, X2: 1919, Y2: 33, Direction: platform.BarrierPositiveY}
	if fb.barriers[0] != want {
		t.Fatalf("top barrier %+v, want %+v", fb.barriers[0], want)
	}

	w.toggleBar()
	if len(fb.barriers) != 0 {
		t.Fatalf("%d barriers with the bar hidden", len(fb.barriers))
	}
}

func TestScreenChange_MigratesClients(t *testing.T) {
	fb := newFakeBackend(
		tiling.Rect{Width: 1920, Height: 1080},
		tiling.Rect{X: 1920, Width: 1280, Height: 1024},
	)
	w := newTestWM(t, fb, nil)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})
	w.focusMon(1)
	c := mapWindow(t, w, fb, 11, tiling.Rect{X: 2000, Width: 100, Height: 100})
	if c.mon != w.mons[1] {
		t.Fatalf("setup: client on monitor %d", c.mon.Num)
	}
	tags := c.Tags

	fb.heads = fb.heads[:1]
	w.dispatch(platform.ScreenChange{Width: 1920, Height: 1080})
	if len(w.mons) != 1 || w.sel != w.mons[0] {
		t.Fatalf("%d monitors after unplug", len(w.mons))
	}
	if c.mon != w.mons[0] || c.Tags != tags {
		t.Fatalf("migrated client: monitor %d tags %#x, want tags %#x", c.mon.Num, c.Tags, tags)
	}
	mustVerify(t, w)

	// Nothing changed, nothing to do.
	syncs := fb.syncs
	w.dispatch(platform.ConfigureNotify{Window: fakeRoot, Width: 1920, Height: 1080})
	if fb.syncs != syncs {
		t.Fatalf("unchanged topology re-arranged")
	}
}
