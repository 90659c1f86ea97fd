package wm

import (
	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// initHandlers fills the dispatch table. Kinds without a handler are
// ignored.
func (w *WM) initHandlers() {
	on := func(k platform.EventKind, fn func(platform.Event)) { w.handlers[k] = fn }

	on(platform.KindMapRequest, func(ev platform.Event) { w.mapRequest(ev.(platform.MapRequest)) })
	on(platform.KindConfigureRequest, func(ev platform.Event) { w.configureRequest(ev.(platform.ConfigureRequest)) })
	on(platform.KindConfigureNotify, func(ev platform.Event) {
		e := ev.(platform.ConfigureNotify)
		if e.Window == w.be.Root() {
			w.screenChanged(e.Width, e.Height)
		}
	})
	on(platform.KindScreenChange, func(ev platform.Event) {
		e := ev.(platform.ScreenChange)
		w.screenChanged(e.Width, e.Height)
	})
	on(platform.KindDestroyNotify, func(ev platform.Event) {
		w.unmanage(w.reg.byWindow(ev.(platform.DestroyNotify).Window), true)
	})
	on(platform.KindUnmapNotify, func(ev platform.Event) { w.unmapNotify(ev.(platform.UnmapNotify)) })
	on(platform.KindEnterNotify, func(ev platform.Event) { w.enterNotify(ev.(platform.EnterNotify)) })
	on(platform.KindMotionNotify, func(ev platform.Event) { w.motionNotify(ev.(platform.MotionNotify)) })
	on(platform.KindButtonPress, func(ev platform.Event) { w.buttonPress(ev.(platform.ButtonPress)) })
	on(platform.KindKeyPress, func(ev platform.Event) { w.keyPress(ev.(platform.KeyPress)) })
	on(platform.KindPropertyNotify, func(ev platform.Event) { w.propertyNotify(ev.(platform.PropertyNotify)) })
	on(platform.KindStateRequest, func(ev platform.Event) { w.stateRequest(ev.(platform.StateRequest)) })
	on(platform.KindActivateRequest, func(ev platform.Event) {
		if c := w.reg.byWindow(ev.(platform.ActivateRequest).Window); c != nil {
			w.activate(c)
		}
	})
	on(platform.KindFocusIn, func(ev platform.Event) {
		// some clients grab focus on their own
		if c := w.selected(); c != nil && ev.(platform.FocusIn).Window != c.Win {
			w.setFocus(c)
		}
	})
	on(platform.KindMappingNotify, func(ev platform.Event) {
		w.be.RefreshKeyboard()
		if ev.(platform.MappingNotify).Keyboard {
			w.grabKeys()
		}
	})
}

// dispatch routes ev to its handler.
func (w *WM) dispatch(ev platform.Event) {
	if ev == nil {
		return
	}
	k := ev.Kind()
	if k < 0 || int(k) >= len(w.handlers) {
		return
	}
	if h := w.handlers[k]; h != nil {
		h(ev)
	}
}

func (w *WM) mapRequest(e platform.MapRequest) {
	attrs, err := w.be.Attributes(e.Window)
	if err != nil || attrs.OverrideRedirect {
		return
	}
	if w.reg.byWindow(e.Window) == nil {
		w.manage(e.Window, attrs)
	}
}

// configureRequest grants floating clients what they ask for, answers
// tiled clients with their current geometry and forwards requests of
// unmanaged windows unchanged.
func (w *WM) configureRequest(e platform.ConfigureRequest) {
	c := w.reg.byWindow(e.Window)
	if c == nil {
		w.be.ForwardConfigure(e)
		w.be.Sync()
		return
	}
	switch {
	case e.Mask&platform.ConfigBorderWidth != 0:
		c.BW = e.BorderWidth
	case c.Floating || !w.sel.Layout.Arranges():
		m := c.mon
		if e.Mask&platform.ConfigX != 0 {
			c.Old.X = c.Geom.X
			c.Geom.X = m.Screen.X + e.X
		}
		if e.Mask&platform.ConfigY != 0 {
			c.Old.Y = c.Geom.Y
			c.Geom.Y = m.Screen.Y + e.Y
		}
		if e.Mask&platform.ConfigWidth != 0 {
			c.Old.Width = c.Geom.Width
			c.Geom.Width = e.Width
		}
		if e.Mask&platform.ConfigHeight != 0 {
			c.Old.Height = c.Geom.Height
			c.Geom.Height = e.Height
		}
		if c.Geom.X+c.Geom.Width > m.Screen.Right() && c.Floating {
			c.Geom.X = m.Screen.X + (m.Screen.Width/2 - c.outer().Width/2)
		}
		if c.Geom.Y+c.Geom.Height > m.Screen.Bottom() && c.Floating {
			c.Geom.Y = m.Screen.Y + (m.Screen.Height/2 - c.outer().Height/2)
		}
		moved := e.Mask&(platform.ConfigX|platform.ConfigY) != 0
		sized := e.Mask&(platform.ConfigWidth|platform.ConfigHeight) != 0
		if moved && !sized {
			w.configure(c)
		}
		if w.visible(c) {
			w.be.Configure(c.Win, c.Geom, c.BW)
		}
	default:
		w.configure(c)
	}
	w.be.Sync()
}

// screenChanged re-reads the output topology after the root window or
// the RandR configuration changed.
func (w *WM) screenChanged(width, height int) {
	dirty := w.screen.Width != width || w.screen.Height != height
	w.screen.Width, w.screen.Height = width, height
	if !w.updateGeom() && !dirty {
		return
	}
	for _, c := range w.reg.clients {
		if c.Fullscreen {
			w.resizeClient(c, c.mon.Screen)
		}
	}
	w.logger.Info("output topology changed", "monitors", len(w.mons),
		"width", width, "height", height)
	w.focus(nil)
	w.arrange(nil)
}

func (w *WM) unmapNotify(e platform.UnmapNotify) {
	c := w.reg.byWindow(e.Window)
	if c == nil {
		return
	}
	if e.SendEvent {
		w.be.SetWMState(c.Win, platform.StateWithdrawn)
		return
	}
	w.unmanage(c, false)
}

// enterNotify focuses the client under the pointer and follows the pointer
// across monitors.
func (w *WM) enterNotify(e platform.EnterNotify) {
	root := w.be.Root()
	if (!e.Normal || e.Inferior) && e.Window != root {
		return
	}
	c := w.reg.byWindow(e.Window)
	m := w.winToMon(e.Window)
	if c != nil {
		m = c.mon
	}
	if m != w.sel {
		w.unfocus(w.selected(), true)
		w.sel = m
	} else if c == nil || c == w.selected() {
		return
	}
	w.focus(c)
}

func (w *WM) motionNotify(e platform.MotionNotify) {
	if e.Window != w.be.Root() {
		return
	}
	m := w.rectToMon(tiling.Rect{X: e.RootX, Y: e.RootY, Width: 1, Height: 1})
	if w.motionMon != nil && m != w.motionMon {
		w.unfocus(w.selected(), true)
		w.sel = m
		w.focus(nil)
	}
	w.motionMon = m
}

func (w *WM) buttonPress(e platform.ButtonPress) {
	click := config.ClickRoot
	if m := w.winToMon(e.Window); m != w.sel {
		w.unfocus(w.selected(), true)
		w.sel = m
		w.focus(nil)
	}
	if c := w.reg.byWindow(e.Window); c != nil {
		w.focus(c)
		w.restack(w.sel)
		w.be.ReplayPointer()
		click = config.ClickClient
	}
	state := w.be.CleanMask(e.State)
	for _, b := range w.buttons {
		if b.click == click && b.button == e.Button && w.be.CleanMask(b.mods) == state {
			if err := w.run(b.action, b.arg); err != nil {
				w.logger.Debug("button action failed", "action", b.action, "error", err)
			}
		}
	}
}

func (w *WM) keyPress(e platform.KeyPress) {
	state := w.be.CleanMask(e.State)
	for _, k := range w.keys {
		if k.keysym == e.Keysym && w.be.CleanMask(k.mods) == state {
			if err := w.run(k.action, k.arg); err != nil {
				w.logger.Debug("key action failed", "action", k.action, "error", err)
			}
		}
	}
}

func (w *WM) propertyNotify(e platform.PropertyNotify) {
	if e.Deleted {
		return
	}
	c := w.reg.byWindow(e.Window)
	if c == nil {
		return
	}
	switch e.Prop {
	case platform.PropTransientFor:
		if parent, ok := w.be.TransientFor(c.Win); ok && !c.Floating && w.reg.byWindow(parent) != nil {
			c.Floating = true
			w.arrange(c.mon)
		}
	case platform.PropNormalHints:
		w.updateSizeHints(c)
	case platform.PropHints:
		w.updateWMHints(c)
	case platform.PropName:
		w.updateTitle(c)
	case platform.PropWindowType:
		w.updateWindowType(c)
	}
}

func (w *WM) stateRequest(e platform.StateRequest) {
	c := w.reg.byWindow(e.Window)
	if c == nil {
		return
	}
	switch e.Action {
	case platform.StateAdd:
		w.setFullscreen(c, true)
	case platform.StateRemove:
		w.setFullscreen(c, false)
	case platform.StateToggle:
		w.setFullscreen(c, !c.Fullscreen)
	}
}

// activate brings c into view, switching its monitor to c's tags when it
// is hidden.
func (w *WM) activate(c *Client) {
	if !w.visible(c) {
		m := c.mon
		m.SelTags ^= 1
		m.Tagset[m.SelTags] = c.Tags
	}
	w.pop(c)
}
