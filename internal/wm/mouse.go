package wm

import (
	"github.com/1broseidon/tagwm/internal/movemode"
	"github.com/1broseidon/tagwm/internal/platform"
)

// moveMouse drags the selected client with the pointer until the button
// is released.
func (w *WM) moveMouse() {
	c := w.selected()
	if c == nil || c.Fullscreen {
		return
	}
	w.restack(w.sel)
	if !w.be.GrabPointer(platform.CursorMove) {
		return
	}
	x, y, ok := w.be.Pointer()
	if !ok {
		w.be.UngrabPointer()
		return
	}
	w.drag.Begin(movemode.PhaseMoving, c.Geom, c.BW, w.cfg.Snap, x, y)
	w.dragLoop(c, func(px, py int) {
		tiled := !c.Floating && w.sel.Layout.Arranges()
		step := w.drag.Move(px, py, c.Geom, w.sel.Work, tiled)
		if step.Promote {
			w.promote(c)
		}
		if !w.sel.Layout.Arranges() || c.Floating {
			w.resize(c, step.Rect, true)
		}
	})
	w.be.UngrabPointer()
	w.finishDrag(c)
}

// resizeMouse drags the bottom-right corner of the selected client.
func (w *WM) resizeMouse() {
	c := w.selected()
	if c == nil || c.Fullscreen {
		return
	}
	w.restack(w.sel)
	if !w.be.GrabPointer(platform.CursorResize) {
		return
	}
	cx, cy := movemode.Corner(c.Geom, c.BW)
	w.be.WarpPointer(c.Win, cx, cy)
	w.drag.Begin(movemode.PhaseResizing, c.Geom, c.BW, w.cfg.Snap, 0, 0)
	w.dragLoop(c, func(px, py int) {
		tiled := !c.Floating && w.sel.Layout.Arranges()
		step := w.drag.Resize(px, py, c.Geom, c.mon.Work, w.sel.Work, tiled)
		if step.Promote {
			w.promote(c)
		}
		if !w.sel.Layout.Arranges() || c.Floating {
			w.resize(c, step.Rect, true)
		}
	})
	if w.reg.get(c.ID) == c {
		cx, cy = movemode.Corner(c.Geom, c.BW)
		w.be.WarpPointer(c.Win, cx, cy)
	}
	w.be.UngrabPointer()
	w.discardEnter()
	w.finishDrag(c)
}

// dragLoop feeds pointer motion to motion until the button is released.
// Configure requests, exposures and map requests are handled meanwhile;
// every other event is queued for the main loop.
func (w *WM) dragLoop(c *Client, motion func(x, y int)) {
	var deferred []platform.Event
	defer func() {
		w.pending = append(deferred, w.pending...)
		w.drag.Reset()
	}()
	for {
		ev, ok := w.nextEvent()
		if !ok {
			return
		}
		switch e := ev.(type) {
		case platform.ConfigureRequest, platform.Expose, platform.MapRequest:
			w.dispatch(ev)
		case platform.MotionNotify:
			if w.reg.get(c.ID) == c {
				motion(e.RootX, e.RootY)
			}
		case platform.ButtonRelease:
			return
		case platform.Wake:
		default:
			deferred = append(deferred, ev)
		}
	}
}

// promote turns a dragged tiled client into a floating one.
func (w *WM) promote(c *Client) {
	c.Floating = true
	w.resize(c, c.Geom, false)
	w.arrange(c.mon)
}

// finishDrag hands c to the monitor it now mostly covers.
func (w *WM) finishDrag(c *Client) {
	if w.reg.get(c.ID) != c {
		return
	}
	if m := w.rectToMon(c.Geom); m != w.sel {
		w.sendMon(c, m)
		w.sel = m
		w.focus(nil)
	}
}
