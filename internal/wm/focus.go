package wm

import (
	"slices"

	"github.com/1broseidon/tagwm/internal/platform"
)

// focus gives input focus to c. A nil or hidden c is replaced by the most
// recently focused visible client of the selected monitor.
func (w *WM) focus(c *Client) {
	if c == nil || !w.visible(c) {
		c = w.firstVisible(w.sel)
	}
	if s := w.selected(); s != nil && s != c {
		w.unfocus(s, false)
	}
	if c != nil {
		if c.mon != w.sel {
			w.sel = c.mon
		}
		if c.Urgent {
			w.clearUrgent(c)
		}
		w.detachStack(c)
		w.attachStack(c)
		w.be.GrabButtons(c.Win, true, w.grabs)
		w.setBorder(c, platform.BorderFocused)
		w.setFocus(c)
		w.sel.Sel = c.ID
		return
	}
	w.be.FocusRoot()
	w.be.ClearActiveWindow()
	w.sel.Sel = 0
}

// unfocus restores the unfocused look of c and optionally hands input
// focus back to the root window.
func (w *WM) unfocus(c *Client, toRoot bool) {
	if c == nil {
		return
	}
	w.prevClient = c.ID
	w.be.GrabButtons(c.Win, false, w.grabs)
	w.setBorder(c, platform.BorderNormal)
	if toRoot {
		w.be.FocusRoot()
		w.be.ClearActiveWindow()
	}
}

func (w *WM) setFocus(c *Client) {
	if !c.NeverFocus {
		w.be.SetInputFocus(c.Win)
		w.be.SetActiveWindow(c.Win)
	}
	w.be.SendProtocol(c.Win, platform.ProtocolTakeFocus)
}

func (w *WM) setBorder(c *Client, scheme platform.BorderScheme) {
	if c.BW <= 0 {
		return
	}
	w.be.SetBorder(c.Win, scheme)
}

func (w *WM) clearUrgent(c *Client) {
	c.Urgent = false
	w.be.ClearUrgency(c.Win)
}

// focusStack moves focus along the client list among visible clients,
// wrapping at both ends.
func (w *WM) focusStack(dir int) {
	sel := w.selected()
	if sel == nil {
		return
	}
	if c := w.neighbour(sel, dir, w.visible); c != nil {
		w.focus(c)
		w.restack(w.sel)
	}
}

// neighbour finds the next (dir > 0) or previous client of sel's list that
// satisfies ok, wrapping around.
func (w *WM) neighbour(sel *Client, dir int, ok func(*Client) bool) *Client {
	ids := sel.mon.clients
	i := slices.Index(ids, sel.ID)
	if i < 0 {
		return nil
	}
	n := len(ids)
	step := 1
	if dir <= 0 {
		step = -1
	}
	for k := 1; k < n; k++ {
		c := w.reg.get(ids[((i+step*k)%n+n)%n])
		if c != nil && ok(c) {
			return c
		}
	}
	return nil
}

// moveStack swaps the selected client with the next or previous visible
// tiled client in the list.
func (w *WM) moveStack(dir int) {
	sel := w.selected()
	if sel == nil {
		return
	}
	c := w.neighbour(sel, dir, func(c *Client) bool { return w.visible(c) && !c.Floating })
	if c == nil || c == sel {
		return
	}
	ids := w.sel.clients
	i, j := slices.Index(ids, sel.ID), slices.Index(ids, c.ID)
	ids[i], ids[j] = ids[j], ids[i]
	w.arrange(w.sel)
}

// swapFocus returns focus to the previously focused client when it is
// still on the selected monitor.
func (w *WM) swapFocus() {
	c := w.reg.get(w.prevClient)
	if c == nil || !slices.Contains(w.sel.clients, c.ID) {
		return
	}
	w.focus(c)
	w.restack(c.mon)
}

// pop moves c to the head of its list, focuses and arranges.
func (w *WM) pop(c *Client) {
	w.detach(c)
	w.attach(c)
	w.focus(c)
	w.arrange(c.mon)
}

// zoom swaps the selected tiled client with the master, or promotes the
// next tiled client when the selection already is the master.
func (w *WM) zoom() {
	c := w.selected()
	if c == nil || c.Floating || !w.sel.Layout.Arranges() {
		return
	}
	tiled := w.tiled(w.sel)
	if len(tiled) > 0 && tiled[0] == c {
		if len(tiled) < 2 {
			return
		}
		c = tiled[1]
	}
	w.pop(c)
}

func (w *WM) focusMon(dir int) {
	if len(w.mons) < 2 {
		return
	}
	m := w.dirToMon(dir)
	if m == w.sel {
		return
	}
	w.unfocus(w.selected(), false)
	w.prev = w.sel
	w.sel = m
	w.focus(nil)
}

// focusMonWarp remembers the pointer position on the current monitor,
// switches monitors and warps to the position remembered there.
func (w *WM) focusMonWarp(dir int) {
	if c := w.selected(); c != nil {
		w.sel.lastX = c.Geom.X + c.Geom.Width/2
		w.sel.lastY = c.Geom.Y + c.Geom.Height/2
	}
	w.focusMon(dir)
	w.be.WarpPointer(platform.None, w.sel.lastX, w.sel.lastY)
}

// sendMon moves c to m, adopting m's active tagset.
func (w *WM) sendMon(c *Client, m *Monitor) {
	if c.mon == m {
		return
	}
	w.unfocus(c, true)
	w.detach(c)
	w.detachStack(c)
	c.mon = m
	c.Tags = m.Tags()
	w.attach(c)
	w.attachStack(c)
	w.focus(nil)
	w.arrange(nil)
}

func (w *WM) tagMon(dir int) {
	c := w.selected()
	if c == nil || len(w.mons) < 2 {
		return
	}
	w.sendMon(c, w.dirToMon(dir))
}
