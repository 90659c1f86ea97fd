package wm

import (
	"slices"

	"github.com/1broseidon/tagwm/internal/movemode"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// Monitor is one output and its workspace state.
type Monitor struct {
	Num int
	// Screen is the output rectangle, Work the part left after the bar strip.
	Screen tiling.Rect
	Work   tiling.Rect
	BarY   int

	ShowBar bool
	TopBar  bool

	Tagset  [2]uint32
	SelTags int

	MFact      float64
	NMaster    int
	NMasterMax int
	Layout     tiling.Layout
	Symbol     string
	// prevLayout is the layout an argumentless setlayout returns to.
	prevLayout tiling.Layout

	Sel ClientID

	// clients is insertion ordered (newest first), stack is focus ordered.
	clients []ClientID
	stack   []ClientID

	// last pointer position used by focusmonwarp
	lastX, lastY int
}

// Tags returns the active tagset.
func (m *Monitor) Tags() uint32 { return m.Tagset[m.SelTags] }

// Clients returns the insertion ordered client handles.
func (m *Monitor) Clients() []ClientID { return slices.Clone(m.clients) }

// Stack returns the focus ordered client handles.
func (m *Monitor) Stack() []ClientID { return slices.Clone(m.stack) }

func (w *WM) createMon(index int, multi bool) *Monitor {
	tags := w.cfg.StartupTags & w.tagMask
	if multi && index < len(w.cfg.StartupTagsMulti) {
		if t := w.cfg.StartupTagsMulti[index] & w.tagMask; t != 0 {
			tags = t
		}
	}
	if tags == 0 {
		tags = 1
	}
	return &Monitor{
		Tagset:     [2]uint32{tags, tags},
		MFact:      w.cfg.MFact,
		NMaster:    w.cfg.NMaster,
		NMasterMax: w.cfg.NMasterDynamicMax,
		ShowBar:    w.cfg.ShowBar,
		TopBar:     w.cfg.TopBar,
		Layout:     w.layouts[0],
		Symbol:     w.layouts[0].Symbol,
		prevLayout: w.layouts[1%len(w.layouts)],
	}
}

// updateBarPos derives the work area from the output and the bar strip.
func (w *WM) updateBarPos(m *Monitor) {
	m.Work = m.Screen
	if m.ShowBar {
		m.Work.Height -= w.barHeight
		if m.TopBar {
			m.BarY = m.Work.Y
			m.Work.Y += w.barHeight
		} else {
			m.BarY = m.Work.Y + m.Work.Height
		}
	} else {
		m.BarY = -w.barHeight
	}
}

func (w *WM) visible(c *Client) bool {
	return c.Tags&c.mon.Tags() != 0
}

func (w *WM) attach(c *Client) {
	c.mon.clients = slices.Insert(c.mon.clients, 0, c.ID)
}

func (w *WM) attachStack(c *Client) {
	c.mon.stack = slices.Insert(c.mon.stack, 0, c.ID)
}

func (w *WM) detach(c *Client) {
	c.mon.clients = removeID(c.mon.clients, c.ID)
}

// detachStack unlinks c from the focus stack and, when it was selected,
// selects the next visible client of the stack.
func (w *WM) detachStack(c *Client) {
	m := c.mon
	m.stack = removeID(m.stack, c.ID)
	if m.Sel == c.ID {
		m.Sel = 0
		if t := w.firstVisible(m); t != nil {
			m.Sel = t.ID
		}
	}
}

func removeID(ids []ClientID, id ClientID) []ClientID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// firstVisible returns the most recently focused visible client of m.
func (w *WM) firstVisible(m *Monitor) *Client {
	for _, id := range m.stack {
		if c := w.reg.get(id); c != nil && w.visible(c) {
			return c
		}
	}
	return nil
}

// tiled returns the visible non-floating clients of m in list order.
func (w *WM) tiled(m *Monitor) []*Client {
	var out []*Client
	for _, id := range m.clients {
		if c := w.reg.get(id); c != nil && !c.Floating && w.visible(c) {
			out = append(out, c)
		}
	}
	return out
}

func (w *WM) selected() *Client {
	if w.sel == nil {
		return nil
	}
	return w.reg.get(w.sel.Sel)
}

// rectToMon returns the monitor whose work area overlaps r the most,
// falling back to the selected monitor.
func (w *WM) rectToMon(r tiling.Rect) *Monitor {
	best, area := w.sel, 0
	for _, m := range w.mons {
		if a := r.IntersectArea(m.Work); a > area {
			area = a
			best = m
		}
	}
	return best
}

func (w *WM) winToMon(win platform.WindowID) *Monitor {
	if win == w.be.Root() {
		if x, y, ok := w.be.Pointer(); ok {
			return w.rectToMon(tiling.Rect{X: x, Y: y, Width: 1, Height: 1})
		}
	}
	if c := w.reg.byWindow(win); c != nil {
		return c.mon
	}
	return w.sel
}

func (w *WM) monitorByNum(num int) *Monitor {
	for _, m := range w.mons {
		if m.Num == num {
			return m
		}
	}
	return nil
}

// dirToMon picks a monitor relative to the selected one: 0 is the
// previously selected monitor, ±1 right/left and ±2 below/above.
func (w *WM) dirToMon(dir int) *Monitor {
	if dir == 0 {
		if w.prev != nil {
			return w.prev
		}
		return w.dirToMon(1)
	}
	outputs := make([]tiling.Rect, len(w.mons))
	for i, m := range w.mons {
		outputs[i] = m.Screen
	}
	cur := slices.Index(w.mons, w.sel)
	idx := movemode.NavigateOutput(outputs, cur, movemode.Direction(dir))
	if idx < 0 || idx >= len(w.mons) {
		return w.sel
	}
	return w.mons[idx]
}

// uniqueHeads drops outputs whose geometry duplicates an earlier one.
func uniqueHeads(heads []tiling.Rect) []tiling.Rect {
	var out []tiling.Rect
	for _, h := range heads {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

// updateGeom reconciles monitors with the current output topology. It
// reports whether any monitor changed.
func (w *WM) updateGeom() bool {
	w.prev = nil

	heads, err := w.be.Heads()
	if err != nil {
		w.logger.Warn("failed to query outputs", "error", err)
	}
	heads = uniqueHeads(heads)
	if len(heads) == 0 {
		heads = []tiling.Rect{w.screen}
	}

	dirty := false
	n := len(w.mons)
	if n <= len(heads) {
		for i := n; i < len(heads); i++ {
			w.mons = append(w.mons, w.createMon(i, len(heads) > 1))
		}
		for i, m := range w.mons {
			if i >= n || heads[i] != m.Screen {
				dirty = true
				m.Num = i
				m.Screen = heads[i]
				m.lastX, m.lastY = heads[i].Center()
				w.updateBarPos(m)
			}
		}
	} else {
		first := w.mons[0]
		for len(w.mons) > len(heads) {
			m := w.mons[len(w.mons)-1]
			for len(m.clients) > 0 {
				dirty = true
				c := w.reg.get(m.clients[0])
				m.clients = m.clients[1:]
				w.detachStack(c)
				c.mon = first
				w.attach(c)
				w.attachStack(c)
			}
			if m == w.sel {
				w.sel = first
			}
			if m == w.motionMon {
				w.motionMon = nil
			}
			w.mons = w.mons[:len(w.mons)-1]
			w.logger.Info("monitor removed", "monitor", m.Num)
		}
	}

	if dirty {
		w.sel = w.mons[0]
		w.sel = w.winToMon(w.be.Root())
	}
	w.updateBarriers()
	return dirty
}

// updateBarriers rebuilds the pointer barriers around every work area.
func (w *WM) updateBarriers() {
	if !w.cfg.Barriers {
		return
	}
	w.be.SetBarriers(w.barriers())
}

func (w *WM) barriers() []platform.Barrier {
	off := w.cfg.BorderPx + w.gap
	var out []platform.Barrier
	for _, m := range w.mons {
		if !m.ShowBar {
			continue
		}
		a := m.Work
		out = append(out,
			platform.Barrier{X1: a.X, Y1: a.Y + off, X2: a.Right() - 1, Y2: a.Y + off, Direction: platform.BarrierPositiveY},
			platform.Barrier{X1: a.X, Y1: a.Bottom() - off, X2: a.Right() - 1, Y2: a.Bottom() - off, Direction: platform.BarrierNegativeY},
			platform.Barrier{X1: a.X + off, Y1: a.Y, X2: a.X + off, Y2: a.Bottom() - 1, Direction: platform.BarrierPositiveX},
			platform.Barrier{X1: a.Right() - off, Y1: a.Y, X2: a.Right() - off, Y2: a.Bottom() - 1, Direction: platform.BarrierNegativeX},
		)
	}
	return out
}
