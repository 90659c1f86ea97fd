package wm

import (
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// applySizeHints runs the constraint solver for c.
func (w *WM) applySizeHints(c *Client, r tiling.Rect, interact bool) (tiling.Rect, bool) {
	return tiling.ApplySizeHints(r, c.Geom, c.BW, c.Hints, tiling.Bounds{
		Interact: interact,
		Screen:   w.screen,
		WorkArea: c.mon.Work,
		MinSide:  w.barHeight,
		Honor:    c.SizeHints || c.Floating || !c.mon.Layout.Arranges(),
	})
}

func (w *WM) resize(c *Client, r tiling.Rect, interact bool) {
	if out, changed := w.applySizeHints(c, r, interact); changed {
		w.resizeClient(c, out)
	}
}

func (w *WM) resizeClient(c *Client, r tiling.Rect) {
	c.Old = c.Geom
	c.Geom = r
	w.be.Configure(c.Win, r, c.BW)
	w.configure(c)
}

// configure tells the client its geometry with a synthetic ConfigureNotify.
func (w *WM) configure(c *Client) {
	w.be.SendConfigure(c.Win, c.Geom, c.BW)
}

// showHide moves visible clients into place top down and hidden ones off
// screen bottom up.
func (w *WM) showHide(m *Monitor) {
	var hidden []*Client
	for _, id := range m.stack {
		c := w.reg.get(id)
		if c == nil {
			continue
		}
		if !w.visible(c) {
			hidden = append(hidden, c)
			continue
		}
		w.be.Move(c.Win, c.Geom.X, c.Geom.Y)
		if (!m.Layout.Arranges() || c.Floating) && !c.Fullscreen {
			w.resize(c, c.Geom, false)
		}
	}
	for i := len(hidden) - 1; i >= 0; i-- {
		c := hidden[i]
		w.be.Move(c.Win, c.Geom.Width*-2, c.Geom.Y)
	}
}

// arrange re-applies visibility and layout on m, or on every monitor when
// m is nil.
func (w *WM) arrange(m *Monitor) {
	if m != nil {
		w.showHide(m)
		w.arrangeMon(m)
		w.restack(m)
		return
	}
	for _, m := range w.mons {
		w.showHide(m)
	}
	for _, m := range w.mons {
		w.arrangeMon(m)
	}
}

func (w *WM) arrangeMon(m *Monitor) {
	m.Symbol = m.Layout.Symbol
	if !m.Layout.Arranges() {
		return
	}
	tiled := w.tiled(m)
	clients := make([]tiling.Tiled, len(tiled))
	for i, c := range tiled {
		clients[i] = tiledClient{w: w, c: c}
	}
	visible := 0
	for _, id := range m.clients {
		if c := w.reg.get(id); c != nil && w.visible(c) {
			visible++
		}
	}
	m.Symbol = m.Layout.Apply(m.Work, clients, visible, tiling.Params{
		MFact:      m.MFact,
		NMaster:    m.NMaster,
		NMasterMax: m.NMasterMax,
		Gap:        w.gap,
	})
}

// restack raises the selected floating client and stacks tiled clients in
// focus order, then drops the crossing events this caused.
func (w *WM) restack(m *Monitor) {
	c := w.reg.get(m.Sel)
	if c == nil {
		return
	}
	if c.Floating || !m.Layout.Arranges() {
		w.be.Raise(c.Win)
	}
	if m.Layout.Arranges() {
		sibling := platform.None
		for _, id := range m.stack {
			t := w.reg.get(id)
			if t != nil && !t.Floating && w.visible(t) {
				w.be.StackBelow(t.Win, sibling)
				sibling = t.Win
			}
		}
	}
	w.discardEnter()
}
