package wm

import (
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// manage adopts win as a client.
func (w *WM) manage(win platform.WindowID, attrs platform.WindowAttributes) {
	c := w.reg.alloc(win)
	c.Geom = attrs.Geometry
	c.Old = attrs.Geometry
	c.OrigBW = attrs.Border
	c.SizeHints = w.cfg.SizeHintsDefault

	w.updateTitle(c)
	c.Class, c.Instance = w.be.Class(win)
	if c.Class == "" {
		c.Class = brokenName
	}
	if c.Instance == "" {
		c.Instance = brokenName
	}

	parent, isTransient := w.be.TransientFor(win)
	if t := w.reg.byWindow(parent); isTransient && t != nil {
		c.mon = t.mon
		c.Tags = t.Tags
	} else {
		c.mon = w.sel
		w.applyRules(c)
	}

	// The border counts toward the clamp so it stays on screen.
	c.BW = w.cfg.BorderPx
	m := c.mon
	if c.Geom.X+c.outer().Width > m.Screen.Right() {
		c.Geom.X = m.Screen.Right() - c.outer().Width
	}
	if c.Geom.Y+c.outer().Height > m.Screen.Bottom() {
		c.Geom.Y = m.Screen.Bottom() - c.outer().Height
	}
	c.Geom.X = max(c.Geom.X, m.Screen.X)
	top := m.Screen.Y
	if cx := c.Geom.X + c.Geom.Width/2; m.ShowBar && m.BarY == m.Screen.Y &&
		cx >= m.Work.X && cx < m.Work.Right() {
		top += w.barHeight
	}
	c.Geom.Y = max(c.Geom.Y, top)
	if attrs.Geometry.X == 0 && attrs.Geometry.Y == 0 {
		c.Geom.X += w.gap
		c.Geom.Y += w.gap
	}

	w.be.SetBorderWidth(win, c.BW)
	w.be.SetBorder(win, platform.BorderNormal)
	w.configure(c)
	w.updateWindowType(c)
	w.updateSizeHints(c)
	w.updateWMHints(c)
	w.be.SelectClientInput(win)
	w.be.GrabButtons(win, false, w.grabs)
	if !c.Floating {
		c.Floating = isTransient || c.Fixed
	}
	if c.Floating {
		w.be.Raise(win)
	}
	w.attach(c)
	w.attachStack(c)
	w.updateClientList()
	// hidden until arrange positions it
	w.be.Configure(win, tiling.Rect{X: c.Geom.X + 2*w.screen.Width, Y: c.Geom.Y, Width: c.Geom.Width, Height: c.Geom.Height}, c.BW)
	w.be.SetWMState(win, platform.StateNormal)
	if m == w.sel {
		w.unfocus(w.selected(), false)
	}
	if w.visible(c) {
		m.Sel = c.ID
	}
	w.arrange(m)
	w.be.Map(win)
	w.focus(nil)
	w.logger.Debug("managed client",
		"window", win, "class", c.Class, "monitor", m.Num, "tags", c.Tags, "floating", c.Floating)
}

// applyRules matches c's identity against the rule table. The first
// matching rule decides floating and size hint policy, tags accumulate
// over every match and the last matching monitor index wins.
func (w *WM) applyRules(c *Client) {
	var floatSet, hintsSet bool
	for _, r := range w.cfg.Rules {
		if !r.Matches(c.Class, c.Instance, c.Name) {
			continue
		}
		if !floatSet {
			c.Floating = r.Floating
			floatSet = true
		}
		if !hintsSet {
			c.SizeHints = r.SizeHints
			hintsSet = true
		}
		c.Tags |= r.Tags
		if r.Monitor >= 0 {
			if m := w.monitorByNum(r.Monitor); m != nil {
				c.mon = m
			} else {
				w.logger.Debug("rule names a missing monitor", "class", c.Class, "monitor", r.Monitor)
			}
		}
	}
	if c.Tags&w.tagMask != 0 {
		c.Tags &= w.tagMask
	} else {
		c.Tags = c.mon.Tags()
	}
}

// unmanage forgets c. destroyed is set when the window no longer exists
// so nothing is sent to it.
func (w *WM) unmanage(c *Client, destroyed bool) {
	if c == nil {
		return
	}
	m := c.mon
	w.detach(c)
	w.detachStack(c)
	if !destroyed {
		w.be.GrabServer()
		w.be.SetBorderWidth(c.Win, c.OrigBW)
		w.be.UngrabButtons(c.Win)
		w.be.SetWMState(c.Win, platform.StateWithdrawn)
		w.be.Sync()
		w.be.UngrabServer()
	}
	if w.prevClient == c.ID {
		w.prevClient = 0
	}
	w.reg.free(c)
	w.logger.Debug("unmanaged client", "window", c.Win, "destroyed", destroyed)
	w.focus(nil)
	w.updateClientList()
	w.arrange(m)
}

// scan adopts windows that already exist, transients after their parents.
func (w *WM) scan() {
	wins, err := w.be.Children()
	if err != nil {
		w.logger.Warn("failed to list existing windows", "error", err)
		return
	}
	adoptable := func(win platform.WindowID) (platform.WindowAttributes, bool) {
		attrs, err := w.be.Attributes(win)
		if err != nil || attrs.OverrideRedirect {
			return attrs, false
		}
		if attrs.Viewable {
			return attrs, true
		}
		state, ok := w.be.WMState(win)
		return attrs, ok && state == platform.StateIconic
	}
	var transients []platform.WindowID
	for _, win := range wins {
		if _, ok := w.be.TransientFor(win); ok {
			transients = append(transients, win)
			continue
		}
		if attrs, ok := adoptable(win); ok {
			w.manage(win, attrs)
		}
	}
	for _, win := range transients {
		if attrs, ok := adoptable(win); ok {
			w.manage(win, attrs)
		}
	}
}

// updateClientList republishes every managed window in list order.
func (w *WM) updateClientList() {
	var wins []platform.WindowID
	for _, m := range w.mons {
		for _, id := range m.clients {
			if c := w.reg.get(id); c != nil {
				wins = append(wins, c.Win)
			}
		}
	}
	w.be.SetClientList(wins)
}

func (w *WM) updateTitle(c *Client) {
	c.Name = w.be.Title(c.Win)
	if c.Name == "" {
		c.Name = brokenName
	}
}

func (w *WM) updateSizeHints(c *Client) {
	raw, _ := w.be.NormalHints(c.Win)
	c.Hints = tiling.ResolveHints(raw)
	c.Fixed = c.Hints.Fixed()
}

// updateWMHints tracks urgency and the input hint. Urgency on the
// selected client is cleared straight away.
func (w *WM) updateWMHints(c *Client) {
	h, ok := w.be.WMHints(c.Win)
	if !ok {
		return
	}
	if c == w.selected() && h.Urgent {
		w.be.ClearUrgency(c.Win)
	} else {
		c.Urgent = h.Urgent
		if c.Urgent {
			w.setBorder(c, platform.BorderUrgent)
		}
	}
	c.NeverFocus = h.HasInput && !h.Input
}

func (w *WM) updateWindowType(c *Client) {
	t := w.be.WindowType(c.Win)
	if t.Fullscreen {
		w.setFullscreen(c, true)
	}
	if t.Dialog {
		c.Floating = true
	}
}

// setFullscreen enters or leaves fullscreen. Repeated requests for the
// current state do nothing, so the saved state is restored exactly once.
func (w *WM) setFullscreen(c *Client, on bool) {
	switch {
	case on && !c.Fullscreen:
		w.be.SetFullscreenState(c.Win, true)
		c.Fullscreen = true
		c.savedFloating = c.Floating
		c.savedBW = c.BW
		c.BW = 0
		c.Floating = true
		w.resizeClient(c, c.mon.Screen)
		w.be.Raise(c.Win)
	case !on && c.Fullscreen:
		w.be.SetFullscreenState(c.Win, false)
		c.Fullscreen = false
		c.Floating = c.savedFloating
		c.BW = c.savedBW
		w.resizeClient(c, c.Old)
		w.arrange(c.mon)
	}
}
