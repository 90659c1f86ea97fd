package wm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// Verify checks the registry invariants and returns every violation found.
func (w *WM) Verify() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	owner := make(map[ClientID]*Monitor, len(w.reg.clients))
	for _, m := range w.mons {
		for i, t := range m.Tagset {
			if t&^w.tagMask != 0 {
				fail("monitor %d: tagset[%d] %#x exceeds tag mask %#x", m.Num, i, t, w.tagMask)
			}
		}
		if len(m.clients) != len(m.stack) {
			fail("monitor %d: list has %d clients, stack %d", m.Num, len(m.clients), len(m.stack))
		}
		for _, id := range m.clients {
			if prev, dup := owner[id]; dup {
				fail("client %d: listed on monitors %d and %d", id, prev.Num, m.Num)
			}
			owner[id] = m
			if !slices.Contains(m.stack, id) {
				fail("monitor %d: client %d in list but not in stack", m.Num, id)
			}
		}
		for _, id := range m.stack {
			if !slices.Contains(m.clients, id) {
				fail("monitor %d: client %d in stack but not in list", m.Num, id)
			}
		}
		if m.Sel != 0 {
			c := w.reg.get(m.Sel)
			switch {
			case c == nil:
				fail("monitor %d: selected client %d does not exist", m.Num, m.Sel)
			case c.mon != m:
				fail("monitor %d: selected client %d belongs to monitor %d", m.Num, m.Sel, c.mon.Num)
			case !w.visible(c):
				fail("monitor %d: selected client %d is not visible", m.Num, m.Sel)
			}
		}
	}
	if w.sel != nil && !slices.Contains(w.mons, w.sel) {
		fail("selected monitor is not in the monitor list")
	}

	for id, c := range w.reg.clients {
		m, ok := owner[id]
		switch {
		case !ok:
			fail("client %d (window %#x): not on any monitor", id, c.Win)
		case c.mon != m:
			fail("client %d: back-reference names monitor %d, listed on %d", id, c.mon.Num, m.Num)
		}
		if c.Tags == 0 {
			fail("client %d: empty tag mask", id)
		}
		if c.Tags&^w.tagMask != 0 {
			fail("client %d: tags %#x exceed tag mask %#x", id, c.Tags, w.tagMask)
		}
		if c.Fullscreen && !c.Floating {
			fail("client %d: fullscreen but tiled", id)
		}
	}
	return errors.Join(errs...)
}

// MonitorState is the reported state of one monitor.
type MonitorState struct {
	Num      int         `json:"num"`
	Screen   tiling.Rect `json:"screen"`
	Work     tiling.Rect `json:"work"`
	Tagset   [2]uint32   `json:"tagset"`
	SelTags  int         `json:"seltags"`
	Tags     uint32      `json:"tags"`
	Layout   string      `json:"layout"`
	Symbol   string      `json:"symbol"`
	MFact    float64     `json:"mfact"`
	NMaster  int         `json:"nmaster"`
	ShowBar  bool        `json:"show_bar"`
	Selected bool        `json:"selected"`
	// SelWindow is the selected client's window, zero for none.
	SelWindow platform.WindowID `json:"sel_window"`
	Clients   int               `json:"clients"`
}

// ClientState is the reported state of one client.
type ClientState struct {
	Window     platform.WindowID `json:"window"`
	Monitor    int               `json:"monitor"`
	Title      string            `json:"title"`
	Class      string            `json:"class"`
	Instance   string            `json:"instance"`
	Tags       uint32            `json:"tags"`
	Geometry   tiling.Rect       `json:"geometry"`
	Border     int               `json:"border"`
	Floating   bool              `json:"floating"`
	Fullscreen bool              `json:"fullscreen"`
	Urgent     bool              `json:"urgent"`
	Fixed      bool              `json:"fixed"`
	Visible    bool              `json:"visible"`
	Focused    bool              `json:"focused"`
}

// Snapshot is a point-in-time copy of the window manager state.
type Snapshot struct {
	Monitors []MonitorState `json:"monitors"`
	// Clients are ordered by monitor, then by client list.
	Clients []ClientState `json:"clients"`
	Gap     int           `json:"gap"`
}

// Snapshot copies the current state. It must run on the event loop
// goroutine.
func (w *WM) Snapshot() Snapshot {
	s := Snapshot{Gap: w.gap}
	focused := w.selected()
	for _, m := range w.mons {
		ms := MonitorState{
			Num:      m.Num,
			Screen:   m.Screen,
			Work:     m.Work,
			Tagset:   m.Tagset,
			SelTags:  m.SelTags,
			Tags:     m.Tags(),
			Layout:   m.Layout.Arrange.String(),
			Symbol:   m.Symbol,
			MFact:    m.MFact,
			NMaster:  m.NMaster,
			ShowBar:  m.ShowBar,
			Selected: m == w.sel,
			Clients:  len(m.clients),
		}
		if c := w.reg.get(m.Sel); c != nil {
			ms.SelWindow = c.Win
		}
		s.Monitors = append(s.Monitors, ms)
		for _, id := range m.clients {
			c := w.reg.get(id)
			if c == nil {
				continue
			}
			s.Clients = append(s.Clients, ClientState{
				Window:     c.Win,
				Monitor:    m.Num,
				Title:      c.Name,
				Class:      c.Class,
				Instance:   c.Instance,
				Tags:       c.Tags,
				Geometry:   c.Geom,
				Border:     c.BW,
				Floating:   c.Floating,
				Fullscreen: c.Fullscreen,
				Urgent:     c.Urgent,
				Fixed:      c.Fixed,
				Visible:    w.visible(c),
				Focused:    c == focused,
			})
		}
	}
	return s
}
