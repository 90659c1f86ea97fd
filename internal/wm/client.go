package wm

import (
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// brokenName marks clients without a readable title or class.
const brokenName = "broken"

// ClientID is a stable handle into the client arena. The zero value means
// no client.
type ClientID int

// Client is one managed window.
type Client struct {
	ID  ClientID
	Win platform.WindowID

	Name     string
	Class    string
	Instance string

	// Geom holds the outer origin and inner size; Old is the previous
	// geometry restored when leaving fullscreen.
	Geom tiling.Rect
	Old  tiling.Rect
	BW   int
	// OrigBW is the border width the window had before it was managed.
	OrigBW int

	Hints tiling.SizeHints
	Fixed bool

	Tags       uint32
	Floating   bool
	Urgent     bool
	NeverFocus bool
	Fullscreen bool
	// SizeHints forces the size hint pass for tiled resizes.
	SizeHints bool

	// saved pre-fullscreen state
	savedFloating bool
	savedBW       int

	mon *Monitor
}

// Monitor reports the monitor owning the client.
func (c *Client) Monitor() *Monitor { return c.mon }

// outer returns the client's footprint including its border.
func (c *Client) outer() tiling.Rect {
	return tiling.Rect{X: c.Geom.X, Y: c.Geom.Y, Width: c.Geom.Width + 2*c.BW, Height: c.Geom.Height + 2*c.BW}
}

// registry is the arena of managed clients.
type registry struct {
	clients map[ClientID]*Client
	byWin   map[platform.WindowID]ClientID
	next    ClientID
}

func newRegistry() registry {
	return registry{
		clients: make(map[ClientID]*Client),
		byWin:   make(map[platform.WindowID]ClientID),
	}
}

func (r *registry) alloc(win platform.WindowID) *Client {
	r.next++
	c := &Client{ID: r.next, Win: win}
	r.clients[c.ID] = c
	r.byWin[win] = c.ID
	return c
}

func (r *registry) free(c *Client) {
	delete(r.clients, c.ID)
	if r.byWin[c.Win] == c.ID {
		delete(r.byWin, c.Win)
	}
}

func (r *registry) get(id ClientID) *Client {
	if id == 0 {
		return nil
	}
	return r.clients[id]
}

func (r *registry) byWindow(win platform.WindowID) *Client {
	id, ok := r.byWin[win]
	if !ok {
		return nil
	}
	return r.clients[id]
}

// tiledClient adapts a client to the layout engine.
type tiledClient struct {
	w *WM
	c *Client
}

func (t tiledClient) BorderWidth() int { return t.c.BW }

func (t tiledClient) Resize(r tiling.Rect) tiling.Rect {
	t.w.resize(t.c, r, false)
	return t.c.Geom
}
