package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tagwm/internal/tiling"
)

// clientEventMask is selected on every managed window.
const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskStructureNotify

// pointerGrabMask is used for move/resize grabs.
const pointerGrabMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// Attributes describes a window as seen before it is managed.
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
	Geometry         tiling.Rect
	Border           int
}

// WindowAttributes reads the attributes and geometry of a window.
func (c *Connection) WindowAttributes(win xproto.Window) (Attributes, error) {
	conn := c.XUtil.Conn()
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return Attributes{}, err
	}
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Attributes{}, err
	}
	return Attributes{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
		Geometry: tiling.Rect{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
		Border: int(geom.BorderWidth),
	}, nil
}

// Children lists the root window's children, bottom to top.
func (c *Connection) Children() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}

// SelectClientInput subscribes to the events we track on managed windows.
func (c *Connection) SelectClientInput(win xproto.Window) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{clientEventMask})
}

// MoveResizeWindow sets position, inner size and border width in one request.
func (c *Connection) MoveResizeWindow(win xproto.Window, r tiling.Rect, border int) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|
			xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.Width), uint32(r.Height), uint32(border)})
}

// MoveWindow changes only the position.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))})
}

// SetBorderWidth changes only the border width.
func (c *Connection) SetBorderWidth(win xproto.Window, border int) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{uint32(border)})
}

// SetBorderPixel sets the border color.
func (c *Connection) SetBorderPixel(win xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
}

// SendConfigureNotify tells a client its geometry without changing it.
func (c *Connection) SendConfigureNotify(win xproto.Window, r tiling.Rect, border int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     xproto.WindowNone,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// ConfigureRaw forwards a ConfigureRequest for a window we do not manage.
// values must be ordered by mask bit.
func (c *Connection) ConfigureRaw(win xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, mask, values)
}

// Raise puts the window on top of its siblings.
func (c *Connection) Raise(win xproto.Window) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// StackBelow puts win directly below sibling.
func (c *Connection) StackBelow(win, sibling xproto.Window) {
	if sibling == 0 {
		xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowStackMode,
			[]uint32{xproto.StackModeBelow})
		return
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
		[]uint32{uint32(sibling), xproto.StackModeBelow})
}

// Map maps a window.
func (c *Connection) Map(win xproto.Window) {
	xproto.MapWindow(c.XUtil.Conn(), win)
}

// SetInputFocus gives keyboard focus to win, reverting to the pointer root.
func (c *Connection) SetInputFocus(win xproto.Window) {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW; 0 deletes it.
func (c *Connection) SetActiveWindow(win xproto.Window) {
	if win == 0 {
		xproto.DeleteProperty(c.XUtil.Conn(), c.Root, c.atoms.netActive)
		return
	}
	ewmh.ActiveWindowSet(c.XUtil, win)
}

// SetClientList publishes _NET_CLIENT_LIST.
func (c *Connection) SetClientList(wins []xproto.Window) {
	ewmh.ClientListSet(c.XUtil, wins)
}

// Kill forcibly disconnects the client owning win.
func (c *Connection) Kill(win xproto.Window) {
	conn := c.XUtil.Conn()
	xproto.GrabServer(conn)
	xproto.SetCloseDownMode(conn, xproto.CloseDownDestroyAll)
	xproto.KillClient(conn, uint32(win))
	c.Sync()
	xproto.UngrabServer(conn)
}

// GrabServer and UngrabServer bracket teardown against the server.
func (c *Connection) GrabServer()   { xproto.GrabServer(c.XUtil.Conn()) }
func (c *Connection) UngrabServer() { xproto.UngrabServer(c.XUtil.Conn()) }

// GrabPointer captures the pointer on the root window with cursor index cur.
func (c *Connection) GrabPointer(cur int) bool {
	if cur < 0 || cur >= len(c.cursors) {
		cur = 0
	}
	reply, err := xproto.GrabPointer(c.XUtil.Conn(), false, c.Root, pointerGrabMask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone,
		c.cursors[cur], xproto.TimeCurrentTime).Reply()
	return err == nil && reply.Status == xproto.GrabStatusSuccess
}

// ReplayPointer releases a frozen synchronous button grab so the click
// reaches the client.
func (c *Connection) ReplayPointer() {
	xproto.AllowEvents(c.XUtil.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
}

// UngrabPointer releases a pointer grab.
func (c *Connection) UngrabPointer() {
	xproto.UngrabPointer(c.XUtil.Conn(), xproto.TimeCurrentTime)
}

// WarpPointer moves the pointer to (x, y) relative to win.
func (c *Connection) WarpPointer(win xproto.Window, x, y int) {
	xproto.WarpPointer(c.XUtil.Conn(), xproto.WindowNone, win, 0, 0, 0, 0, int16(x), int16(y))
}
