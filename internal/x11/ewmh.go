package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Advertise creates the _NET_SUPPORTING_WM_CHECK window, names it and
// publishes the supported atoms. The check window also receives wake-up
// messages, so it must exist before Wake is used.
func (c *Connection) Advertise(name string) error {
	win, err := xwindow.Create(c.XUtil, c.Root)
	if err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	c.check = win.Id

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.check, c.check); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, c.check, name); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, c.check); err != nil {
		return err
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedAtoms); err != nil {
		return err
	}
	xproto.DeleteProperty(c.XUtil.Conn(), c.Root, c.atoms.netClients)
	return nil
}

// Withdraw removes what Advertise published.
func (c *Connection) Withdraw() {
	if c.check == 0 {
		return
	}
	conn := c.XUtil.Conn()
	xproto.DestroyWindow(conn, c.check)
	xproto.DeleteProperty(conn, c.Root, c.atoms.netActive)
	c.check = 0
}

// Wake sends a client message to our own check window so a blocked
// WaitForEvent returns. Safe for concurrent use.
func (c *Connection) Wake() {
	if c.check == 0 {
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.check,
		Type:   c.atoms.wake,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	xproto.SendEvent(c.XUtil.Conn(), false, c.check, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// IsWake reports whether a client message is one of ours.
func (c *Connection) IsWake(ev xproto.ClientMessageEvent) bool {
	return ev.Window == c.check && ev.Type == c.atoms.wake
}
