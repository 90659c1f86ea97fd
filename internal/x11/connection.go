package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	xinext "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xcursor"
)

// ErrOtherWM is returned by BecomeWM when another client already holds
// SubstructureRedirect on the root window.
var ErrOtherWM = errors.New("another window manager is already running")

// rootEventMask is selected on the root window once we own it.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	atoms    atomTable
	cursors  [3]xproto.Cursor
	hasRandr bool
	hasXin   bool
	barriers barrierSet
	check    xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes required extensions.
// An empty display uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (keyboard and modifier maps)
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.hasRandr = randr.Init(xu.Conn()) == nil
	c.hasXin = xinext.Init(xu.Conn()) == nil
	c.barriers.init(xu.Conn())

	if err := c.atoms.intern(xu); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern atoms: %w", err)
	}
	return c, nil
}

// BecomeWM claims SubstructureRedirect on the root window, then selects the
// full root event mask and installs the default cursor.
func (c *Connection) BecomeWM() error {
	conn := c.XUtil.Conn()
	err := xproto.ChangeWindowAttributesChecked(conn, c.Root,
		xproto.CwEventMask, []uint32{xproto.EventMaskSubstructureRedirect}).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherWM
		}
		return fmt.Errorf("select substructure redirect: %w", err)
	}

	for i, name := range []uint16{xcursor.LeftPtr, xcursor.Fleur, xcursor.Sizing} {
		cur, err := xcursor.CreateCursor(c.XUtil, name)
		if err != nil {
			return fmt.Errorf("create cursor: %w", err)
		}
		c.cursors[i] = cur
	}

	err = xproto.ChangeWindowAttributesChecked(conn, c.Root,
		xproto.CwEventMask|xproto.CwCursor,
		[]uint32{rootEventMask, uint32(c.cursors[0])}).Check()
	if err != nil {
		return fmt.Errorf("select root events: %w", err)
	}
	if c.hasRandr {
		randr.SelectInput(conn, c.Root, randr.NotifyMaskScreenChange)
	}
	return nil
}

// HasRandr reports whether RandR notifications are available.
func (c *Connection) HasRandr() bool { return c.hasRandr }

// WaitForEvent blocks for the next event or asynchronous error. Both are
// nil once the connection is closed.
func (c *Connection) WaitForEvent() (xgb.Event, xgb.Error) {
	return c.XUtil.Conn().WaitForEvent()
}

// PollForEvent returns a queued event or error without blocking.
func (c *Connection) PollForEvent() (xgb.Event, xgb.Error) {
	return c.XUtil.Conn().PollForEvent()
}

// Sync performs a round trip so every earlier request has been processed.
func (c *Connection) Sync() {
	xproto.GetInputFocus(c.XUtil.Conn()).Reply()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
