package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/tagwm/internal/tiling"
)

// Title returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) Title(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil && title != "" {
		return title
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return title
	}
	return ""
}

// Class returns the WM_CLASS class and instance.
func (c *Connection) Class(win xproto.Window) (string, string) {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", ""
	}
	return wmClass.Class, wmClass.Instance
}

// TransientFor returns WM_TRANSIENT_FOR.
func (c *Connection) TransientFor(win xproto.Window) (xproto.Window, bool) {
	parent, err := icccm.WmTransientForGet(c.XUtil, win)
	if err != nil || parent == 0 {
		return 0, false
	}
	return parent, true
}

// NormalHints reads WM_NORMAL_HINTS.
func (c *Connection) NormalHints(win xproto.Window) (tiling.NormalHints, bool) {
	nh, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		return tiling.NormalHints{}, false
	}
	h := tiling.NormalHints{
		HasBase:   nh.Flags&icccm.SizeHintPBaseSize != 0,
		BaseW:     int(nh.BaseWidth),
		BaseH:     int(nh.BaseHeight),
		HasMin:    nh.Flags&icccm.SizeHintPMinSize != 0,
		MinW:      int(nh.MinWidth),
		MinH:      int(nh.MinHeight),
		HasMax:    nh.Flags&icccm.SizeHintPMaxSize != 0,
		MaxW:      int(nh.MaxWidth),
		MaxH:      int(nh.MaxHeight),
		HasInc:    nh.Flags&icccm.SizeHintPResizeInc != 0,
		IncW:      int(nh.WidthInc),
		IncH:      int(nh.HeightInc),
		HasAspect: nh.Flags&icccm.SizeHintPAspect != 0,

		MinAspectNum: int(nh.MinAspectNum),
		MinAspectDen: int(nh.MinAspectDen),
		MaxAspectNum: int(nh.MaxAspectNum),
		MaxAspectDen: int(nh.MaxAspectDen),
	}
	return h, true
}

// Hints is the subset of WM_HINTS we use.
type Hints struct {
	Urgent   bool
	HasInput bool
	Input    bool
}

// WMHints reads WM_HINTS.
func (c *Connection) WMHints(win xproto.Window) (Hints, bool) {
	wh, err := icccm.WmHintsGet(c.XUtil, win)
	if err != nil {
		return Hints{}, false
	}
	return Hints{
		Urgent:   wh.Flags&icccm.HintUrgency != 0,
		HasInput: wh.Flags&icccm.HintInput != 0,
		Input:    wh.Input != 0,
	}, true
}

// ClearUrgency rewrites WM_HINTS without the urgency flag.
func (c *Connection) ClearUrgency(win xproto.Window) {
	wh, err := icccm.WmHintsGet(c.XUtil, win)
	if err != nil {
		return
	}
	wh.Flags &^= icccm.HintUrgency
	icccm.WmHintsSet(c.XUtil, win, wh)
}

// Protocols returns WM_PROTOCOLS.
func (c *Connection) Protocols(win xproto.Window) []string {
	protos, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil {
		return nil
	}
	return protos
}

// SendProtocol sends a WM_PROTOCOLS client message if win advertises proto.
func (c *Connection) SendProtocol(win xproto.Window, proto string) bool {
	found := false
	for _, p := range c.Protocols(win) {
		if p == proto {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	atom, err := xprop.Atm(c.XUtil, proto)
	if err != nil {
		return false
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   c.atoms.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes()))
	return true
}

// SetWMState writes WM_STATE.
func (c *Connection) SetWMState(win xproto.Window, state uint) {
	icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: state})
}

// WMState reads WM_STATE.
func (c *Connection) WMState(win xproto.Window) (uint, bool) {
	st, err := icccm.WmStateGet(c.XUtil, win)
	if err != nil {
		return 0, false
	}
	return st.State, true
}

// SetFullscreenState writes _NET_WM_STATE as either the fullscreen atom or empty.
func (c *Connection) SetFullscreenState(win xproto.Window, on bool) {
	var states []string
	if on {
		states = []string{"_NET_WM_STATE_FULLSCREEN"}
	}
	ewmh.WmStateSet(c.XUtil, win, states)
}

// WindowType reports whether win asks for fullscreen or is a dialog.
func (c *Connection) WindowType(win xproto.Window) (fullscreen, dialog bool) {
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				fullscreen = true
			}
		}
	}
	if types, err := ewmh.WmWindowTypeGet(c.XUtil, win); err == nil {
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DIALOG" {
				dialog = true
			}
		}
	}
	return fullscreen, dialog
}

// AllocPixel resolves a "#rrggbb" color to a pixel value of the default colormap.
func (c *Connection) AllocPixel(hex string) (uint32, error) {
	r, g, b, err := parseHexColor(hex)
	if err != nil {
		return 0, err
	}
	reply, err := xproto.AllocColor(c.XUtil.Conn(), c.XUtil.Screen().DefaultColormap,
		uint16(r)<<8|uint16(r), uint16(g)<<8|uint16(g), uint16(b)<<8|uint16(b)).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Pixel, nil
}

func parseHexColor(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
