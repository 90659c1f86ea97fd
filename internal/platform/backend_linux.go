//go:build linux

package platform

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/tiling"
	"github.com/1broseidon/tagwm/internal/x11"
)

// Colors are the border colors in "#rrggbb" form.
type Colors struct {
	Normal  string
	Focused string
	Urgent  string
}

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	keys   *hotkeys.Handler
	logger *slog.Logger
	pixels [3]uint32
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11
// connection that already owns the root window.
func NewLinuxBackend(conn *x11.Connection, colors Colors, logger *slog.Logger) (*LinuxBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &LinuxBackend{
		conn:   conn,
		keys:   hotkeys.NewHandler(conn.XUtil, conn.Root),
		logger: logger,
	}
	for i, hex := range []string{colors.Normal, colors.Focused, colors.Urgent} {
		pixel, err := conn.AllocPixel(hex)
		if err != nil {
			return nil, fmt.Errorf("allocate border color %q: %w", hex, err)
		}
		b.pixels[i] = pixel
	}
	return b, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// UngrabKeys drops every key grab; used on teardown.
func (b *LinuxBackend) UngrabKeys() { b.keys.UngrabKeys() }

func (b *LinuxBackend) NextEvent() (Event, bool) {
	for {
		xev, xerr := b.conn.WaitForEvent()
		if xev == nil && xerr == nil {
			return nil, false
		}
		if xerr != nil {
			b.logError(xerr)
			continue
		}
		if ev := b.translate(xev); ev != nil {
			return ev, true
		}
	}
}

func (b *LinuxBackend) PollEvent() (Event, bool) {
	for {
		xev, xerr := b.conn.PollForEvent()
		if xev == nil && xerr == nil {
			return nil, false
		}
		if xerr != nil {
			b.logError(xerr)
			continue
		}
		if ev := b.translate(xev); ev != nil {
			return ev, true
		}
	}
}

func (b *LinuxBackend) logError(err xgb.Error) {
	major, class := x11.Classify(err)
	if x11.Ignorable(major, class) {
		b.logger.Debug("ignored x error", "request", major, "error", class.String())
		return
	}
	b.logger.Error("x error", "detail", x11.DescribeError(err))
}

func (b *LinuxBackend) ReplayPointer() { b.conn.ReplayPointer() }

func (b *LinuxBackend) translate(xev xgb.Event) Event {
	root := b.conn.Root
	switch e := xev.(type) {
	case xproto.MapRequestEvent:
		return MapRequest{Window: WindowID(e.Window)}
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window:      WindowID(e.Window),
			Mask:        configMask(e.ValueMask),
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			Sibling:     WindowID(e.Sibling),
			StackMode:   int(e.StackMode),
		}
	case xproto.ConfigureNotifyEvent:
		if e.Window != root {
			return nil
		}
		return ConfigureNotify{Window: WindowID(e.Window), Width: int(e.Width), Height: int(e.Height)}
	case randr.ScreenChangeNotifyEvent:
		return ScreenChange{Width: int(e.Width), Height: int(e.Height)}
	case xproto.DestroyNotifyEvent:
		return DestroyNotify{Window: WindowID(e.Window)}
	case xproto.UnmapNotifyEvent:
		// xgb drops the send_event bit. ICCCM withdrawals are sent to the
		// root with the client as the subject window.
		return UnmapNotify{Window: WindowID(e.Window), SendEvent: e.Event == root && e.Window != root}
	case xproto.EnterNotifyEvent:
		return EnterNotify{
			Window:   WindowID(e.Event),
			Normal:   e.Mode == xproto.NotifyModeNormal,
			Inferior: e.Detail == xproto.NotifyDetailInferior,
		}
	case xproto.MotionNotifyEvent:
		return MotionNotify{Window: WindowID(e.Event), RootX: int(e.RootX), RootY: int(e.RootY)}
	case xproto.ButtonPressEvent:
		return ButtonPress{
			Window: WindowID(e.Event),
			Button: uint8(e.Detail),
			State:  e.State,
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}
	case xproto.ButtonReleaseEvent:
		return ButtonRelease{Window: WindowID(e.Event), Button: uint8(e.Detail)}
	case xproto.KeyPressEvent:
		return KeyPress{Keysym: b.keys.Keysym(e.Detail), State: e.State}
	case xproto.PropertyNotifyEvent:
		return PropertyNotify{
			Window:  WindowID(e.Window),
			Prop:    propertyOf(b.conn.AtomName(e.Atom)),
			Deleted: e.State == xproto.PropertyDelete,
		}
	case xproto.ClientMessageEvent:
		return b.clientMessage(e)
	case xproto.ExposeEvent:
		return Expose{Window: WindowID(e.Window), Count: int(e.Count)}
	case xproto.FocusInEvent:
		return FocusIn{Window: WindowID(e.Event)}
	case xproto.MappingNotifyEvent:
		return MappingNotify{Keyboard: e.Request == xproto.MappingKeyboard}
	}
	return nil
}

func (b *LinuxBackend) clientMessage(e xproto.ClientMessageEvent) Event {
	if b.conn.IsWake(e) {
		return Wake{}
	}
	data := e.Data.Data32
	switch b.conn.AtomName(e.Type) {
	case "_NET_WM_STATE":
		if len(data) < 3 {
			return nil
		}
		if b.conn.AtomName(xproto.Atom(data[1])) == "_NET_WM_STATE_FULLSCREEN" ||
			b.conn.AtomName(xproto.Atom(data[2])) == "_NET_WM_STATE_FULLSCREEN" {
			return StateRequest{Window: WindowID(e.Window), Action: StateAction(data[0])}
		}
	case "_NET_ACTIVE_WINDOW":
		return ActivateRequest{Window: WindowID(e.Window)}
	}
	return nil
}

func propertyOf(name string) Property {
	switch name {
	case "WM_TRANSIENT_FOR":
		return PropTransientFor
	case "WM_NORMAL_HINTS":
		return PropNormalHints
	case "WM_HINTS":
		return PropHints
	case "WM_NAME", "_NET_WM_NAME":
		return PropName
	case "_NET_WM_WINDOW_TYPE":
		return PropWindowType
	}
	return PropOther
}

var configBits = []struct {
	x   uint16
	bit ConfigMask
}{
	{xproto.ConfigWindowX, ConfigX},
	{xproto.ConfigWindowY, ConfigY},
	{xproto.ConfigWindowWidth, ConfigWidth},
	{xproto.ConfigWindowHeight, ConfigHeight},
	{xproto.ConfigWindowBorderWidth, ConfigBorderWidth},
	{xproto.ConfigWindowSibling, ConfigSibling},
	{xproto.ConfigWindowStackMode, ConfigStackMode},
}

func configMask(m uint16) ConfigMask {
	var out ConfigMask
	for _, cb := range configBits {
		if m&cb.x != 0 {
			out |= cb.bit
		}
	}
	return out
}

func (b *LinuxBackend) Sync() { b.conn.Sync() }
func (b *LinuxBackend) Wake() { b.conn.Wake() }

func (b *LinuxBackend) Screen() tiling.Rect           { return b.conn.Screen() }
func (b *LinuxBackend) Heads() ([]tiling.Rect, error) { return b.conn.Heads() }
func (b *LinuxBackend) Root() WindowID                { return WindowID(b.conn.Root) }
func (b *LinuxBackend) Pointer() (int, int, bool)     { return b.conn.QueryPointer() }

func (b *LinuxBackend) WarpPointer(win WindowID, x, y int) {
	target := xproto.Window(win)
	if win == None {
		target = b.conn.Root
	}
	b.conn.WarpPointer(target, x, y)
}

func (b *LinuxBackend) Children() ([]WindowID, error) {
	children, err := b.conn.Children()
	if err != nil {
		return nil, err
	}
	out := make([]WindowID, len(children))
	for i, w := range children {
		out[i] = WindowID(w)
	}
	return out, nil
}

func (b *LinuxBackend) Attributes(win WindowID) (WindowAttributes, error) {
	a, err := b.conn.WindowAttributes(xproto.Window(win))
	if err != nil {
		return WindowAttributes{}, err
	}
	return WindowAttributes{
		OverrideRedirect: a.OverrideRedirect,
		Viewable:         a.Viewable,
		Geometry:         a.Geometry,
		Border:           a.Border,
	}, nil
}

func (b *LinuxBackend) SelectClientInput(win WindowID) {
	b.conn.SelectClientInput(xproto.Window(win))
}

func (b *LinuxBackend) Configure(win WindowID, r tiling.Rect, border int) {
	b.conn.MoveResizeWindow(xproto.Window(win), r, border)
}

func (b *LinuxBackend) SendConfigure(win WindowID, r tiling.Rect, border int) {
	b.conn.SendConfigureNotify(xproto.Window(win), r, border)
}

// ForwardConfigure passes a request from an unmanaged window through unchanged.
func (b *LinuxBackend) ForwardConfigure(ev ConfigureRequest) {
	var (
		mask   uint16
		values []uint32
	)
	add := func(bit ConfigMask, v uint32) {
		if ev.Mask&bit == 0 {
			return
		}
		for _, cb := range configBits {
			if cb.bit == bit {
				mask |= cb.x
			}
		}
		values = append(values, v)
	}
	add(ConfigX, uint32(int32(ev.X)))
	add(ConfigY, uint32(int32(ev.Y)))
	add(ConfigWidth, uint32(ev.Width))
	add(ConfigHeight, uint32(ev.Height))
	add(ConfigBorderWidth, uint32(ev.BorderWidth))
	add(ConfigSibling, uint32(ev.Sibling))
	add(ConfigStackMode, uint32(ev.StackMode))
	b.conn.ConfigureRaw(xproto.Window(ev.Window), mask, values)
}

func (b *LinuxBackend) Move(win WindowID, x, y int) { b.conn.MoveWindow(xproto.Window(win), x, y) }

func (b *LinuxBackend) SetBorderWidth(win WindowID, border int) {
	b.conn.SetBorderWidth(xproto.Window(win), border)
}

func (b *LinuxBackend) SetBorder(win WindowID, scheme BorderScheme) {
	if scheme < BorderNormal || int(scheme) >= len(b.pixels) {
		scheme = BorderNormal
	}
	b.conn.SetBorderPixel(xproto.Window(win), b.pixels[scheme])
}

func (b *LinuxBackend) Raise(win WindowID) { b.conn.Raise(xproto.Window(win)) }

func (b *LinuxBackend) StackBelow(win, sibling WindowID) {
	b.conn.StackBelow(xproto.Window(win), xproto.Window(sibling))
}

func (b *LinuxBackend) Map(win WindowID)           { b.conn.Map(xproto.Window(win)) }
func (b *LinuxBackend) SetInputFocus(win WindowID) { b.conn.SetInputFocus(xproto.Window(win)) }
func (b *LinuxBackend) FocusRoot()                 { b.conn.SetInputFocus(b.conn.Root) }

func (b *LinuxBackend) SetActiveWindow(win WindowID) {
	b.conn.SetActiveWindow(xproto.Window(win))
}

func (b *LinuxBackend) ClearActiveWindow() { b.conn.SetActiveWindow(0) }

func (b *LinuxBackend) SetClientList(wins []WindowID) {
	list := make([]xproto.Window, len(wins))
	for i, w := range wins {
		list[i] = xproto.Window(w)
	}
	b.conn.SetClientList(list)
}

func (b *LinuxBackend) SendProtocol(win WindowID, p Protocol) bool {
	return b.conn.SendProtocol(xproto.Window(win), string(p))
}

func (b *LinuxBackend) Kill(win WindowID) { b.conn.Kill(xproto.Window(win)) }

func (b *LinuxBackend) SetWMState(win WindowID, state WMState) {
	b.conn.SetWMState(xproto.Window(win), uint(state))
}

func (b *LinuxBackend) WMState(win WindowID) (WMState, bool) {
	st, ok := b.conn.WMState(xproto.Window(win))
	return WMState(st), ok
}

func (b *LinuxBackend) SetFullscreenState(win WindowID, on bool) {
	b.conn.SetFullscreenState(xproto.Window(win), on)
}

func (b *LinuxBackend) Title(win WindowID) string { return b.conn.Title(xproto.Window(win)) }

func (b *LinuxBackend) Class(win WindowID) (string, string) {
	return b.conn.Class(xproto.Window(win))
}

func (b *LinuxBackend) TransientFor(win WindowID) (WindowID, bool) {
	parent, ok := b.conn.TransientFor(xproto.Window(win))
	return WindowID(parent), ok
}

func (b *LinuxBackend) NormalHints(win WindowID) (tiling.NormalHints, bool) {
	return b.conn.NormalHints(xproto.Window(win))
}

func (b *LinuxBackend) WMHints(win WindowID) (WMHints, bool) {
	h, ok := b.conn.WMHints(xproto.Window(win))
	return WMHints{Urgent: h.Urgent, HasInput: h.HasInput, Input: h.Input}, ok
}

func (b *LinuxBackend) ClearUrgency(win WindowID) { b.conn.ClearUrgency(xproto.Window(win)) }

func (b *LinuxBackend) WindowType(win WindowID) WindowType {
	fullscreen, dialog := b.conn.WindowType(xproto.Window(win))
	return WindowType{Fullscreen: fullscreen, Dialog: dialog}
}

func (b *LinuxBackend) GrabKeys(keys []KeyGrab) { b.keys.GrabKeys(keys) }
func (b *LinuxBackend) RefreshKeyboard()        { b.keys.Refresh() }

func (b *LinuxBackend) GrabButtons(win WindowID, focused bool, buttons []ButtonGrab) {
	b.keys.GrabButtons(xproto.Window(win), focused, buttons)
}

func (b *LinuxBackend) UngrabButtons(win WindowID) { b.keys.UngrabButtons(xproto.Window(win)) }

func (b *LinuxBackend) GrabPointer(c Cursor) bool { return b.conn.GrabPointer(int(c)) }
func (b *LinuxBackend) UngrabPointer()            { b.conn.UngrabPointer() }
func (b *LinuxBackend) GrabServer()               { b.conn.GrabServer() }
func (b *LinuxBackend) UngrabServer()             { b.conn.UngrabServer() }

func (b *LinuxBackend) CleanMask(state uint16) uint16 { return b.keys.CleanMask(state) }

func (b *LinuxBackend) SetBarriers(bs []Barrier) {
	out := make([]x11.Barrier, len(bs))
	for i, bar := range bs {
		out[i] = x11.Barrier{X1: bar.X1, Y1: bar.Y1, X2: bar.X2, Y2: bar.Y2, Directions: uint32(bar.Direction)}
	}
	b.conn.SetBarriers(out)
}
