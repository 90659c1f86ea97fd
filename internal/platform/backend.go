package platform

import (
	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/tiling"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the null window.
const None WindowID = 0

// Modifier masks, bit-compatible with the X core protocol.
const (
	ModShift   = hotkeys.ModShift
	ModLock    = hotkeys.ModLock
	ModControl = hotkeys.ModControl
	Mod1       = hotkeys.Mod1
	Mod2       = hotkeys.Mod2
	Mod3       = hotkeys.Mod3
	Mod4       = hotkeys.Mod4
	Mod5       = hotkeys.Mod5
	ModAllKeys = hotkeys.ModAllKeys
)

// BorderScheme selects the border color of a client.
type BorderScheme int

const (
	BorderNormal BorderScheme = iota
	BorderFocused
	BorderUrgent
)

// WMState mirrors the ICCCM WM_STATE values.
type WMState int

const (
	StateWithdrawn WMState = 0
	StateNormal    WMState = 1
	StateIconic    WMState = 3
)

// Cursor selects the root pointer shape during grabs.
type Cursor int

const (
	CursorNormal Cursor = iota
	CursorMove
	CursorResize
)

// WindowAttributes is what the adapter reports about an unmanaged window.
type WindowAttributes struct {
	OverrideRedirect bool
	Viewable         bool
	Geometry         tiling.Rect
	Border           int
}

// WMHints is the subset of WM_HINTS the core reacts to.
type WMHints struct {
	Urgent bool
	// HasInput is set when the input field is meaningful.
	HasInput bool
	Input    bool
}

// WindowType flags derived from _NET_WM_STATE and _NET_WM_WINDOW_TYPE.
type WindowType struct {
	Fullscreen bool
	Dialog     bool
}

// Grab descriptions are shared with the key handler.
type (
	KeyGrab    = hotkeys.KeyGrab
	ButtonGrab = hotkeys.ButtonGrab
)

// BarrierDirection lists the directions a barrier lets the pointer through.
type BarrierDirection uint32

const (
	BarrierPositiveX BarrierDirection = 1 << 0
	BarrierPositiveY BarrierDirection = 1 << 1
	BarrierNegativeX BarrierDirection = 1 << 2
	BarrierNegativeY BarrierDirection = 1 << 3
)

// Barrier is a horizontal or vertical pointer barrier segment.
type Barrier struct {
	X1, Y1    int
	X2, Y2    int
	Direction BarrierDirection
}

// Protocol is an ICCCM WM_PROTOCOLS member the core may send.
type Protocol string

const (
	ProtocolDelete    Protocol = "WM_DELETE_WINDOW"
	ProtocolTakeFocus Protocol = "WM_TAKE_FOCUS"
)

// Backend is the windowing-system adapter used by the window manager core.
// All methods except Wake are called from the event loop goroutine only.
type Backend interface {
	// NextEvent blocks for the next notification. It returns false once the
	// connection is gone.
	NextEvent() (Event, bool)
	// PollEvent returns an already queued notification without blocking.
	PollEvent() (Event, bool)
	// Sync waits until every issued request has been processed and any
	// resulting events are queued.
	Sync()
	// Wake makes a blocked NextEvent return a Wake event. Safe to call from
	// any goroutine.
	Wake()

	Screen() tiling.Rect
	Heads() ([]tiling.Rect, error)
	Root() WindowID
	Pointer() (x, y int, ok bool)
	// WarpPointer moves the pointer relative to win; None means the root.
	WarpPointer(win WindowID, x, y int)

	Children() ([]WindowID, error)
	Attributes(win WindowID) (WindowAttributes, error)
	SelectClientInput(win WindowID)

	Configure(win WindowID, r tiling.Rect, border int)
	SendConfigure(win WindowID, r tiling.Rect, border int)
	ForwardConfigure(ev ConfigureRequest)
	Move(win WindowID, x, y int)
	SetBorderWidth(win WindowID, border int)
	SetBorder(win WindowID, scheme BorderScheme)
	Raise(win WindowID)
	// StackBelow places win directly below sibling, or at the bottom when
	// sibling is None.
	StackBelow(win, sibling WindowID)
	Map(win WindowID)

	SetInputFocus(win WindowID)
	FocusRoot()
	SetActiveWindow(win WindowID)
	ClearActiveWindow()
	SetClientList(wins []WindowID)

	// SendProtocol delivers a WM_PROTOCOLS message and reports whether the
	// client advertises support for it.
	SendProtocol(win WindowID, p Protocol) bool
	Kill(win WindowID)
	SetWMState(win WindowID, state WMState)
	WMState(win WindowID) (WMState, bool)
	SetFullscreenState(win WindowID, on bool)

	Title(win WindowID) string
	Class(win WindowID) (class, instance string)
	TransientFor(win WindowID) (WindowID, bool)
	NormalHints(win WindowID) (tiling.NormalHints, bool)
	WMHints(win WindowID) (WMHints, bool)
	ClearUrgency(win WindowID)
	WindowType(win WindowID) WindowType

	GrabKeys(keys []KeyGrab)
	UngrabKeys()
	RefreshKeyboard()
	GrabButtons(win WindowID, focused bool, buttons []ButtonGrab)
	UngrabButtons(win WindowID)
	// ReplayPointer releases the frozen pointer of a synchronous client
	// button grab and passes the click on to the client.
	ReplayPointer()
	GrabPointer(c Cursor) bool
	UngrabPointer()
	GrabServer()
	UngrabServer()
	// CleanMask strips lock modifiers and button bits from an event state.
	CleanMask(state uint16) uint16

	// SetBarriers replaces every pointer barrier with bs; nil removes them all.
	SetBarriers(bs []Barrier)
}
