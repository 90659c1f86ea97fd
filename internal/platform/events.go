package platform

// Event is a protocol notification delivered to the core.
type Event interface {
	Kind() EventKind
}

// EventKind identifies an Event's concrete type for table dispatch.
type EventKind int

const (
	KindMapRequest EventKind = iota
	KindConfigureRequest
	KindConfigureNotify
	KindDestroyNotify
	KindUnmapNotify
	KindEnterNotify
	KindMotionNotify
	KindButtonPress
	KindButtonRelease
	KindKeyPress
	KindPropertyNotify
	KindStateRequest
	KindActivateRequest
	KindExpose
	KindFocusIn
	KindMappingNotify
	KindScreenChange
	KindWake
	numKinds
)

// NumKinds is the size of a dispatch table indexed by EventKind.
const NumKinds = int(numKinds)

// ConfigMask flags which fields of a ConfigureRequest are set.
type ConfigMask uint16

const (
	ConfigX ConfigMask = 1 << iota
	ConfigY
	ConfigWidth
	ConfigHeight
	ConfigBorderWidth
	ConfigSibling
	ConfigStackMode
)

// Property identifies the client properties the core watches.
type Property int

const (
	PropOther Property = iota
	PropTransientFor
	PropNormalHints
	PropHints
	PropName
	PropWindowType
)

// StateAction is the _NET_WM_STATE client message action.
type StateAction int

const (
	StateRemove StateAction = 0
	StateAdd    StateAction = 1
	StateToggle StateAction = 2
)

type MapRequest struct{ Window WindowID }

type ConfigureRequest struct {
	Window      WindowID
	Mask        ConfigMask
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	Sibling     WindowID
	StackMode   int
}

type ConfigureNotify struct {
	Window        WindowID
	Width, Height int
}

type DestroyNotify struct{ Window WindowID }

type UnmapNotify struct {
	Window WindowID
	// SendEvent marks a synthetic unmap sent by the client itself.
	SendEvent bool
}

type EnterNotify struct {
	Window WindowID
	// Normal is false for grab/ungrab crossings.
	Normal   bool
	Inferior bool
}

type MotionNotify struct {
	Window       WindowID
	RootX, RootY int
}

type ButtonPress struct {
	Window       WindowID
	Button       uint8
	State        uint16
	RootX, RootY int
}

type ButtonRelease struct {
	Window WindowID
	Button uint8
}

type KeyPress struct {
	Keysym string
	State  uint16
}

type PropertyNotify struct {
	Window  WindowID
	Prop    Property
	Deleted bool
}

// StateRequest is a _NET_WM_STATE client message naming the fullscreen state.
type StateRequest struct {
	Window WindowID
	Action StateAction
}

// ActivateRequest is a _NET_ACTIVE_WINDOW client message.
type ActivateRequest struct{ Window WindowID }

type Expose struct {
	Window WindowID
	Count  int
}

type FocusIn struct{ Window WindowID }

type MappingNotify struct{ Keyboard bool }

// ScreenChange reports an output topology change.
type ScreenChange struct{ Width, Height int }

// Wake interrupts a blocked NextEvent so queued commands can run.
type Wake struct{}

func (MapRequest) Kind() EventKind       { return KindMapRequest }
func (ConfigureRequest) Kind() EventKind { return KindConfigureRequest }
func (ConfigureNotify) Kind() EventKind  { return KindConfigureNotify }
func (DestroyNotify) Kind() EventKind    { return KindDestroyNotify }
func (UnmapNotify) Kind() EventKind      { return KindUnmapNotify }
func (EnterNotify) Kind() EventKind      { return KindEnterNotify }
func (MotionNotify) Kind() EventKind     { return KindMotionNotify }
func (ButtonPress) Kind() EventKind      { return KindButtonPress }
func (ButtonRelease) Kind() EventKind    { return KindButtonRelease }
func (KeyPress) Kind() EventKind         { return KindKeyPress }
func (PropertyNotify) Kind() EventKind   { return KindPropertyNotify }
func (StateRequest) Kind() EventKind     { return KindStateRequest }
func (ActivateRequest) Kind() EventKind  { return KindActivateRequest }
func (Expose) Kind() EventKind           { return KindExpose }
func (FocusIn) Kind() EventKind          { return KindFocusIn }
func (MappingNotify) Kind() EventKind    { return KindMappingNotify }
func (ScreenChange) Kind() EventKind     { return KindScreenChange }
func (Wake) Kind() EventKind             { return KindWake }
