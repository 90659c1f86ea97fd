package wm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/tiling"
)

var (
	// ErrUnknownAction is returned for an action name outside the action table.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNoSelection is returned when an action needs a selected client.
	ErrNoSelection = errors.New("no client selected")
	// ErrPointerOnly is returned when a drag action is requested without a
	// button press.
	ErrPointerOnly = errors.New("action requires a pointer button binding")
	// ErrNotManaged is returned when an action names a window that is not
	// a managed client.
	ErrNotManaged = errors.New("window is not managed")
)

// Action is a bindable window manager command.
type Action int

const (
	ActionView Action = iota
	ActionToggleView
	ActionTag
	ActionToggleTag
	ActionShiftView
	ActionTagRel
	ActionFocusStack
	ActionMoveStack
	ActionSwapFocus
	ActionZoom
	ActionPop
	ActionActivate
	ActionFocusMon
	ActionFocusMonWarp
	ActionTagMon
	ActionSetLayout
	ActionSetMFact
	ActionIncNMaster
	ActionToggleFloating
	ActionToggleFullscreen
	ActionCenterFloater
	ActionMaximizeFloater
	ActionModGap
	ActionToggleBar
	ActionKillClient
	ActionSpawn
	ActionMoveMouse
	ActionResizeMouse
	ActionQuit
	ActionRestart
	numActions
)

var actionNames = [numActions]string{
	ActionView:             "view",
	ActionToggleView:       "toggleview",
	ActionTag:              "tag",
	ActionToggleTag:        "toggletag",
	ActionShiftView:        "shiftview",
	ActionTagRel:           "tagrel",
	ActionFocusStack:       "focusstack",
	ActionMoveStack:        "movestack",
	ActionSwapFocus:        "swapfocus",
	ActionZoom:             "zoom",
	ActionPop:              "pop",
	ActionActivate:         "activate",
	ActionFocusMon:         "focusmon",
	ActionFocusMonWarp:     "focusmonwarp",
	ActionTagMon:           "tagmon",
	ActionSetLayout:        "setlayout",
	ActionSetMFact:         "setmfact",
	ActionIncNMaster:       "incnmaster",
	ActionToggleFloating:   "togglefloating",
	ActionToggleFullscreen: "togglefullscreen",
	ActionCenterFloater:    "centerfloater",
	ActionMaximizeFloater:  "maximizefloater",
	ActionModGap:           "modgap",
	ActionToggleBar:        "togglebar",
	ActionKillClient:       "killclient",
	ActionSpawn:            "spawn",
	ActionMoveMouse:        "movemouse",
	ActionResizeMouse:      "resizemouse",
	ActionQuit:             "quit",
	ActionRestart:          "restart",
}

func (a Action) String() string {
	if a >= 0 && a < numActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction resolves an action name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAction, name)
}

// parseMask reads a tag mask argument. "~0" selects every tag and an empty
// argument is zero.
func parseMask(arg string) (uint32, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "":
		return 0, nil
	case "~0":
		return ^uint32(0), nil
	}
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tag mask %q", arg)
	}
	return uint32(v), nil
}

func parseInt(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", arg)
	}
	return v, nil
}

// Exec runs an action by name. It must be called on the event loop
// goroutine, for example through Do.
func (w *WM) Exec(name, arg string) error {
	a, err := ParseAction(name)
	if err != nil {
		return err
	}
	if a == ActionMoveMouse || a == ActionResizeMouse {
		return fmt.Errorf("%s: %w", a, ErrPointerOnly)
	}
	return w.run(a, arg)
}

// run dispatches a with its textual argument.
func (w *WM) run(a Action, arg string) error {
	switch a {
	case ActionView, ActionToggleView, ActionTag, ActionToggleTag:
		mask, err := parseMask(arg)
		if err != nil {
			return err
		}
		switch a {
		case ActionView:
			w.view(mask)
		case ActionToggleView:
			w.toggleView(mask)
		case ActionTag:
			w.tag(mask)
		case ActionToggleTag:
			w.toggleTag(mask)
		}
	case ActionShiftView, ActionTagRel, ActionFocusStack, ActionMoveStack,
		ActionFocusMon, ActionFocusMonWarp, ActionTagMon, ActionIncNMaster, ActionModGap:
		n, err := parseInt(arg)
		if err != nil {
			return err
		}
		switch a {
		case ActionShiftView:
			w.shiftView(n)
		case ActionTagRel:
			w.tagRel(n)
		case ActionFocusStack:
			w.focusStack(n)
		case ActionMoveStack:
			w.moveStack(n)
		case ActionFocusMon:
			w.focusMon(n)
		case ActionFocusMonWarp:
			w.focusMonWarp(n)
		case ActionTagMon:
			w.tagMon(n)
		case ActionIncNMaster:
			w.incNMaster(n)
		case ActionModGap:
			w.modGap(n)
		}
	case ActionSwapFocus:
		w.swapFocus()
	case ActionZoom:
		w.zoom()
	case ActionPop:
		c := w.selected()
		if c == nil {
			return ErrNoSelection
		}
		w.pop(c)
	case ActionActivate:
		win, err := strconv.ParseUint(strings.TrimSpace(arg), 0, 32)
		if err != nil {
			return fmt.Errorf("invalid window %q", arg)
		}
		c := w.reg.byWindow(platform.WindowID(win))
		if c == nil {
			return fmt.Errorf("window %#x: %w", win, ErrNotManaged)
		}
		w.activate(c)
	case ActionSetLayout:
		return w.setLayout(arg)
	case ActionSetMFact:
		f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return fmt.Errorf("invalid factor %q", arg)
		}
		w.setMFact(f)
	case ActionToggleFloating:
		w.toggleFloating()
	case ActionToggleFullscreen:
		c := w.selected()
		if c == nil {
			return ErrNoSelection
		}
		w.setFullscreen(c, !c.Fullscreen)
	case ActionCenterFloater:
		w.centerFloater()
	case ActionMaximizeFloater:
		w.maximizeFloater()
	case ActionToggleBar:
		w.toggleBar()
	case ActionKillClient:
		return w.killClient()
	case ActionSpawn:
		return w.spawnCommand(arg)
	case ActionMoveMouse:
		w.moveMouse()
	case ActionResizeMouse:
		w.resizeMouse()
	case ActionQuit:
		w.running = false
	case ActionRestart:
		w.restart = true
		w.running = false
	default:
		return fmt.Errorf("%w %d", ErrUnknownAction, int(a))
	}
	return nil
}

// setLayout selects layout index arg on the selected monitor. An empty
// argument switches back to the previous layout.
func (w *WM) setLayout(arg string) error {
	m := w.sel
	if arg = strings.TrimSpace(arg); arg == "" {
		m.Layout, m.prevLayout = m.prevLayout, m.Layout
	} else {
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 || i >= len(w.layouts) {
			return fmt.Errorf("invalid layout index %q", arg)
		}
		if w.layouts[i] != m.Layout {
			m.prevLayout = m.Layout
			m.Layout = w.layouts[i]
		}
	}
	m.Symbol = m.Layout.Symbol
	if m.Sel != 0 {
		w.arrange(m)
	}
	return nil
}

// setMFact adjusts the master factor. Factors below 1 are relative,
// larger ones absolute after subtracting 1.
func (w *WM) setMFact(f float64) {
	m := w.sel
	if !m.Layout.Arranges() {
		return
	}
	if f < 1.0 {
		f += m.MFact
	} else {
		f -= 1.0
	}
	if f < 0.1 || f > 0.9 {
		return
	}
	m.MFact = f
	w.arrange(m)
}

func (w *WM) incNMaster(i int) {
	w.sel.NMaster = max(w.sel.NMaster+i, 0)
	w.arrange(w.sel)
}

func (w *WM) toggleFloating() {
	c := w.selected()
	if c == nil || c.Fullscreen {
		return
	}
	c.Floating = !c.Floating || c.Fixed
	if c.Floating {
		w.resize(c, c.Geom, false)
	}
	w.arrange(w.sel)
}

// floatingSelection returns the selected client when it may be placed by
// hand.
func (w *WM) floatingSelection() *Client {
	c := w.selected()
	if c == nil || c.Fullscreen || !(c.Floating || !w.sel.Layout.Arranges()) {
		return nil
	}
	return c
}

func (w *WM) centerFloater() {
	c := w.floatingSelection()
	if c == nil {
		return
	}
	a := w.sel.Work
	w.resize(c, tiling.Rect{
		X:      a.X + int(0.5*float64(a.Width-c.Geom.Width-2*c.BW)),
		Y:      a.Y + int(0.5*float64(a.Height-c.Geom.Height-2*c.BW)),
		Width:  c.Geom.Width,
		Height: c.Geom.Height,
	}, false)
}

func (w *WM) maximizeFloater() {
	c := w.floatingSelection()
	if c == nil {
		return
	}
	w.resize(c, tiling.Inset(w.sel.Work, c.BW, w.gap), false)
}

func (w *WM) modGap(i int) {
	w.gap = max(w.gap+i, 0)
	w.logger.Info("gap changed", "gap", w.gap)
	for _, m := range w.mons {
		w.arrange(m)
	}
	w.updateBarriers()
}

func (w *WM) toggleBar() {
	m := w.sel
	m.ShowBar = !m.ShowBar
	w.updateBarPos(m)
	w.arrange(m)
	w.updateBarriers()
}

func (w *WM) killClient() error {
	c := w.selected()
	if c == nil {
		return ErrNoSelection
	}
	if !w.be.SendProtocol(c.Win, platform.ProtocolDelete) {
		w.be.Kill(c.Win)
	}
	return nil
}

func (w *WM) spawnCommand(name string) error {
	argv, ok := w.cfg.Commands[name]
	if !ok || len(argv) == 0 {
		return fmt.Errorf("spawn: no command named %q", name)
	}
	if err := w.spawn(argv); err != nil {
		w.logger.Error("spawn failed", "command", name, "error", err)
		return err
	}
	w.logger.Debug("spawned", "command", name, "argv", argv)
	return nil
}
