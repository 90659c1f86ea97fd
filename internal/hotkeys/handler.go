package hotkeys

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// buttonMask is selected by client button grabs.
const buttonMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease

// Handler owns the key and button grabs of the window manager.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	lockMask uint16
	keys     []KeyGrab
	keysyms  map[xproto.Keycode]string
}

// NewHandler creates a new grab handler and computes the ignored lock modifiers.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window) *Handler {
	h := &Handler{xu: xu, root: root}
	h.lockMask = configureIgnoreMods(xu)
	return h
}

// CleanMask strips lock modifiers and pointer button bits from an event state.
func (h *Handler) CleanMask(state uint16) uint16 {
	return state &^ h.lockMask & ModAllKeys &^ ModLock
}

// GrabKeys replaces all root key grabs with keys.
func (h *Handler) GrabKeys(keys []KeyGrab) {
	h.keys = append(h.keys[:0], keys...)
	h.regrabKeys()
}

func (h *Handler) regrabKeys() {
	xproto.UngrabKey(h.xu.Conn(), xproto.GrabAny, h.root, xproto.ModMaskAny)
	h.keysyms = make(map[xproto.Keycode]string)
	for _, k := range h.keys {
		for _, code := range keybind.StrToKeycodes(h.xu, k.Keysym) {
			h.keysyms[code] = k.Keysym
			keybind.Grab(h.xu, h.root, k.Mods, code)
		}
	}
}

// Keysym returns the bound keysym name for a keycode, falling back to the
// unshifted symbol of the current keyboard map.
func (h *Handler) Keysym(code xproto.Keycode) string {
	if sym, ok := h.keysyms[code]; ok {
		return sym
	}
	return keybind.LookupString(h.xu, 0, code)
}

// Refresh reloads the keyboard mapping after a MappingNotify and re-grabs keys.
func (h *Handler) Refresh() {
	keyMap, modMap := keybind.MapsGet(h.xu)
	keybind.KeyMapSet(h.xu, keyMap)
	keybind.ModMapSet(h.xu, modMap)
	h.lockMask = configureIgnoreMods(h.xu)
	h.regrabKeys()
}

// GrabButtons installs the button grabs of a client. Unfocused clients grab
// every button so a click can focus them; focused clients only grab the
// configured combinations.
func (h *Handler) GrabButtons(win xproto.Window, focused bool, buttons []ButtonGrab) {
	conn := h.xu.Conn()
	xproto.UngrabButton(conn, xproto.ButtonIndexAny, win, xproto.ModMaskAny)
	if !focused {
		xproto.GrabButton(conn, false, win, buttonMask,
			xproto.GrabModeSync, xproto.GrabModeSync, xproto.WindowNone, xproto.CursorNone,
			xproto.ButtonIndexAny, xproto.ModMaskAny)
		return
	}
	for _, b := range buttons {
		for _, ignore := range xevent.IgnoreMods {
			xproto.GrabButton(conn, false, win, buttonMask,
				xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
				b.Button, b.Mods|ignore)
		}
	}
}

// UngrabButtons removes every button grab on win.
func (h *Handler) UngrabButtons(win xproto.Window) {
	xproto.UngrabButton(h.xu.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny)
}

// UngrabKeys removes every root key grab.
func (h *Handler) UngrabKeys() {
	xproto.UngrabKey(h.xu.Conn(), xproto.GrabAny, h.root, xproto.ModMaskAny)
}

// configureIgnoreMods fills xevent.IgnoreMods with every combination of the
// lock modifiers and returns their union.
func configureIgnoreMods(xu *xgbutil.XUtil) uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = lockCombinations(base)

	var union uint16
	for _, m := range base {
		union |= m
	}
	return union
}

// lockCombinations returns 0 plus every non-empty subset union of base.
func lockCombinations(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if _, ok := unique[mask]; ok {
			continue
		}
		unique[mask] = struct{}{}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
