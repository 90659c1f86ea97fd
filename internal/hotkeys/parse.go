package hotkeys

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier masks, bit-compatible with the X core protocol.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7
	// ModAllKeys covers every key modifier bit; button state bits sit above it.
	ModAllKeys uint16 = 0xff
)

// KeyGrab is a key combination to grab on the root window.
type KeyGrab struct {
	Mods   uint16
	Keysym string
}

// ButtonGrab is a button combination to grab on focused clients.
type ButtonGrab struct {
	Mods   uint16
	Button uint8
}

var modifierNames = map[string]uint16{
	"shift":   ModShift,
	"lock":    ModLock,
	"control": ModControl,
	"ctrl":    ModControl,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"super":   Mod4,
	"mod5":    Mod5,
}

// ParseModifiers parses a "-" separated list of modifier names.
func ParseModifiers(s string) (uint16, error) {
	if s == "" {
		return 0, nil
	}
	var mods uint16
	for _, part := range strings.Split(s, "-") {
		m, ok := modifierNames[strings.ToLower(part)]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mods |= m
	}
	return mods, nil
}

// ParseKey splits a binding like "Mod1-Shift-Return" into modifiers and keysym.
func ParseKey(s string) (uint16, string, error) {
	mods, last, err := splitCombo(s)
	if err != nil {
		return 0, "", err
	}
	return mods, last, nil
}

// ParseButton splits a binding like "Mod1-1" into modifiers and a button number.
func ParseButton(s string) (uint16, uint8, error) {
	mods, last, err := splitCombo(s)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(last)
	if err != nil || n < 1 || n > 5 {
		return 0, 0, fmt.Errorf("invalid button %q in %q", last, s)
	}
	return mods, uint8(n), nil
}

// FormatKey renders modifiers and a keysym back into binding syntax.
func FormatKey(mods uint16, key string) string {
	var parts []string
	for _, name := range []string{"control", "shift", "mod1", "mod2", "mod3", "mod4", "mod5", "lock"} {
		if mods&modifierNames[name] != 0 {
			parts = append(parts, strings.ToUpper(name[:1])+name[1:])
		}
	}
	return strings.Join(append(parts, key), "-")
}

func splitCombo(s string) (uint16, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("empty binding")
	}
	// A trailing "-" names the minus key itself.
	idx := strings.LastIndex(s[:len(s)-1], "-")
	if idx < 0 {
		return 0, s, nil
	}
	mods, err := ParseModifiers(s[:idx])
	if err != nil {
		return 0, "", fmt.Errorf("binding %q: %w", s, err)
	}
	return mods, s[idx+1:], nil
}
