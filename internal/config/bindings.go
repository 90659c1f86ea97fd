package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/platform"
)

// actionNames lists every action a binding, IPC or MCP call may name.
var actionNames = []string{
	"view", "toggleview", "tag", "toggletag", "shiftview", "tagrel",
	"focusstack", "movestack", "swapfocus", "zoom", "pop", "activate",
	"focusmon", "focusmonwarp", "tagmon",
	"setlayout", "setmfact", "incnmaster",
	"togglefloating", "togglefullscreen", "centerfloater", "maximizefloater",
	"modgap", "togglebar", "killclient", "spawn",
	"movemouse", "resizemouse", "quit", "restart",
}

// ActionNames returns the bindable action names.
func ActionNames() []string {
	return append([]string(nil), actionNames...)
}

// KnownAction reports whether name is a bindable action.
func KnownAction(name string) bool {
	for _, n := range actionNames {
		if n == name {
			return true
		}
	}
	return false
}

// Key is a resolved key binding.
type Key struct {
	Mods   uint16
	Keysym string
	Action string
	Arg    string
}

// Button is a resolved button binding.
type Button struct {
	Click  ClickTarget
	Mods   uint16
	Button uint8
	Action string
	Arg    string
}

func (c *Config) expandModKey(s string) string {
	return strings.ReplaceAll(s, "MODKEY", c.ModKey)
}

// KeyBindings resolves the key table. Each tag key expands into
// view, toggleview, tag and toggletag bindings for its tag.
func (c *Config) KeyBindings() ([]Key, error) {
	mod, err := hotkeys.ParseModifiers(c.ModKey)
	if err != nil {
		return nil, fmt.Errorf("modkey: %w", err)
	}
	out := make([]Key, 0, len(c.Keys)+4*len(c.TagKeys))
	for _, k := range c.Keys {
		mods, sym, err := hotkeys.ParseKey(c.expandModKey(k.Keys))
		if err != nil {
			return nil, err
		}
		out = append(out, Key{Mods: mods, Keysym: sym, Action: k.Action, Arg: k.Arg})
	}
	for i, sym := range c.TagKeys {
		arg := fmt.Sprintf("%d", uint32(1)<<uint(i))
		out = append(out,
			Key{Mods: mod, Keysym: sym, Action: "view", Arg: arg},
			Key{Mods: mod | platform.ModControl, Keysym: sym, Action: "toggleview", Arg: arg},
			Key{Mods: mod | platform.ModShift, Keysym: sym, Action: "tag", Arg: arg},
			Key{Mods: mod | platform.ModControl | platform.ModShift, Keysym: sym, Action: "toggletag", Arg: arg},
		)
	}
	return out, nil
}

// ButtonBindings resolves the button table.
func (c *Config) ButtonBindings() ([]Button, error) {
	out := make([]Button, 0, len(c.Buttons))
	for _, b := range c.Buttons {
		mods, btn, err := hotkeys.ParseButton(c.expandModKey(b.Button))
		if err != nil {
			return nil, err
		}
		out = append(out, Button{Click: b.Click, Mods: mods, Button: btn, Action: b.Action, Arg: b.Arg})
	}
	return out, nil
}
