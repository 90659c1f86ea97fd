package wm

import (
	"fmt"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/platform"
)

type keyBinding struct {
	mods   uint16
	keysym string
	action Action
	arg    string
}

type buttonBinding struct {
	click  config.ClickTarget
	mods   uint16
	button uint8
	action Action
	arg    string
}

// loadBindings resolves the configured key and button tables into
// dispatchable bindings and the client button grabs.
func (w *WM) loadBindings() error {
	keys, err := w.cfg.KeyBindings()
	if err != nil {
		return fmt.Errorf("key bindings: %w", err)
	}
	for _, k := range keys {
		a, err := ParseAction(k.Action)
		if err != nil {
			return fmt.Errorf("key %s: %w", k.Keysym, err)
		}
		w.keys = append(w.keys, keyBinding{mods: k.Mods, keysym: k.Keysym, action: a, arg: k.Arg})
	}

	buttons, err := w.cfg.ButtonBindings()
	if err != nil {
		return fmt.Errorf("button bindings: %w", err)
	}
	for _, b := range buttons {
		a, err := ParseAction(b.Action)
		if err != nil {
			return fmt.Errorf("button %d: %w", b.Button, err)
		}
		w.buttons = append(w.buttons, buttonBinding{
			click: b.Click, mods: b.Mods, button: b.Button, action: a, arg: b.Arg,
		})
		if b.Click == config.ClickClient {
			w.grabs = append(w.grabs, platform.ButtonGrab{Mods: b.Mods, Button: b.Button})
		}
	}
	return nil
}

func (w *WM) grabKeys() {
	grabs := make([]platform.KeyGrab, 0, len(w.keys))
	for _, k := range w.keys {
		grabs = append(grabs, platform.KeyGrab{Mods: k.mods, Keysym: k.keysym})
	}
	w.be.GrabKeys(grabs)
}
