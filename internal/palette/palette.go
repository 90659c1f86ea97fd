// Package palette shows pick-one menus through an external dmenu-style
// program (rofi or dmenu) and builds the window manager's menu tree.
package palette

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the menu without selecting an item.
var ErrCancelled = errors.New("menu cancelled")

// Item is a single selectable entry in a menu.
type Item struct {
	Label string
	// Value is returned to the caller on selection, e.g. "view 4".
	Value  string
	Active bool // highlighted as current
	Urgent bool
}

// Backend shows items to the user and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// runFunc runs a menu program with stdin and returns its stdout.
type runFunc func(name string, args []string, stdin string) (string, error)

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && !isCancelExit(err) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%s failed: %s", name, msg)
		}
		return string(out), fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), err
}

// DetectBackend returns the first menu program found in PATH, preferring
// rofi over dmenu.
func DetectBackend() (string, error) {
	for _, name := range []string{"rofi", "dmenu"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no menu program found in PATH (looked for: rofi, dmenu)")
}

// NewBackend creates a backend by name: auto, rofi or dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	switch name {
	case "rofi", "dmenu":
		if _, err := exec.LookPath(name); err != nil {
			return nil, fmt.Errorf("menu program %q not found in PATH", name)
		}
		return &menuProgram{command: name, rofi: name == "rofi", run: runCommand}, nil
	default:
		return nil, fmt.Errorf("unknown menu program: %q (expected: auto, rofi, dmenu)", name)
	}
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// rofi and dmenu exit 1 when nothing is selected, 130 on Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
