package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/wm"
)

const backValue = "__back__"

// Category is a submenu of the root menu.
type Category struct {
	Label string
	Items []Item
}

// Choice is a selected action and its argument.
type Choice struct {
	Action string
	Arg    string
}

// ParseChoice splits an item value such as "view 4".
func ParseChoice(value string) Choice {
	action, arg, _ := strings.Cut(strings.TrimSpace(value), " ")
	return Choice{Action: action, Arg: strings.TrimSpace(arg)}
}

// Menu handles two-level navigation: pick a category, then an item.
type Menu struct {
	backend Backend
	prompt  string
}

// NewMenu creates a menu shown through backend.
func NewMenu(backend Backend, prompt string) *Menu {
	return &Menu{backend: backend, prompt: prompt}
}

// Pick shows the categories and returns the chosen action, or ErrCancelled
// if the user exits. Leaving a submenu returns to the categories.
func (m *Menu) Pick(categories []Category) (Choice, error) {
	var roots []Item
	var index []int
	for i, c := range categories {
		if len(c.Items) == 0 {
			continue
		}
		roots = append(roots, Item{Label: c.Label + " →", Value: fmt.Sprint(len(index))})
		index = append(index, i)
	}
	if len(roots) == 0 {
		return Choice{}, fmt.Errorf("menu: nothing to show")
	}

	for {
		sel, err := m.backend.Show(m.prompt, roots)
		if err != nil {
			return Choice{}, err
		}
		var n int
		if _, err := fmt.Sscan(sel.Value, &n); err != nil || n < 0 || n >= len(index) {
			continue
		}
		cat := categories[index[n]]

		items := append([]Item{{Label: "← Back", Value: backValue}}, cat.Items...)
		pick, err := m.backend.Show(cat.Label, items)
		if errors.Is(err, ErrCancelled) || (err == nil && pick.Value == backValue) {
			continue
		}
		if err != nil {
			return Choice{}, err
		}
		return ParseChoice(pick.Value), nil
	}
}

// Categories builds the window manager menu from live state and the
// configuration's tag names and layouts.
func Categories(cfg *config.Config, mons []wm.MonitorState, clients []wm.ClientState) []Category {
	var sel wm.MonitorState
	for _, m := range mons {
		if m.Selected {
			sel = m
		}
	}
	var focused *wm.ClientState
	for i := range clients {
		if clients[i].Focused {
			focused = &clients[i]
		}
	}

	var windows []Item
	for _, c := range clients {
		title := c.Title
		if title == "" {
			title = c.Instance
		}
		windows = append(windows, Item{
			Label:  fmt.Sprintf("%d:%s  %s: %s", c.Monitor, tagNames(cfg.Tags, c.Tags), c.Class, title),
			Value:  fmt.Sprintf("activate %#x", uint32(c.Window)),
			Active: c.Focused,
			Urgent: c.Urgent,
		})
	}

	var view, send []Item
	for i, name := range cfg.Tags {
		mask := uint32(1) << i
		view = append(view, Item{
			Label:  name,
			Value:  fmt.Sprintf("view %d", mask),
			Active: sel.Tags&mask != 0,
		})
		if focused != nil {
			send = append(send, Item{
				Label:  name,
				Value:  fmt.Sprintf("tag %d", mask),
				Active: focused.Tags&mask != 0,
			})
		}
	}
	view = append(view, Item{Label: "all", Value: "view ~0", Active: sel.Tags == cfg.TagMask()})

	var layouts []Item
	for i, l := range cfg.Layouts {
		layouts = append(layouts, Item{
			Label:  fmt.Sprintf("%s  %s", l.Symbol, l.Arrange),
			Value:  fmt.Sprintf("setlayout %d", i),
			Active: l.Symbol == sel.Symbol,
		})
	}

	actions := []Item{{Label: "toggle bar", Value: "togglebar"}}
	if focused != nil {
		actions = append([]Item{
			{Label: "zoom", Value: "zoom"},
			{Label: "toggle floating", Value: "togglefloating", Active: focused.Floating},
			{Label: "toggle fullscreen", Value: "togglefullscreen", Active: focused.Fullscreen},
			{Label: "center floater", Value: "centerfloater"},
			{Label: "close window", Value: "killclient"},
		}, actions...)
	}
	if len(mons) > 1 {
		actions = append(actions,
			Item{Label: "focus next monitor", Value: "focusmonwarp 1"},
			Item{Label: "focus previous monitor", Value: "focusmonwarp -1"})
		if focused != nil {
			actions = append(actions, Item{Label: "send window to next monitor", Value: "tagmon 1"})
		}
	}
	actions = append(actions,
		Item{Label: "restart tagwm", Value: "restart"},
		Item{Label: "quit tagwm", Value: "quit"})

	return []Category{
		{Label: "Windows", Items: windows},
		{Label: "View tag", Items: view},
		{Label: "Send window to tag", Items: send},
		{Label: "Layout", Items: layouts},
		{Label: "Actions", Items: actions},
	}
}

// tagNames renders a mask with the configured tag names, e.g. "1,3".
func tagNames(names []string, mask uint32) string {
	var parts []string
	for i, n := range names {
		if mask&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
