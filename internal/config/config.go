package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/tagwm/internal/hotkeys"
	"github.com/1broseidon/tagwm/internal/tiling"
	"gopkg.in/yaml.v3"
)

// MaxTags is the width of a tag mask.
const MaxTags = 31

// Colors holds the border colors as "#rrggbb" strings.
type Colors struct {
	NormalBorder  string `yaml:"normal_border"`
	FocusedBorder string `yaml:"focused_border"`
	UrgentBorder  string `yaml:"urgent_border"`
}

// Rule assigns initial properties to windows by substring match on
// class, instance and title. Empty fields match anything.
type Rule struct {
	Class     string `yaml:"class,omitempty"`
	Instance  string `yaml:"instance,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Tags      uint32 `yaml:"tags"`
	Floating  bool   `yaml:"floating"`
	Monitor   int    `yaml:"monitor"`
	SizeHints bool   `yaml:"size_hints"`
}

// UnmarshalYAML defaults Monitor to -1 when the key is absent.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type plain Rule
	out := plain{Monitor: -1}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*r = Rule(out)
	return nil
}

// Matches reports whether the rule applies to a window.
func (r Rule) Matches(class, instance, title string) bool {
	return strings.Contains(title, r.Title) &&
		strings.Contains(class, r.Class) &&
		strings.Contains(instance, r.Instance)
}

// Layout pairs a bar symbol with an arrange kind.
type Layout struct {
	Symbol  string `yaml:"symbol"`
	Arrange string `yaml:"arrange"`
}

// KeyBinding binds a key combination such as "MODKEY-Shift-Return" to an
// action. MODKEY expands to the configured modkey.
type KeyBinding struct {
	Keys   string `yaml:"keys"`
	Action string `yaml:"action"`
	Arg    string `yaml:"arg,omitempty"`
}

// ButtonBinding binds a pointer button over a click target.
type ButtonBinding struct {
	Click  ClickTarget `yaml:"click"`
	Button string      `yaml:"button"`
	Action string      `yaml:"action"`
	Arg    string      `yaml:"arg,omitempty"`
}

// ClickTarget names where a button press landed.
type ClickTarget string

const (
	ClickClient ClickTarget = "client"
	ClickRoot   ClickTarget = "root"
)

// Config is the effective window manager configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	BorderPx  int    `yaml:"border_px"`
	Snap      int    `yaml:"snap"`
	GapPx     int    `yaml:"gap_px"`
	BarHeight int    `yaml:"bar_height"`
	ShowBar   bool   `yaml:"show_bar"`
	TopBar    bool   `yaml:"top_bar"`
	Barriers  bool   `yaml:"barriers"`

	Tags             []string `yaml:"tags"`
	StartupTags      uint32   `yaml:"startup_tags"`
	StartupTagsMulti []uint32 `yaml:"startup_tags_multi"`

	NMaster           int     `yaml:"nmaster"`
	NMasterDynamicMax int     `yaml:"nmaster_dynamic_max"`
	MFact             float64 `yaml:"mfact"`
	SizeHintsDefault  bool    `yaml:"size_hints_default"`

	Colors  Colors   `yaml:"colors"`
	Rules   []Rule   `yaml:"rules"`
	Layouts []Layout `yaml:"layouts"`

	ModKey   string              `yaml:"modkey"`
	TagKeys  []string            `yaml:"tag_keys"`
	Keys     []KeyBinding        `yaml:"keys"`
	Buttons  []ButtonBinding     `yaml:"buttons"`
	Commands map[string][]string `yaml:"commands"`

	// Menu is the program behind "tagwm menu": auto, rofi or dmenu.
	Menu string `yaml:"menu"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		BorderPx:  5,
		Snap:      32,
		GapPx:     5,
		BarHeight: 0,
		ShowBar:   true,
		TopBar:    true,
		Barriers:  false,

		Tags:             []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		StartupTags:      1,
		StartupTagsMulti: []uint32{1, 2, 8, 16},

		NMaster:           0,
		NMasterDynamicMax: 4,
		MFact:             0.55,
		SizeHintsDefault:  true,

		Colors: Colors{
			NormalBorder:  "#222222",
			FocusedBorder: "#005577",
			UrgentBorder:  "#AA0000",
		},
		Rules: []Rule{
			{Class: "Gimp", Floating: true, Monitor: -1},
			{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
		},
		Layouts: []Layout{
			{Symbol: "[]=", Arrange: "tile"},
			{Symbol: "><>", Arrange: "float"},
			{Symbol: "[M]", Arrange: "monocle"},
		},

		ModKey:  "Mod1",
		TagKeys: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Keys: []KeyBinding{
			{Keys: "MODKEY-p", Action: "spawn", Arg: "dmenu"},
			{Keys: "MODKEY-Shift-Return", Action: "spawn", Arg: "term"},
			{Keys: "MODKEY-b", Action: "togglebar"},
			{Keys: "MODKEY-j", Action: "focusstack", Arg: "+1"},
			{Keys: "MODKEY-k", Action: "focusstack", Arg: "-1"},
			{Keys: "MODKEY-i", Action: "incnmaster", Arg: "+1"},
			{Keys: "MODKEY-d", Action: "incnmaster", Arg: "-1"},
			{Keys: "MODKEY-h", Action: "setmfact", Arg: "-0.05"},
			{Keys: "MODKEY-l", Action: "setmfact", Arg: "+0.05"},
			{Keys: "MODKEY-Tab", Action: "view"},
			{Keys: "MODKEY-Shift-c", Action: "killclient"},
			{Keys: "MODKEY-t", Action: "setlayout", Arg: "0"},
			{Keys: "MODKEY-f", Action: "setlayout", Arg: "1"},
			{Keys: "MODKEY-m", Action: "setlayout", Arg: "2"},
			{Keys: "MODKEY-space", Action: "setlayout"},
			{Keys: "MODKEY-Shift-space", Action: "togglefloating"},
			{Keys: "MODKEY-0", Action: "view", Arg: "~0"},
			{Keys: "MODKEY-Shift-0", Action: "tag", Arg: "~0"},
			{Keys: "MODKEY-comma", Action: "focusmonwarp", Arg: "-1"},
			{Keys: "MODKEY-period", Action: "focusmonwarp", Arg: "+1"},
			{Keys: "MODKEY-Control-comma", Action: "focusmon", Arg: "-1"},
			{Keys: "MODKEY-Control-period", Action: "focusmon", Arg: "+1"},
			{Keys: "MODKEY-Shift-comma", Action: "tagmon", Arg: "-1"},
			{Keys: "MODKEY-Shift-period", Action: "tagmon", Arg: "+1"},
			{Keys: "MODKEY-Shift-q", Action: "quit"},
		},
		Buttons: []ButtonBinding{
			{Click: ClickClient, Button: "MODKEY-1", Action: "movemouse"},
			{Click: ClickClient, Button: "MODKEY-2", Action: "togglefloating"},
			{Click: ClickClient, Button: "MODKEY-3", Action: "resizemouse"},
		},
		Commands: map[string][]string{
			"dmenu": {"dmenu_run", "-nb", "#222222", "-nf", "#bbbbbb", "-sb", "#005577", "-sf", "#eeeeee"},
			"term":  {"uxterm"},
		},
		Menu: "auto",
	}
}

// TagMask is the mask with one bit set per configured tag.
func (c *Config) TagMask() uint32 {
	return uint32(1)<<uint(len(c.Tags)) - 1
}

// TiledLayouts converts the configured layouts.
func (c *Config) TiledLayouts() []tiling.Layout {
	out := make([]tiling.Layout, 0, len(c.Layouts))
	for _, l := range c.Layouts {
		kind, err := tiling.ParseArrangeKind(l.Arrange)
		if err != nil {
			kind = tiling.ArrangeFloat
		}
		out = append(out, tiling.Layout{Symbol: l.Symbol, Arrange: kind})
	}
	return out
}

// Validate checks the configuration and prints non-fatal warnings.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.Menu {
	case "auto", "rofi", "dmenu":
	default:
		return &ValidationError{Path: "menu", Err: fmt.Errorf("menu must be one of: auto, rofi, dmenu")}
	}
	if c.BorderPx < 0 {
		return &ValidationError{Path: "border_px", Err: fmt.Errorf("border_px must be >= 0")}
	}
	if c.Snap < 0 {
		return &ValidationError{Path: "snap", Err: fmt.Errorf("snap must be >= 0")}
	}
	if c.GapPx < 0 {
		return &ValidationError{Path: "gap_px", Err: fmt.Errorf("gap_px must be >= 0")}
	}
	if c.BarHeight < 0 {
		return &ValidationError{Path: "bar_height", Err: fmt.Errorf("bar_height must be >= 0")}
	}
	if len(c.Tags) == 0 || len(c.Tags) > MaxTags {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("tags must have between 1 and %d entries", MaxTags)}
	}
	mask := c.TagMask()
	if c.StartupTags == 0 || c.StartupTags&^mask != 0 {
		return &ValidationError{Path: "startup_tags", Err: fmt.Errorf("startup_tags %#x must be non-zero within tag mask %#x", c.StartupTags, mask)}
	}
	if c.MFact < 0.05 || c.MFact > 0.95 {
		return &ValidationError{Path: "mfact", Err: fmt.Errorf("mfact must be within [0.05, 0.95]")}
	}
	if c.NMaster < 0 {
		return &ValidationError{Path: "nmaster", Err: fmt.Errorf("nmaster must be >= 0")}
	}
	if c.NMasterDynamicMax < 1 {
		return &ValidationError{Path: "nmaster_dynamic_max", Err: fmt.Errorf("nmaster_dynamic_max must be >= 1")}
	}
	for name, value := range map[string]string{
		"colors.normal_border":  c.Colors.NormalBorder,
		"colors.focused_border": c.Colors.FocusedBorder,
		"colors.urgent_border":  c.Colors.UrgentBorder,
	} {
		if !validColor(value) {
			return &ValidationError{Path: name, Err: fmt.Errorf("invalid color %q, want #rrggbb", value)}
		}
	}

	for i, r := range c.Rules {
		if r.Tags&^mask != 0 {
			return &ValidationError{Path: fmt.Sprintf("rules[%d].tags", i), Err: fmt.Errorf("tag mask %#x exceeds %d tags", r.Tags, len(c.Tags))}
		}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	for i, l := range c.Layouts {
		if _, err := tiling.ParseArrangeKind(l.Arrange); err != nil {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d].arrange", i), Err: err}
		}
	}

	if _, err := hotkeys.ParseModifiers(c.ModKey); err != nil {
		return &ValidationError{Path: "modkey", Err: err}
	}
	if len(c.TagKeys) > len(c.Tags) {
		return &ValidationError{Path: "tag_keys", Err: fmt.Errorf("%d tag keys for %d tags", len(c.TagKeys), len(c.Tags))}
	}
	for i, k := range c.Keys {
		if _, _, err := hotkeys.ParseKey(c.expandModKey(k.Keys)); err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys[%d].keys", i), Err: err}
		}
		if err := c.validateAction(k.Action, k.Arg); err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys[%d].action", i), Err: err}
		}
	}
	for i, b := range c.Buttons {
		if b.Click != ClickClient && b.Click != ClickRoot {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d].click", i), Err: fmt.Errorf("click must be one of: client, root")}
		}
		if _, _, err := hotkeys.ParseButton(c.expandModKey(b.Button)); err != nil {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d].button", i), Err: err}
		}
		if err := c.validateAction(b.Action, b.Arg); err != nil {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d].action", i), Err: err}
		}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validateAction(name, arg string) error {
	if !KnownAction(name) {
		return fmt.Errorf("unknown action %q", name)
	}
	if name == "spawn" {
		if _, ok := c.Commands[arg]; !ok {
			return fmt.Errorf("spawn: no command named %q", arg)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	for i, r := range c.Rules {
		if r.Class == "" && r.Instance == "" && r.Title == "" {
			warnings = append(warnings, fmt.Sprintf("rules[%d] has no class, instance or title and matches every window", i))
		}
	}
	for i, b := range c.Buttons {
		if b.Click == ClickRoot && (b.Action == "movemouse" || b.Action == "resizemouse") {
			warnings = append(warnings, fmt.Sprintf("buttons[%d]: %s on the root window does nothing", i, b.Action))
		}
	}
	return warnings
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
