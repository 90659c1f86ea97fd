package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tagwm/internal/platform"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if got := cfg.TagMask(); got != 0x1ff {
		t.Fatalf("TagMask() = %#x, want 0x1ff", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MFact != 0.55 || res.Config.BorderPx != 5 {
		t.Fatalf("expected defaults, got mfact=%v border=%d", res.Config.MFact, res.Config.BorderPx)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Layouts) != 3 {
		t.Fatalf("expected 3 default layouts, got %d", len(res.Config.Layouts))
	}
}

func TestLoadFromPath_BlankAndCommentOnlyFiles(t *testing.T) {
	for name, body := range map[string]string{
		"empty":    "",
		"blank":    "\n\n  \n",
		"comments": "# gaps\n# borders\n",
		"null doc": "---\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", body)
			res, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if res.Config.GapPx != DefaultConfig().GapPx || len(res.Config.Tags) != 9 {
				t.Fatalf("defaults not kept: gap %d, %d tags", res.Config.GapPx, len(res.Config.Tags))
			}
		})
	}
}

func TestLoadFromPath_OverridesScalarsKeepsOthers(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"gap_px: 0",
		"mfact: 0.6",
		"commands:",
		"  browser: [\"firefox\"]",
		"",
	}, "\n"))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.GapPx != 0 || cfg.MFact != 0.6 {
		t.Fatalf("overrides not applied: gap=%d mfact=%v", cfg.GapPx, cfg.MFact)
	}
	if cfg.Snap != 32 {
		t.Fatalf("snap = %d, want default 32", cfg.Snap)
	}
	if _, ok := cfg.Commands["term"]; !ok {
		t.Fatalf("expected default commands to survive, got %v", cfg.Commands)
	}
	if _, ok := cfg.Commands["browser"]; !ok {
		t.Fatalf("expected browser command, got %v", cfg.Commands)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "border_width: 3\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "snap: 10\nmfact: 0.99\n")
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
	if verr.Path != "mfact" {
		t.Fatalf("path = %q, want mfact", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("line = %d, want 2", verr.Source.Line)
	}
}

func TestLoadFromPath_RuleMonitorDefaultsToAny(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "rules:\n  - {class: mpv, floating: true}\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Rules) != 1 {
		t.Fatalf("expected rules to be replaced, got %d", len(res.Config.Rules))
	}
	if res.Config.Rules[0].Monitor != -1 {
		t.Fatalf("monitor = %d, want -1", res.Config.Rules[0].Monitor)
	}
}

func TestLoadFromPath_Includes(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "conf.d"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, dir, "conf.d/10-gaps.yaml", "gap_px: 12\nsnap: 8\n")
	writeConfig(t, dir, "conf.d/notes.txt", "not yaml")
	path := writeConfig(t, dir, "config.yaml", "include: conf.d\nsnap: 16\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GapPx != 12 {
		t.Fatalf("gap = %d, want 12 from include", res.Config.GapPx)
	}
	if res.Config.Snap != 16 {
		t.Fatalf("snap = %d, want 16 (including file wins)", res.Config.Snap)
	}
	if len(res.Files) != 2 {
		t.Fatalf("files = %v, want 2 entries", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")
	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"no tags", func(c *Config) { c.Tags = nil }, "tags"},
		{"too many tags", func(c *Config) { c.Tags = make([]string, 32) }, "tags"},
		{"mfact low", func(c *Config) { c.MFact = 0.01 }, "mfact"},
		{"negative border", func(c *Config) { c.BorderPx = -1 }, "border_px"},
		{"negative gap", func(c *Config) { c.GapPx = -1 }, "gap_px"},
		{"negative snap", func(c *Config) { c.Snap = -1 }, "snap"},
		{"no layouts", func(c *Config) { c.Layouts = nil }, "layouts"},
		{"bad arrange", func(c *Config) { c.Layouts[0].Arrange = "spiral" }, "layouts[0].arrange"},
		{"bad action", func(c *Config) { c.Keys[0].Action = "explode" }, "keys[0].action"},
		{"bad modkey", func(c *Config) { c.ModKey = "Hyper" }, "modkey"},
		{"bad modifier in key", func(c *Config) { c.Keys[0].Keys = "Meta-x" }, "keys[0].keys"},
		{"rule mask too wide", func(c *Config) { c.Rules[1].Tags = 1 << 9 }, "rules[1].tags"},
		{"bad color", func(c *Config) { c.Colors.UrgentBorder = "red" }, "colors.urgent_border"},
		{"unknown spawn", func(c *Config) { c.Keys[0].Arg = "missing" }, "keys[0].action"},
		{"bad menu", func(c *Config) { c.Menu = "wofi" }, "menu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestValidate_UnknownRuleMonitorAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules[0].Monitor = 7
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected out-of-range monitor to validate, got %v", err)
	}
}

func TestKeyBindings_ExpandsTagKeys(t *testing.T) {
	cfg := DefaultConfig()
	keys, err := cfg.KeyBindings()
	if err != nil {
		t.Fatalf("KeyBindings: %v", err)
	}
	if want := len(cfg.Keys) + 4*len(cfg.TagKeys); len(keys) != want {
		t.Fatalf("len = %d, want %d", len(keys), want)
	}

	var found int
	for _, k := range keys {
		if k.Keysym != "3" {
			continue
		}
		if k.Arg != "4" {
			t.Fatalf("tag key 3 arg = %q, want 4", k.Arg)
		}
		switch k.Action {
		case "view":
			if k.Mods != platform.Mod1 {
				t.Fatalf("view mods = %#x", k.Mods)
			}
		case "toggletag":
			if k.Mods != platform.Mod1|platform.ModControl|platform.ModShift {
				t.Fatalf("toggletag mods = %#x", k.Mods)
			}
		}
		found++
	}
	if found != 4 {
		t.Fatalf("found %d bindings for key 3, want 4", found)
	}
}

func TestKeyBindings_ModKeyExpansion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModKey = "Mod4"
	cfg.Keys = []KeyBinding{{Keys: "MODKEY-Shift-Return", Action: "spawn", Arg: "term"}}
	cfg.TagKeys = nil
	keys, err := cfg.KeyBindings()
	if err != nil {
		t.Fatalf("KeyBindings: %v", err)
	}
	if len(keys) != 1 || keys[0].Mods != platform.Mod4|platform.ModShift || keys[0].Keysym != "Return" {
		t.Fatalf("unexpected bindings %+v", keys)
	}
}

func TestButtonBindings_Defaults(t *testing.T) {
	buttons, err := DefaultConfig().ButtonBindings()
	if err != nil {
		t.Fatalf("ButtonBindings: %v", err)
	}
	want := map[uint8]string{1: "movemouse", 2: "togglefloating", 3: "resizemouse"}
	for _, b := range buttons {
		if b.Click != ClickClient || b.Mods != platform.Mod1 || want[b.Button] != b.Action {
			t.Fatalf("unexpected button %+v", b)
		}
	}
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		rule                   Rule
		class, instance, title string
		want                   bool
	}{
		{Rule{Class: "Gimp"}, "Gimp-2.10", "gimp", "GNU Image", true},
		{Rule{Class: "Gimp"}, "firefox", "Navigator", "Gimp docs", false},
		{Rule{Title: "Picture"}, "firefox", "Navigator", "Picture-in-Picture", true},
		{Rule{Class: "a", Instance: "b"}, "a", "c", "", false},
		{Rule{}, "x", "y", "z", true},
	}
	for _, tt := range tests {
		if got := tt.rule.Matches(tt.class, tt.instance, tt.title); got != tt.want {
			t.Errorf("%+v.Matches(%q,%q,%q) = %v, want %v", tt.rule, tt.class, tt.instance, tt.title, got, tt.want)
		}
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		t.Fatalf("printed config is not yaml: %v", err)
	}
	path := writeConfig(t, t.TempDir(), "config.yaml", string(data))
	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("printed config does not load: %v", err)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if path != "/tmp/xdg/tagwm/config.yaml" {
		t.Fatalf("path = %q", path)
	}
}
