package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/tagwm-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv("TAGWM_SOCKET", "")

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if want := filepath.Join(td, "tagwm.sock"); got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}

	t.Setenv("TAGWM_SOCKET", "/tmp/custom.sock")
	if got, _ := SocketPath(); got != "/tmp/custom.sock" {
		t.Fatalf("SocketPath() with override = %q", got)
	}
}

func TestLockPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	tests := []struct {
		display string
		want    string
	}{
		{display: ":0", want: "tagwm-_0.lock"},
		{display: "localhost:10.0", want: "tagwm-localhost_10.0.lock"},
		{display: "/tmp/.X11-unix/X1", want: "tagwm-_tmp_.X11-unix_X1.lock"},
		{display: "", want: "tagwm-default.lock"},
	}
	for _, tt := range tests {
		got, err := LockPath(tt.display)
		if err != nil {
			t.Fatalf("LockPath(%q) error: %v", tt.display, err)
		}
		if want := filepath.Join(td, tt.want); got != want {
			t.Errorf("LockPath(%q) = %q, want %q", tt.display, got, want)
		}
	}
}
