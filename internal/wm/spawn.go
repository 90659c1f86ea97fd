package wm

import (
	"fmt"
	"os/exec"
	"syscall"
)

// spawnDetached starts argv in its own session and reaps it in the
// background.
func spawnDetached(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", argv[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
