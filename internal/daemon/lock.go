package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/1broseidon/tagwm/internal/runtimepath"
)

// ErrAlreadyRunning is returned by AcquireLock when another process holds
// the display's instance lock.
var ErrAlreadyRunning = errors.New("another tagwm instance is running on this display")

// AcquireLock takes the per-display instance lock without waiting. The
// caller must Unlock it. The lock also guards the control socket, which
// the IPC server replaces on start.
func AcquireLock(display string) (*flock.Flock, error) {
	lockPath, err := runtimepath.LockPath(display)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0700); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring instance lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, lockPath)
	}
	return lock, nil
}
