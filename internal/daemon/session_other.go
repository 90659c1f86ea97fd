//go:build !linux

package daemon

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/tagwm/internal/config"
)

var errUnsupported = errors.New("tagwm only runs on Linux")

func openDisplay(string, *config.Config, *slog.Logger) (*session, error) {
	return nil, errUnsupported
}

// Reexec is not available on this platform.
func Reexec() error { return errUnsupported }
