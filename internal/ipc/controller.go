package ipc

import (
	"context"
	"strings"

	"github.com/1broseidon/tagwm/internal/wm"
)

// Controller is the window manager as seen from the control socket.
type Controller interface {
	Snapshot(ctx context.Context) (wm.Snapshot, error)
	Exec(ctx context.Context, action, arg string) error
	// Check returns one line per violated invariant.
	Check(ctx context.Context) ([]string, error)
}

// NewController runs every request on w's event loop through Do.
func NewController(w *wm.WM) Controller {
	return loopController{w: w}
}

type loopController struct {
	w *wm.WM
}

func (c loopController) Snapshot(ctx context.Context) (wm.Snapshot, error) {
	var s wm.Snapshot
	err := c.w.Do(ctx, func() { s = c.w.Snapshot() })
	return s, err
}

func (c loopController) Exec(ctx context.Context, action, arg string) error {
	var execErr error
	if err := c.w.Do(ctx, func() { execErr = c.w.Exec(action, arg) }); err != nil {
		return err
	}
	return execErr
}

func (c loopController) Check(ctx context.Context) ([]string, error) {
	var verr error
	if err := c.w.Do(ctx, func() { verr = c.w.Verify() }); err != nil {
		return nil, err
	}
	if verr == nil {
		return nil, nil
	}
	return strings.Split(verr.Error(), "\n"), nil
}
