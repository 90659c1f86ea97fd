package movemode

import (
	"testing"

	"github.com/1broseidon/tagwm/internal/tiling"
)

var work = tiling.Rect{X: 0, Y: 20, Width: 1920, Height: 1060}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		PhaseInactive: "inactive",
		PhaseMoving:   "moving",
		PhaseResizing: "resizing",
		Phase(42):     "unknown",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func TestMove_PromotesTiledClientPastSnap(t *testing.T) {
	cur := tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	s := NewState()
	s.Begin(PhaseMoving, cur, 1, 32, 500, 500)

	step := s.Move(500+33, 500, cur, work, true)
	if !step.Promote {
		t.Fatalf("displacement of snap+1 did not promote")
	}
	if step.Rect.X != 133 || step.Rect.Y != 100 {
		t.Fatalf("moved to %d,%d, want 133,100", step.Rect.X, step.Rect.Y)
	}

	step = s.Move(500+32, 500, cur, work, true)
	if step.Promote {
		t.Fatalf("displacement of exactly snap promoted")
	}
	step = s.Move(500+33, 500, cur, work, false)
	if step.Promote {
		t.Fatalf("floating client reported promotion")
	}
}

func TestMove_SnapsToEdges(t *testing.T) {
	cur := tiling.Rect{X: 300, Y: 300, Width: 400, Height: 300}
	s := NewState()
	s.Begin(PhaseMoving, cur, 2, 32, 0, 0)

	step := s.Move(-290, -270, cur, work, false)
	if step.Rect.X != 0 || step.Rect.Y != 20 {
		t.Fatalf("top-left snap gave %d,%d", step.Rect.X, step.Rect.Y)
	}

	// Right edge: 1920 - (nx + 404) < 32
	step = s.Move(1920-404-300-10, 0, cur, work, false)
	if step.Rect.X != 1920-404 {
		t.Fatalf("right snap gave x=%d", step.Rect.X)
	}
}

func TestMove_OutsideWorkAreaSkipsSnap(t *testing.T) {
	cur := tiling.Rect{X: 300, Y: 300, Width: 400, Height: 300}
	s := NewState()
	s.Begin(PhaseMoving, cur, 0, 32, 0, 0)

	step := s.Move(-310, 0, cur, work, true)
	if step.Rect.X != -10 || step.Promote {
		t.Fatalf("outside move = %+v", step)
	}
}

func TestResize_ComputesSizeFromCorner(t *testing.T) {
	cur := tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	s := NewState()
	s.Begin(PhaseResizing, cur, 2, 32, 0, 0)

	step := s.Resize(700, 500, cur, work, work, false)
	if step.Rect.Width != 700-100-4+1 || step.Rect.Height != 500-100-4+1 {
		t.Fatalf("resize = %+v", step.Rect)
	}
	step = s.Resize(0, 0, cur, work, work, false)
	if step.Rect.Width != 1 || step.Rect.Height != 1 {
		t.Fatalf("resize floor = %+v", step.Rect)
	}
	step = s.Resize(700, 500, cur, work, work, true)
	if !step.Promote {
		t.Fatalf("tiled resize past snap did not promote")
	}
}

func TestResetClearsState(t *testing.T) {
	s := NewState()
	s.Begin(PhaseResizing, tiling.Rect{Width: 1}, 1, 1, 1, 1)
	s.Reset()
	if s.Active() || s.Origin != (tiling.Rect{}) {
		t.Fatalf("state not reset: %+v", s)
	}
}
