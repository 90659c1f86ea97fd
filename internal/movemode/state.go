package movemode

import "github.com/1broseidon/tagwm/internal/tiling"

// Phase represents the current phase of an interactive drag
type Phase int

const (
	// PhaseInactive means no pointer drag is in progress
	PhaseInactive Phase = iota
	// PhaseMoving means the grabbed client follows the pointer
	PhaseMoving
	// PhaseResizing means the pointer drives the client's bottom-right corner
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// State holds the geometry captured when a drag starts.
type State struct {
	Phase Phase
	// Origin is the client geometry (inner size) when the drag began.
	Origin tiling.Rect
	Border int
	// PointerX/PointerY is the root pointer position at grab time (move only).
	PointerX int
	PointerY int
	Snap     int
}

// NewState creates a new inactive state
func NewState() *State {
	return &State{Phase: PhaseInactive}
}

// Begin arms the state for a drag of a client at origin.
func (s *State) Begin(p Phase, origin tiling.Rect, border, snap, px, py int) {
	s.Phase = p
	s.Origin = origin
	s.Border = border
	s.Snap = snap
	s.PointerX = px
	s.PointerY = py
}

// Reset resets the state to inactive
func (s *State) Reset() {
	*s = State{}
}

// Active reports whether a drag is in progress.
func (s *State) Active() bool {
	return s.Phase != PhaseInactive
}

// Step is the outcome of one pointer motion.
type Step struct {
	Rect tiling.Rect
	// Promote is set when a tiled client moved or grew far enough to float.
	Promote bool
}

// Move computes the new origin for pointer position (px, py). cur is the
// client's present geometry, work the selected monitor's work area. Edges
// within snap pixels of the work area stick to it.
func (s *State) Move(px, py int, cur, work tiling.Rect, tiled bool) Step {
	nx := s.Origin.X + (px - s.PointerX)
	ny := s.Origin.Y + (py - s.PointerY)
	outerW := cur.Width + 2*s.Border
	outerH := cur.Height + 2*s.Border

	var promote bool
	if nx >= work.X && nx <= work.Right() && ny >= work.Y && ny <= work.Bottom() {
		if abs(work.X-nx) < s.Snap {
			nx = work.X
		} else if abs(work.Right()-(nx+outerW)) < s.Snap {
			nx = work.Right() - outerW
		}
		if abs(work.Y-ny) < s.Snap {
			ny = work.Y
		} else if abs(work.Bottom()-(ny+outerH)) < s.Snap {
			ny = work.Bottom() - outerH
		}
		promote = tiled && (abs(nx-cur.X) > s.Snap || abs(ny-cur.Y) > s.Snap)
	}
	return Step{
		Rect:    tiling.Rect{X: nx, Y: ny, Width: cur.Width, Height: cur.Height},
		Promote: promote,
	}
}

// Resize computes the new inner size for a pointer at (px, py). clientWork is
// the work area of the client's monitor, work that of the selected monitor.
func (s *State) Resize(px, py int, cur, clientWork, work tiling.Rect, tiled bool) Step {
	nw := max(px-s.Origin.X-2*s.Border+1, 1)
	nh := max(py-s.Origin.Y-2*s.Border+1, 1)

	var promote bool
	if clientWork.X+nw >= work.X && clientWork.X+nw <= work.Right() &&
		clientWork.Y+nh >= work.Y && clientWork.Y+nh <= work.Bottom() {
		promote = tiled && (abs(nw-cur.Width) > s.Snap || abs(nh-cur.Height) > s.Snap)
	}
	return Step{
		Rect:    tiling.Rect{X: cur.X, Y: cur.Y, Width: nw, Height: nh},
		Promote: promote,
	}
}

// Corner returns the window-relative point of the bottom-right corner the
// pointer is warped to while resizing.
func Corner(cur tiling.Rect, border int) (int, int) {
	return cur.Width + border - 1, cur.Height + border - 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
