package movemode

import "github.com/1broseidon/tagwm/internal/tiling"

// Direction selects an axis and sign for output navigation.
// Left/Right compare x origins, Up/Down compare y origins.
type Direction int

const (
	DirPrevious Direction = 0
	DirRight    Direction = 1
	DirLeft     Direction = -1
	DirDown     Direction = 2
	DirUp       Direction = -2
)

// NavigateOutput returns the index of the output nearest to outputs[current]
// in direction dir, comparing origins along the direction's axis. When no
// output lies that way it wraps to the farthest output on the opposite side.
// DirPrevious is not handled here and returns current.
func NavigateOutput(outputs []tiling.Rect, current int, dir Direction) int {
	if dir == DirPrevious || current < 0 || current >= len(outputs) {
		return current
	}
	from := outputs[current]
	nearest, faraway := current, current
	minPos, minNeg := 0, 0

	for i, o := range outputs {
		var d int
		if dir > 1 || dir < -1 {
			d = o.Y - from.Y
		} else {
			d = o.X - from.X
		}
		d *= int(dir)

		switch {
		case d > 0:
			if minPos == 0 || d < minPos {
				minPos = d
				nearest = i
			}
		case d < 0:
			if minNeg == 0 || d < minNeg {
				minNeg = d
				faraway = i
			}
		}
	}
	if nearest == current {
		return faraway
	}
	return nearest
}
