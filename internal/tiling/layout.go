package tiling

import "fmt"

// ArrangeKind selects the arrangement algorithm of a layout.
type ArrangeKind int

const (
	// ArrangeFloat leaves client geometry alone.
	ArrangeFloat ArrangeKind = iota
	ArrangeTile
	ArrangeMonocle
)

var arrangeNames = map[ArrangeKind]string{
	ArrangeFloat:   "float",
	ArrangeTile:    "tile",
	ArrangeMonocle: "monocle",
}

func (k ArrangeKind) String() string {
	if s, ok := arrangeNames[k]; ok {
		return s
	}
	return fmt.Sprintf("arrange(%d)", int(k))
}

// ParseArrangeKind maps a configuration name to an ArrangeKind.
func ParseArrangeKind(s string) (ArrangeKind, error) {
	for k, name := range arrangeNames {
		if name == s {
			return k, nil
		}
	}
	return ArrangeFloat, fmt.Errorf("unknown arrange kind %q", s)
}

// Layout is a named arrangement.
type Layout struct {
	Symbol  string
	Arrange ArrangeKind
}

// Arranges reports whether the layout computes geometry at all.
func (l Layout) Arranges() bool {
	return l.Arrange != ArrangeFloat
}

// Tiled is a window the layout engine may place. Resize receives the outer
// origin and inner size and returns the geometry actually applied after the
// window's own constraints.
type Tiled interface {
	BorderWidth() int
	Resize(r Rect) Rect
}

// Params are the per-monitor master/stack parameters.
type Params struct {
	MFact float64
	// NMaster is the fixed master count; 0 selects the dynamic count.
	NMaster    int
	NMasterMax int
	Gap        int
}

// MasterCount returns the effective number of master clients for n tiled clients.
func (p Params) MasterCount(n int) int {
	if p.NMaster != 0 {
		return p.NMaster
	}
	return min(max(n/2, 1), p.NMasterMax)
}

// Apply runs the layout over the tiled clients of a work area. visible is
// the number of visible clients (floating included), used by the monocle
// symbol. The returned string is the symbol to display.
func (l Layout) Apply(area Rect, clients []Tiled, visible int, p Params) string {
	switch l.Arrange {
	case ArrangeTile:
		Tile(area, clients, p)
	case ArrangeMonocle:
		Monocle(area, clients, p.Gap)
		if visible > 0 {
			return fmt.Sprintf("[%d]", visible)
		}
	}
	return l.Symbol
}

// Tile splits the area into a master column and a stack column. Each column
// divides its remaining height evenly among the clients still to be placed,
// so rounding leftovers land on the last client of the column.
func Tile(area Rect, clients []Tiled, p Params) {
	n := len(clients)
	if n == 0 {
		return
	}
	nmaster := p.MasterCount(n)

	mw := area.Width
	if n > nmaster {
		mw = 0
		if nmaster > 0 {
			mw = int(float64(area.Width) * p.MFact)
		}
	}

	gap := p.Gap
	my, ty := 0, 0
	for i, c := range clients {
		bw := c.BorderWidth()
		if i < nmaster {
			h := (area.Height - my) / (min(n, nmaster) - i)
			got := c.Resize(Rect{
				X:      area.X + gap,
				Y:      area.Y + my + gap,
				Width:  mw - 2*bw - 2*gap,
				Height: h - 2*bw - 2*gap,
			})
			my += got.Height + 2*bw + 2*gap
		} else {
			h := (area.Height - ty) / (n - i)
			got := c.Resize(Rect{
				X:      area.X + mw + gap,
				Y:      area.Y + ty + gap,
				Width:  area.Width - mw - 2*bw - 2*gap,
				Height: h - 2*bw - 2*gap,
			})
			ty += got.Height + 2*bw + 2*gap
		}
	}
}

// Monocle gives every client the whole work area minus the gap.
func Monocle(area Rect, clients []Tiled, gap int) {
	for _, c := range clients {
		c.Resize(Inset(area, c.BorderWidth(), gap))
	}
}

// Inset returns the placement filling area with border bw and gap on every side.
func Inset(area Rect, bw, gap int) Rect {
	return Rect{
		X:      area.X + gap,
		Y:      area.Y + gap,
		Width:  area.Width - 2*bw - 2*gap,
		Height: area.Height - 2*bw - 2*gap,
	}
}
