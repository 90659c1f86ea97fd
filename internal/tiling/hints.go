package tiling

// NormalHints is the raw WM_NORMAL_HINTS content as read from a window.
// Only fields whose Has flag is set carry meaning.
type NormalHints struct {
	HasBase   bool
	BaseW     int
	BaseH     int
	HasMin    bool
	MinW      int
	MinH      int
	HasMax    bool
	MaxW      int
	MaxH      int
	HasInc    bool
	IncW      int
	IncH      int
	HasAspect bool
	// Aspect ratios as num/den pairs: min = MinNum/MinDen, max = MaxNum/MaxDen.
	MinAspectNum int
	MinAspectDen int
	MaxAspectNum int
	MaxAspectDen int
}

// SizeHints are the resolved size constraints of a client.
// Zero values mean "unconstrained".
type SizeHints struct {
	BaseW, BaseH int
	IncW, IncH   int
	MaxW, MaxH   int
	MinW, MinH   int
	// MinAspect is height/width, MaxAspect is width/height.
	MinAspect float64
	MaxAspect float64
}

// ResolveHints turns raw hints into constraints. Base falls back to min and
// min falls back to base, as ICCCM allows either to stand in for the other.
func ResolveHints(n NormalHints) SizeHints {
	var h SizeHints
	switch {
	case n.HasBase:
		h.BaseW, h.BaseH = n.BaseW, n.BaseH
	case n.HasMin:
		h.BaseW, h.BaseH = n.MinW, n.MinH
	}
	if n.HasInc {
		h.IncW, h.IncH = n.IncW, n.IncH
	}
	if n.HasMax {
		h.MaxW, h.MaxH = n.MaxW, n.MaxH
	}
	switch {
	case n.HasMin:
		h.MinW, h.MinH = n.MinW, n.MinH
	case n.HasBase:
		h.MinW, h.MinH = n.BaseW, n.BaseH
	}
	if n.HasAspect && n.MinAspectNum != 0 && n.MaxAspectDen != 0 {
		h.MinAspect = float64(n.MinAspectDen) / float64(n.MinAspectNum)
		h.MaxAspect = float64(n.MaxAspectNum) / float64(n.MaxAspectDen)
	}
	return h
}

// Fixed reports whether the client declares identical non-zero min and max sizes.
func (h SizeHints) Fixed() bool {
	return h.MaxW != 0 && h.MinW != 0 && h.MaxH != 0 && h.MinH != 0 &&
		h.MaxW == h.MinW && h.MaxH == h.MinH
}

// Bounds describes where a client may be placed while solving.
type Bounds struct {
	// Interact selects screen-relative clamping used during pointer drags.
	Interact bool
	Screen   Rect
	WorkArea Rect
	// MinSide is the floor applied to both dimensions (the bar height).
	MinSide int
	// Honor enables the size hint pass.
	Honor bool
}

// ApplySizeHints computes the legal rectangle nearest to req for a client
// currently at cur with border width bw. Width and height are inner sizes.
// The boolean result is false when the outcome equals cur exactly.
func ApplySizeHints(req, cur Rect, bw int, h SizeHints, b Bounds) (Rect, bool) {
	x, y, w, ht := req.X, req.Y, max(1, req.Width), max(1, req.Height)
	outerW := cur.Width + 2*bw
	outerH := cur.Height + 2*bw

	if b.Interact {
		if x >= b.Screen.Right() {
			x = b.Screen.Right() - outerW
		}
		if y > b.Screen.Bottom() {
			y = b.Screen.Bottom() - outerH
		}
		if x+w+2*bw < b.Screen.X {
			x = b.Screen.X
		}
		if y+ht+2*bw < b.Screen.Y {
			y = b.Screen.Y
		}
	} else {
		a := b.WorkArea
		if x >= a.Right() {
			x = a.Right() - outerW
		}
		if y >= a.Bottom() {
			y = a.Bottom() - outerH
		}
		if x+w+2*bw <= a.X {
			x = a.X
		}
		if y+ht+2*bw <= a.Y {
			y = a.Y
		}
	}
	ht = max(ht, b.MinSide)
	w = max(w, b.MinSide)

	if b.Honor {
		w, ht = constrain(w, ht, h)
	}

	out := Rect{X: x, Y: y, Width: w, Height: ht}
	return out, out != cur
}

func constrain(w, ht int, h SizeHints) (int, int) {
	// ICCCM 4.1.2.3: when base equals min, base is not subtracted before the aspect check.
	baseIsMin := h.BaseW == h.MinW && h.BaseH == h.MinH
	if !baseIsMin {
		w -= h.BaseW
		ht -= h.BaseH
	}
	if h.MinAspect > 0 && h.MaxAspect > 0 {
		if h.MaxAspect < float64(w)/float64(ht) {
			w = int(float64(ht)*h.MaxAspect + 0.5)
		} else if h.MinAspect < float64(ht)/float64(w) {
			ht = int(float64(w)*h.MinAspect + 0.5)
		}
	}
	if baseIsMin {
		w -= h.BaseW
		ht -= h.BaseH
	}
	if h.IncW > 0 {
		w -= w % h.IncW
	}
	if h.IncH > 0 {
		ht -= ht % h.IncH
	}
	w = max(w+h.BaseW, h.MinW)
	ht = max(ht+h.BaseH, h.MinH)
	if h.MaxW > 0 {
		w = min(w, h.MaxW)
	}
	if h.MaxH > 0 {
		ht = min(ht, h.MaxH)
	}
	return w, ht
}
