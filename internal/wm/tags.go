package wm

// shiftMask rotates the low n bits of m by dir positions, left for
// positive dir. Bits outside the tag width are dropped.
func shiftMask(m uint32, dir, n int) uint32 {
	if n <= 0 {
		return 0
	}
	mask := uint32(1)<<uint(n) - 1
	m &= mask
	d := ((dir % n) + n) % n
	if d == 0 {
		return m
	}
	return (m<<uint(d) | m>>uint(n-d)) & mask
}

// view switches to the alternate tagset, replacing it with mask unless
// mask is zero. Viewing the active tagset does nothing.
func (w *WM) view(mask uint32) {
	m := w.sel
	if mask&w.tagMask == m.Tags() {
		return
	}
	m.SelTags ^= 1
	if mask&w.tagMask != 0 {
		m.Tagset[m.SelTags] = mask & w.tagMask
	}
	w.focus(nil)
	w.arrange(m)
}

func (w *WM) toggleView(mask uint32) {
	m := w.sel
	if next := m.Tags() ^ (mask & w.tagMask); next != 0 {
		m.Tagset[m.SelTags] = next
		w.focus(nil)
		w.arrange(m)
	}
}

func (w *WM) tag(mask uint32) {
	c := w.selected()
	if c == nil || mask&w.tagMask == 0 {
		return
	}
	c.Tags = mask & w.tagMask
	w.focus(nil)
	w.arrange(w.sel)
}

func (w *WM) toggleTag(mask uint32) {
	c := w.selected()
	if c == nil {
		return
	}
	if next := c.Tags ^ (mask & w.tagMask); next != 0 {
		c.Tags = next
		w.focus(nil)
		w.arrange(w.sel)
	}
}

func (w *WM) shiftView(dir int) {
	w.view(shiftMask(w.sel.Tags(), dir, w.ntags))
}

func (w *WM) tagRel(dir int) {
	c := w.selected()
	if c == nil {
		return
	}
	w.tag(shiftMask(c.Tags, dir, w.ntags))
}
