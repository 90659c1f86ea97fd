package wm

import (
	"testing"

	"github.com/1broseidon/tagwm/internal/tiling"
)

func TestShiftMask_SelfInverse(t *testing.T) {
	for _, n := range []int{1, 3, 9, 31} {
		full := uint32(1)<<uint(n) - 1
		masks := []uint32{0, 1, full, full &^ 1, 0x55555555 & full, 1 << uint(n-1)}
		for _, x := range masks {
			for d := -2 * n; d <= 2*n; d++ {
				if got := shiftMask(shiftMask(x, d, n), -d, n); got != x {
					t.Fatalf("shiftMask(shiftMask(%#x, %d, %d), %d) = %#x", x, d, n, -d, got)
				}
			}
		}
	}
}

func TestShiftMask_Rotates(t *testing.T) {
	tests := []struct {
		mask uint32
		dir  int
		n    int
		want uint32
	}{
		{mask: 1, dir: 1, n: 9, want: 2},
		{mask: 1, dir: -1, n: 9, want: 256},
		{mask: 256, dir: 1, n: 9, want: 1},
		{mask: 0b11, dir: -1, n: 9, want: 0b100000001},
		{mask: 1, dir: 10, n: 9, want: 2},
		{mask: 1 << 9, dir: 0, n: 9, want: 0},
	}
	for _, tt := range tests {
		if got := shiftMask(tt.mask, tt.dir, tt.n); got != tt.want {
			t.Errorf("shiftMask(%#x, %d, %d) = %#x, want %#x", tt.mask, tt.dir, tt.n, got, tt.want)
		}
	}
}

func TestView_ActiveTagsetIsNoop(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	w.view(1 << 2)
	mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	m := w.sel
	selTags, tagset, syncs := m.SelTags, m.Tagset, fb.syncs
	w.view(1 << 2)
	if m.SelTags != selTags || m.Tagset != tagset {
		t.Fatalf("view of the active tagset changed state: seltags %d -> %d, tagset %v -> %v",
			selTags, m.SelTags, tagset, m.Tagset)
	}
	if fb.syncs != syncs {
		t.Fatalf("view of the active tagset re-arranged the monitor")
	}
}

func TestView_AlternatesTagsets(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)

	w.view(4)
	if got := w.sel.Tags(); got != 4 {
		t.Fatalf("after view(4) tags = %#x, want 4", got)
	}
	w.view(0)
	if got := w.sel.Tags(); got != 1 {
		t.Fatalf("after view(0) tags = %#x, want the previous tagset 1", got)
	}
	w.view(0)
	if got := w.sel.Tags(); got != 4 {
		t.Fatalf("second view(0) tags = %#x, want 4", got)
	}
	w.view(^uint32(0))
	if got := w.sel.Tags(); got != w.tagMask {
		t.Fatalf("view(~0) tags = %#x, want %#x", got, w.tagMask)
	}
	mustVerify(t, w)
}

func TestToggleView_RefusesEmptyTagset(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)

	w.toggleView(1)
	if got := w.sel.Tags(); got != 1 {
		t.Fatalf("toggleView emptied the tagset: %#x", got)
	}
	w.toggleView(2)
	if got := w.sel.Tags(); got != 3 {
		t.Fatalf("toggleView(2) tags = %#x, want 3", got)
	}
}

func TestTag_HidesClientAndRefocuses(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	w.tag(1 << 20)
	if c.Tags != 1 {
		t.Fatalf("tag outside the tag width changed tags to %#x", c.Tags)
	}
	w.tag(2)
	if c.Tags != 2 {
		t.Fatalf("tags = %#x, want 2", c.Tags)
	}
	if w.sel.Sel != 0 {
		t.Fatalf("hidden client is still selected")
	}
	if fb.focused != fakeRoot {
		t.Fatalf("focus = %d, want root", fb.focused)
	}
	if fb.windows[10].geom.X >= 0 {
		t.Fatalf("hidden client left on screen at x=%d", fb.windows[10].geom.X)
	}
	mustVerify(t, w)
}

func TestToggleTag_RefusesEmptyTags(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	w.toggleTag(1)
	if c.Tags != 1 {
		t.Fatalf("toggleTag emptied tags: %#x", c.Tags)
	}
	w.toggleTag(4)
	if c.Tags != 5 {
		t.Fatalf("tags = %#x, want 5", c.Tags)
	}
}

func TestShiftViewAndTagRel(t *testing.T) {
	fb := newFakeBackend()
	w := newTestWM(t, fb, nil)
	c := mapWindow(t, w, fb, 10, tiling.Rect{Width: 100, Height: 100})

	w.tagRel(1)
	if c.Tags != 2 {
		t.Fatalf("tagRel(1) tags = %#x, want 2", c.Tags)
	}
	w.shiftView(-1)
	if got := w.sel.Tags(); got != 256 {
		t.Fatalf("shiftView(-1) tags = %#x, want 256", got)
	}
	w.shiftView(2)
	if got := w.sel.Tags(); got != 2 {
		t.Fatalf("shiftView(2) tags = %#x, want 2", got)
	}
	mustVerify(t, w)
}
