package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
)

type barrierSet struct {
	ok  bool
	ids []xfixes.Barrier
}

func (b *barrierSet) init(conn *xgb.Conn) {
	if xfixes.Init(conn) != nil {
		return
	}
	// Pointer barriers need XFIXES 5.
	reply, err := xfixes.QueryVersion(conn, 5, 0).Reply()
	b.ok = err == nil && reply.MajorVersion >= 5
}

// HasBarriers reports whether the server supports pointer barriers.
func (c *Connection) HasBarriers() bool { return c.barriers.ok }

// Barrier is a pointer barrier segment in root coordinates.
type Barrier struct {
	X1, Y1, X2, Y2 int
	Directions     uint32
}

// SetBarriers destroys existing barriers and creates bs.
func (c *Connection) SetBarriers(bs []Barrier) {
	if !c.barriers.ok {
		return
	}
	conn := c.XUtil.Conn()
	for _, id := range c.barriers.ids {
		xfixes.DeletePointerBarrier(conn, id)
	}
	c.barriers.ids = c.barriers.ids[:0]

	for _, b := range bs {
		id, err := xfixes.NewBarrierId(conn)
		if err != nil {
			return
		}
		xfixes.CreatePointerBarrier(conn, id, c.Root,
			uint16(b.X1), uint16(b.Y1), uint16(b.X2), uint16(b.Y2),
			b.Directions, 0, nil)
		c.barriers.ids = append(c.barriers.ids, id)
	}
}
