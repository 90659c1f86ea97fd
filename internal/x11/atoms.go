package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// wakeAtomName tags the client message used to interrupt WaitForEvent.
const wakeAtomName = "_TAGWM_WAKE"

// supportedAtoms is published in _NET_SUPPORTED.
var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_CLIENT_LIST",
}

type atomTable struct {
	wmProtocols  xproto.Atom
	wmState      xproto.Atom
	wmName       xproto.Atom
	wmHints      xproto.Atom
	wmNormal     xproto.Atom
	wmTransient  xproto.Atom
	netWMName    xproto.Atom
	netWMState   xproto.Atom
	netFullscr   xproto.Atom
	netActive    xproto.Atom
	netWinType   xproto.Atom
	netClients   xproto.Atom
	wake         xproto.Atom
	byAtom       map[xproto.Atom]string
}

func (t *atomTable) intern(xu *xgbutil.XUtil) error {
	targets := []struct {
		name string
		dst  *xproto.Atom
	}{
		{"WM_PROTOCOLS", &t.wmProtocols},
		{"WM_STATE", &t.wmState},
		{"WM_NAME", &t.wmName},
		{"WM_HINTS", &t.wmHints},
		{"WM_NORMAL_HINTS", &t.wmNormal},
		{"WM_TRANSIENT_FOR", &t.wmTransient},
		{"_NET_WM_NAME", &t.netWMName},
		{"_NET_WM_STATE", &t.netWMState},
		{"_NET_WM_STATE_FULLSCREEN", &t.netFullscr},
		{"_NET_ACTIVE_WINDOW", &t.netActive},
		{"_NET_WM_WINDOW_TYPE", &t.netWinType},
		{"_NET_CLIENT_LIST", &t.netClients},
		{wakeAtomName, &t.wake},
	}
	t.byAtom = make(map[xproto.Atom]string, len(targets))
	for _, target := range targets {
		atom, err := xprop.Atm(xu, target.name)
		if err != nil {
			return err
		}
		*target.dst = atom
		t.byAtom[atom] = target.name
	}
	return nil
}

// AtomName returns the name of one of the watched atoms, or "" for others.
func (c *Connection) AtomName(a xproto.Atom) string {
	return c.atoms.byAtom[a]
}
