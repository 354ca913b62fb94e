package wm

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

var _ xconn.Conn = (*fakeConn)(nil)

// fakeConn is a scripted xconn.Conn recording every operation issued
// against it, in order, as human readable strings.
type fakeConn struct {
	root    xproto.Window
	screens []pure.Rect

	ops      []string
	failOn   map[string]error
	geoms    map[xproto.Window]pure.Rect
	attrs    map[xproto.Window]xconn.WindowAttributes
	wmStates map[xproto.Window]xconn.WmState
	props    map[xproto.Window]map[string]xconn.Prop
	existing []xproto.Window
	events   []xconn.Event
}

func newFakeConn(screens ...pure.Rect) *fakeConn {
	if len(screens) == 0 {
		screens = []pure.Rect{{W: 1920, H: 1080}}
	}

	return &fakeConn{
		root:     1,
		screens:  screens,
		failOn:   map[string]error{},
		geoms:    map[xproto.Window]pure.Rect{},
		attrs:    map[xproto.Window]xconn.WindowAttributes{},
		wmStates: map[xproto.Window]xconn.WmState{},
		props:    map[xproto.Window]map[string]xconn.Prop{},
	}
}

// addWindow registers a manageable window with the fake server.
func (c *fakeConn) addWindow(id xproto.Window, geom pure.Rect) {
	c.geoms[id] = geom
	c.attrs[id] = xconn.WindowAttributes{Mapped: true}
}

func (c *fakeConn) record(format string, args ...any) {
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
}

func (c *fakeConn) fail(op string) error {
	return c.failOn[op]
}

// opsMatching returns recorded operations whose first word is one of the
// given verbs.
func (c *fakeConn) opsMatching(verbs ...string) []string {
	var out []string
	for _, op := range c.ops {
		for _, v := range verbs {
			if strings.HasPrefix(op, v+" ") || op == v {
				out = append(out, op)
			}
		}
	}

	return out
}

func (c *fakeConn) reset() { c.ops = nil }

func (c *fakeConn) Root() xproto.Window { return c.root }

func (c *fakeConn) ScreenDetails() ([]pure.Rect, error) {
	return append([]pure.Rect(nil), c.screens...), c.fail("screens")
}

func (c *fakeConn) CursorPosition() (pure.Point, error) { return pure.Point{}, nil }

func (c *fakeConn) Grab(keys []xconn.KeyCode, mouse []xconn.MouseState) error {
	c.record("grab %d keys %d mouse", len(keys), len(mouse))
	return c.fail("grab")
}

func (c *fakeConn) Ungrab() error {
	c.record("ungrab")
	return nil
}

func (c *fakeConn) NextEvent() (xconn.Event, error) {
	if len(c.events) == 0 {
		return nil, fmt.Errorf("no more scripted events")
	}
	ev := c.events[0]
	c.events = c.events[1:]

	return ev, nil
}

func (c *fakeConn) Flush() { c.record("flush") }

func (c *fakeConn) InternAtom(name string) (xproto.Atom, error) {
	return xproto.Atom(len(name)), nil
}

func (c *fakeConn) AtomName(atom xproto.Atom) (string, error) {
	return fmt.Sprintf("atom-%d", atom), nil
}

func (c *fakeConn) ExistingClients() ([]xproto.Window, error) {
	return c.existing, nil
}

func (c *fakeConn) ClientGeometry(id xproto.Window) (pure.Rect, error) {
	r, ok := c.geoms[id]
	if !ok {
		return pure.Rect{}, fmt.Errorf("unknown window %d", id)
	}

	return r, nil
}

func (c *fakeConn) Map(id xproto.Window) error {
	c.record("map %d", id)
	return c.fail("map")
}

func (c *fakeConn) Unmap(id xproto.Window) error {
	c.record("unmap %d", id)
	return c.fail("unmap")
}

func (c *fakeConn) Kill(id xproto.Window) error {
	c.record("kill %d", id)
	return c.fail("kill")
}

func (c *fakeConn) Focus(id xproto.Window) error {
	c.record("focus %d", id)
	return c.fail("focus")
}

func (c *fakeConn) GetProp(id xproto.Window, name string) (*xconn.Prop, error) {
	if props, ok := c.props[id]; ok {
		if p, ok := props[name]; ok {
			return &p, nil
		}
	}

	return nil, nil
}

func (c *fakeConn) SetProp(id xproto.Window, name string, value xconn.Prop) error {
	c.record("prop %d %s", id, name)
	if c.props[id] == nil {
		c.props[id] = map[string]xconn.Prop{}
	}
	c.props[id][name] = value

	return c.fail("prop")
}

func (c *fakeConn) DeleteProp(id xproto.Window, name string) error {
	delete(c.props[id], name)
	return nil
}

func (c *fakeConn) ListProps(id xproto.Window) ([]string, error) {
	var names []string
	for name := range c.props[id] {
		names = append(names, name)
	}

	return names, nil
}

func (c *fakeConn) GetWindowAttributes(id xproto.Window) (xconn.WindowAttributes, error) {
	attrs, ok := c.attrs[id]
	if !ok {
		return xconn.WindowAttributes{}, fmt.Errorf("unknown window %d", id)
	}

	return attrs, nil
}

func (c *fakeConn) GetWmState(id xproto.Window) (xconn.WmState, error) {
	return c.wmStates[id], nil
}

func (c *fakeConn) SetWmState(id xproto.Window, state xconn.WmState) error {
	c.wmStates[id] = state
	return nil
}

func (c *fakeConn) SetClientAttributes(id xproto.Window, attrs []xconn.ClientAttr) error {
	for _, a := range attrs {
		c.record("attr %d kind=%d", id, a.Kind)
	}

	return c.fail("attr")
}

func (c *fakeConn) SetClientConfig(id xproto.Window, cfg []xconn.ClientConfig) error {
	for _, conf := range cfg {
		switch conf.Kind {
		case xconn.ConfigPosition:
			c.record("config %d pos=%s", id, conf.Position)
			c.geoms[id] = conf.Position
		case xconn.ConfigStackBelow:
			c.record("config %d below=%d", id, conf.Sibling)
		default:
			c.record("config %d kind=%d", id, conf.Kind)
		}
	}

	return c.fail("config")
}

func (c *fakeConn) SendClientMessage(msg xconn.ClientMessage) error {
	c.record("message %d", msg.Window)
	return nil
}

func (c *fakeConn) WarpPointer(id xproto.Window, x, y int16) error {
	c.record("warp %d %d,%d", id, x, y)
	return nil
}

// propCards reads back a cardinal property for assertions.
func (c *fakeConn) propCards(id xproto.Window, name string) []uint32 {
	return c.props[id][name].Cards
}

// propWins reads back a window list property for assertions.
func (c *fakeConn) propWins(id xproto.Window, name string) []xproto.Window {
	return c.props[id][name].Wins
}
