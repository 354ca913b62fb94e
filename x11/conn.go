// Package x11 implements the xconn.Conn capability over an xgb/xgbutil
// connection. It is the only package that talks the X wire protocol; the
// core sees nothing but the capability interface.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/charmbracelet/log"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

var logger = log.With("pkg", "x11")

const (
	clientEventMask = xproto.EventMaskEnterWindow |
		xproto.EventMaskFocusChange |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskStructureNotify

	clientUnmapMask = xproto.EventMaskEnterWindow |
		xproto.EventMaskFocusChange |
		xproto.EventMaskPropertyChange

	rootEventMask = xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskEnterWindow |
		xproto.EventMaskLeaveWindow |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange
)

var _ xconn.Conn = (*Conn)(nil)

// Conn is an xgb-backed X11 connection implementing xconn.Conn.
type Conn struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	hasRandr bool
}

// NewConn connects to the X server named by DISPLAY and initialises the
// randr extension.
func NewConn() (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	return NewConnFor(xu)
}

// NewConnFor wraps an existing xgbutil connection.
func NewConnFor(xu *xgbutil.XUtil) (*Conn, error) {
	c := &Conn{xu: xu, root: xu.RootWin()}

	if err := randr.Init(c.xu.Conn()); err != nil {
		logger.Warn("randr unavailable, falling back to a single screen", "err", err)
	} else {
		c.hasRandr = true
		// Ask for notifications when outputs change.
		_ = randr.SelectInputChecked(c.xu.Conn(), c.root, randr.NotifyMaskScreenChange).Check()
	}

	return c, nil
}

// XUtil exposes the underlying xgbutil connection so callers can use its
// helper modules (keybind keysym resolution in particular).
func (c *Conn) XUtil() *xgbutil.XUtil { return c.xu }

// Close disconnects from the X server.
func (c *Conn) Close() {
	c.xu.Conn().Close()
}

// Root returns the root window of the default screen.
func (c *Conn) Root() xproto.Window { return c.root }

// ScreenDetails enumerates active outputs through randr, falling back to
// the root window geometry when randr is unavailable.
func (c *Conn) ScreenDetails() ([]pure.Rect, error) {
	if !c.hasRandr {
		return c.rootGeometryScreen()
	}

	resources, err := randr.GetScreenResources(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("querying screen resources: %w", err)
	}

	var rects []pure.Rect
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report zero size.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		rects = append(rects, pure.Rect{
			X: int32(info.X),
			Y: int32(info.Y),
			W: uint32(info.Width),
			H: uint32(info.Height),
		})
	}

	if len(rects) == 0 {
		return c.rootGeometryScreen()
	}

	return rects, nil
}

func (c *Conn) rootGeometryScreen() ([]pure.Rect, error) {
	geom, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(c.root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("querying root geometry: %w", err)
	}

	return []pure.Rect{{W: uint32(geom.Width), H: uint32(geom.Height)}}, nil
}

// CursorPosition returns the pointer position relative to the root.
func (c *Conn) CursorPosition() (pure.Point, error) {
	reply, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return pure.Point{}, fmt.Errorf("querying pointer: %w", err)
	}

	return pure.Point{X: int32(reply.RootX), Y: int32(reply.RootY)}, nil
}

// Grab intercepts the given key and mouse chords on the root window.
func (c *Conn) Grab(keys []xconn.KeyCode, mouse []xconn.MouseState) error {
	for _, k := range keys {
		err := xproto.GrabKeyChecked(
			c.xu.Conn(), false, c.root, uint16(k.Mask), k.Code,
			xproto.GrabModeAsync, xproto.GrabModeAsync,
		).Check()
		if err != nil {
			return fmt.Errorf("grabbing key %d/%#x: %w", k.Code, k.Mask, err)
		}
	}

	for _, m := range mouse {
		if m.Kind != xconn.MousePress {
			// Release and motion arrive through the press grab's event
			// mask; only presses need their own grab.
			continue
		}
		mask := uint16(xproto.EventMaskButtonPress |
			xproto.EventMaskButtonRelease |
			xproto.EventMaskButtonMotion)
		err := xproto.GrabButtonChecked(
			c.xu.Conn(), false, c.root, mask,
			xproto.GrabModeAsync, xproto.GrabModeAsync,
			xproto.WindowNone, xproto.CursorNone,
			byte(m.Button), uint16(m.Mask),
		).Check()
		if err != nil {
			return fmt.Errorf("grabbing button %d/%#x: %w", m.Button, m.Mask, err)
		}
	}

	c.Flush()

	return nil
}

// Ungrab releases every key and button grab on the root window.
func (c *Conn) Ungrab() error {
	if err := xproto.UngrabKeyChecked(c.xu.Conn(), xproto.GrabAny, c.root, xproto.ModMaskAny).Check(); err != nil {
		return fmt.Errorf("ungrabbing keys: %w", err)
	}
	if err := xproto.UngrabButtonChecked(c.xu.Conn(), xproto.ButtonIndexAny, c.root, xproto.ModMaskAny).Check(); err != nil {
		return fmt.Errorf("ungrabbing buttons: %w", err)
	}

	return nil
}

// Flush pushes buffered requests to the server.
func (c *Conn) Flush() {
	c.xu.Sync()
}

// InternAtom resolves an atom by name, interning it if needed.
func (c *Conn) InternAtom(name string) (xproto.Atom, error) {
	return xprop.Atom(c.xu, name, false)
}

// AtomName resolves an atom id back to its name.
func (c *Conn) AtomName(atom xproto.Atom) (string, error) {
	return xprop.AtomName(c.xu, atom)
}

// ExistingClients lists the direct children of the root window.
func (c *Conn) ExistingClients() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("querying window tree: %w", err)
	}

	return tree.Children, nil
}

// ClientGeometry returns the client rectangle in root coordinates.
func (c *Conn) ClientGeometry(id xproto.Window) (pure.Rect, error) {
	geom, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return pure.Rect{}, fmt.Errorf("querying geometry of %d: %w", id, err)
	}

	translated, err := xproto.TranslateCoordinates(c.xu.Conn(), id, c.root, 0, 0).Reply()
	if err != nil {
		return pure.Rect{}, fmt.Errorf("translating coordinates of %d: %w", id, err)
	}

	return pure.Rect{
		X: int32(translated.DstX),
		Y: int32(translated.DstY),
		W: uint32(geom.Width),
		H: uint32(geom.Height),
	}, nil
}

// Map makes the window visible.
func (c *Conn) Map(id xproto.Window) error {
	return xproto.MapWindowChecked(c.xu.Conn(), id).Check()
}

// Unmap hides the window.
func (c *Conn) Unmap(id xproto.Window) error {
	return xproto.UnmapWindowChecked(c.xu.Conn(), id).Check()
}

// Kill closes a client, asking politely through WM_DELETE_WINDOW when the
// client advertises it and killing the connection otherwise.
func (c *Conn) Kill(id xproto.Window) error {
	protocols, err := icccm.WmProtocolsGet(c.xu, id)
	if err == nil {
		for _, p := range protocols {
			if p != xconn.AtomWMDeleteWindow {
				continue
			}
			return c.sendProtocolMessage(id, xconn.AtomWMDeleteWindow)
		}
	}

	return xproto.KillClientChecked(c.xu.Conn(), uint32(id)).Check()
}

func (c *Conn) sendProtocolMessage(id xproto.Window, protocol string) error {
	wmProtocols, err := xprop.Atom(c.xu, xconn.AtomWMProtocols, false)
	if err != nil {
		return err
	}
	target, err := xprop.Atom(c.xu, protocol, false)
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   wmProtocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(target), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.xu.Conn(), false, id, xproto.EventMaskNoEvent, string(ev.Bytes()),
	).Check()
}

// Focus assigns input focus to the window.
func (c *Conn) Focus(id xproto.Window) error {
	return xproto.SetInputFocusChecked(
		c.xu.Conn(), xproto.InputFocusPointerRoot, id, xproto.TimeCurrentTime,
	).Check()
}

// SetClientAttributes applies attribute changes to a window.
func (c *Conn) SetClientAttributes(id xproto.Window, attrs []xconn.ClientAttr) error {
	for _, attr := range attrs {
		var mask uint32
		var values []uint32

		switch attr.Kind {
		case xconn.AttrBorderColor:
			mask, values = xproto.CwBorderPixel, []uint32{attr.BorderColor}
		case xconn.AttrClientEventMask:
			mask, values = xproto.CwEventMask, []uint32{clientEventMask}
		case xconn.AttrClientUnmapMask:
			mask, values = xproto.CwEventMask, []uint32{clientUnmapMask}
		case xconn.AttrRootEventMask:
			mask, values = xproto.CwEventMask, []uint32{rootEventMask}
		default:
			continue
		}

		if err := xproto.ChangeWindowAttributesChecked(c.xu.Conn(), id, mask, values).Check(); err != nil {
			return fmt.Errorf("changing attributes of %d: %w", id, err)
		}
	}

	return nil
}

// SetClientConfig applies configure requests to a window.
func (c *Conn) SetClientConfig(id xproto.Window, cfg []xconn.ClientConfig) error {
	for _, conf := range cfg {
		var mask uint16
		var values []uint32

		switch conf.Kind {
		case xconn.ConfigBorderPx:
			mask = xproto.ConfigWindowBorderWidth
			values = []uint32{conf.BorderPx}

		case xconn.ConfigPosition:
			mask = xproto.ConfigWindowX | xproto.ConfigWindowY |
				xproto.ConfigWindowWidth | xproto.ConfigWindowHeight
			values = []uint32{
				uint32(conf.Position.X), uint32(conf.Position.Y),
				conf.Position.W, conf.Position.H,
			}

		case xconn.ConfigStackAbove:
			mask = xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode
			values = []uint32{uint32(conf.Sibling), xproto.StackModeAbove}

		case xconn.ConfigStackBelow:
			mask = xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode
			values = []uint32{uint32(conf.Sibling), xproto.StackModeBelow}

		case xconn.ConfigStackTop:
			mask = xproto.ConfigWindowStackMode
			values = []uint32{xproto.StackModeAbove}

		case xconn.ConfigStackBottom:
			mask = xproto.ConfigWindowStackMode
			values = []uint32{xproto.StackModeBelow}

		default:
			continue
		}

		if err := xproto.ConfigureWindowChecked(c.xu.Conn(), id, mask, values).Check(); err != nil {
			return fmt.Errorf("configuring %d: %w", id, err)
		}
	}

	return nil
}

// SendClientMessage delivers a 32-bit format client message.
func (c *Conn) SendClientMessage(msg xconn.ClientMessage) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: msg.Window,
		Type:   msg.Type,
		Data:   xproto.ClientMessageDataUnionData32New(msg.Data[:]),
	}

	return xproto.SendEventChecked(
		c.xu.Conn(), false, msg.Window, xproto.EventMaskNoEvent, string(ev.Bytes()),
	).Check()
}

// WarpPointer moves the pointer to (x, y) relative to the given window.
func (c *Conn) WarpPointer(id xproto.Window, x, y int16) error {
	return xproto.WarpPointerChecked(
		c.xu.Conn(), xproto.WindowNone, id, 0, 0, 0, 0, x, y,
	).Check()
}

// GetWindowAttributes reports the management-relevant window attributes.
func (c *Conn) GetWindowAttributes(id xproto.Window) (xconn.WindowAttributes, error) {
	reply, err := xproto.GetWindowAttributes(c.xu.Conn(), id).Reply()
	if err != nil {
		return xconn.WindowAttributes{}, fmt.Errorf("querying attributes of %d: %w", id, err)
	}

	return xconn.WindowAttributes{
		OverrideRedirect: reply.OverrideRedirect,
		InputOnly:        reply.Class == xproto.WindowClassInputOnly,
		Mapped:           reply.MapState != xproto.MapStateUnmapped,
	}, nil
}

// GetWmState reads the ICCCM WM_STATE of a window.
func (c *Conn) GetWmState(id xproto.Window) (xconn.WmState, error) {
	hints, err := icccm.WmStateGet(c.xu, id)
	if err != nil {
		return xconn.WmStateWithdrawn, nil
	}

	return xconn.WmState(hints.State), nil
}

// SetWmState records the ICCCM WM_STATE of a window.
func (c *Conn) SetWmState(id xproto.Window, state xconn.WmState) error {
	return icccm.WmStateSet(c.xu, id, &icccm.WmState{State: uint(state)})
}
