// Package xconn defines the capability interface the window manager core
// requires from an X11 backend, along with the event and property types
// that cross it. The xgb-backed implementation lives in package x11;
// tests substitute scripted fakes.
package xconn

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
)

// WmState is the ICCCM WM_STATE value for a client window.
type WmState uint32

const (
	WmStateWithdrawn WmState = 0
	WmStateNormal    WmState = 1
	WmStateIconic    WmState = 3
)

// WindowAttributes is the subset of the server's window attributes the
// manager consults when deciding whether to manage a window.
type WindowAttributes struct {
	OverrideRedirect bool
	InputOnly        bool
	Mapped           bool
}

// Prop is a tagged property value.
type Prop struct {
	Kind  PropKind
	Atoms []xproto.Atom
	Bytes []byte
	Cards []uint32
	Wins  []xproto.Window
	Strs  []string
}

// PropKind discriminates Prop payloads.
type PropKind int

const (
	PropAtoms PropKind = iota
	PropBytes
	PropCardinals
	PropWindows
	PropStrings
)

// AtomsProp builds an atom-list property value.
func AtomsProp(atoms ...xproto.Atom) Prop { return Prop{Kind: PropAtoms, Atoms: atoms} }

// CardinalProp builds a cardinal-list property value.
func CardinalProp(cards ...uint32) Prop { return Prop{Kind: PropCardinals, Cards: cards} }

// WindowProp builds a window-list property value.
func WindowProp(wins ...xproto.Window) Prop { return Prop{Kind: PropWindows, Wins: wins} }

// StringProp builds a UTF8 string-list property value.
func StringProp(strs ...string) Prop { return Prop{Kind: PropStrings, Strs: strs} }

// ClientAttr selects a window attribute change.
type ClientAttr struct {
	Kind        ClientAttrKind
	BorderColor uint32
}

// ClientAttrKind discriminates ClientAttr.
type ClientAttrKind int

const (
	// AttrBorderColor sets the border pixel to BorderColor (argb).
	AttrBorderColor ClientAttrKind = iota
	// AttrClientEventMask installs the standard managed-client event mask.
	AttrClientEventMask
	// AttrClientUnmapMask installs the reduced mask used while the manager
	// unmaps a client itself, so the resulting UnmapNotify is not mistaken
	// for a client withdrawal.
	AttrClientUnmapMask
	// AttrRootEventMask installs the substructure-redirect mask on the root
	// window.
	AttrRootEventMask
)

// ClientConfig selects a window configuration change.
type ClientConfig struct {
	Kind     ClientConfigKind
	BorderPx uint32
	Position pure.Rect
	Sibling  xproto.Window
}

// ClientConfigKind discriminates ClientConfig.
type ClientConfigKind int

const (
	// ConfigBorderPx sets the border width in pixels.
	ConfigBorderPx ClientConfigKind = iota
	// ConfigPosition sets absolute position and size.
	ConfigPosition
	// ConfigStackAbove stacks the window directly above Sibling.
	ConfigStackAbove
	// ConfigStackBelow stacks the window directly below Sibling.
	ConfigStackBelow
	// ConfigStackTop raises the window above all others.
	ConfigStackTop
	// ConfigStackBottom lowers the window below all others.
	ConfigStackBottom
)

// ClientMessageData is the 20-byte payload of a client message, exposed as
// five 32-bit words.
type ClientMessageData [5]uint32

// ClientMessage is an X11 client message to deliver to a window.
type ClientMessage struct {
	Window xproto.Window
	Type   xproto.Atom
	Data   ClientMessageData
}

// Conn is the X capability required by the core. All operations block and
// all may fail. Exactly one goroutine (the run loop) may use a Conn.
type Conn interface {
	// Root returns the root window of the managed screen.
	Root() xproto.Window
	// ScreenDetails returns the geometry of each active output.
	ScreenDetails() ([]pure.Rect, error)
	// CursorPosition returns the pointer position relative to the root.
	CursorPosition() (pure.Point, error)

	// Grab registers for key and mouse state interception.
	Grab(keys []KeyCode, mouse []MouseState) error
	// Ungrab releases every grab taken by Grab.
	Ungrab() error
	// NextEvent blocks until the next event arrives.
	NextEvent() (Event, error)
	// Flush pushes any buffered requests to the server.
	Flush()

	// InternAtom resolves (interning if required) an atom by name.
	InternAtom(name string) (xproto.Atom, error)
	// AtomName resolves an atom id back to its name.
	AtomName(atom xproto.Atom) (string, error)

	// ExistingClients lists the top-level windows already present.
	ExistingClients() ([]xproto.Window, error)
	// ClientGeometry returns a client's current rectangle.
	ClientGeometry(id xproto.Window) (pure.Rect, error)

	Map(id xproto.Window) error
	Unmap(id xproto.Window) error
	// Kill closes a client, preferring the WM_DELETE_WINDOW protocol and
	// falling back to a forced kill.
	Kill(id xproto.Window) error
	// Focus assigns X input focus to the client.
	Focus(id xproto.Window) error

	GetProp(id xproto.Window, name string) (*Prop, error)
	SetProp(id xproto.Window, name string, value Prop) error
	DeleteProp(id xproto.Window, name string) error
	ListProps(id xproto.Window) ([]string, error)

	GetWindowAttributes(id xproto.Window) (WindowAttributes, error)
	GetWmState(id xproto.Window) (WmState, error)
	SetWmState(id xproto.Window, state WmState) error

	SetClientAttributes(id xproto.Window, attrs []ClientAttr) error
	SetClientConfig(id xproto.Window, cfg []ClientConfig) error
	SendClientMessage(msg ClientMessage) error

	// WarpPointer moves the pointer to (x, y) relative to the given window.
	WarpPointer(id xproto.Window, x, y int16) error
}
