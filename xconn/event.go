package xconn

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
)

// ModMask is a bitmask of keyboard modifiers.
type ModMask uint16

const (
	ModShift   ModMask = 1 << 0
	ModControl ModMask = 1 << 2
	ModAlt     ModMask = 1 << 3 // Mod1
	ModNumLock ModMask = 1 << 4 // Mod2
	ModSuper   ModMask = 1 << 6 // Mod4
)

// KeyCode identifies a grabbed key chord: a modifier mask plus an X
// keycode.
type KeyCode struct {
	Mask ModMask
	Code xproto.Keycode
}

// IgnoringNumLock strips the NumLock bit so bindings match regardless of
// the lock state.
func (k KeyCode) IgnoringNumLock() KeyCode {
	return KeyCode{Mask: k.Mask &^ ModNumLock, Code: k.Code}
}

// MouseEventKind distinguishes press, release and motion events.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

// MouseButton is a physical mouse button.
type MouseButton uint8

const (
	ButtonLeft   MouseButton = 1
	ButtonMiddle MouseButton = 2
	ButtonRight  MouseButton = 3
	ScrollUp     MouseButton = 4
	ScrollDown   MouseButton = 5
)

// MouseState identifies a grabbed mouse chord.
type MouseState struct {
	Mask   ModMask
	Button MouseButton
	Kind   MouseEventKind
}

// Event is the closed set of X events the core responds to. The concrete
// types below are the only implementations.
type Event interface {
	isEvent()
}

// KeyPressEvent reports a grabbed key chord being entered.
type KeyPressEvent struct {
	Key KeyCode
}

// MouseEvent reports a grabbed button press/release or a pointer drag
// motion.
type MouseEvent struct {
	State MouseState
	// Window is the subwindow under the pointer, or the root.
	Window xproto.Window
	// RootPos is the pointer position relative to the root window.
	RootPos pure.Point
}

// MapRequestEvent reports a window asking to be mapped.
type MapRequestEvent struct {
	Window xproto.Window
}

// UnmapNotifyEvent reports a window being unmapped. Synthetic is set for
// client-sent (ICCCM withdrawal) notifications.
type UnmapNotifyEvent struct {
	Window    xproto.Window
	Synthetic bool
}

// DestroyNotifyEvent reports a window being destroyed.
type DestroyNotifyEvent struct {
	Window xproto.Window
}

// ConfigureRequestEvent reports a client asking for a new geometry.
type ConfigureRequestEvent struct {
	Window xproto.Window
	Rect   pure.Rect
	// Mask is the raw xproto value mask stating which fields the client
	// supplied.
	Mask uint16
}

// ConfigureNotifyEvent reports a completed configure, root window included.
type ConfigureNotifyEvent struct {
	Window xproto.Window
	Rect   pure.Rect
}

// PropertyNotifyEvent reports a property change.
type PropertyNotifyEvent struct {
	Window  xproto.Window
	Atom    string
	Deleted bool
}

// EnterEvent reports the pointer entering a window.
type EnterEvent struct {
	Window  xproto.Window
	RootPos pure.Point
}

// LeaveEvent reports the pointer leaving a window.
type LeaveEvent struct {
	Window  xproto.Window
	RootPos pure.Point
}

// FocusInEvent reports a window gaining input focus.
type FocusInEvent struct {
	Window xproto.Window
}

// ClientMessageEvent reports an arbitrary client message, EWMH requests
// included.
type ClientMessageEvent struct {
	Window xproto.Window
	Type   string
	Data   ClientMessageData
}

// MappingNotifyEvent reports a keyboard mapping change; bindings need to be
// re-grabbed.
type MappingNotifyEvent struct{}

// ScreenChangeEvent reports a randr screen layout change.
type ScreenChangeEvent struct{}

func (KeyPressEvent) isEvent()         {}
func (MouseEvent) isEvent()            {}
func (MapRequestEvent) isEvent()       {}
func (UnmapNotifyEvent) isEvent()      {}
func (DestroyNotifyEvent) isEvent()    {}
func (ConfigureRequestEvent) isEvent() {}
func (ConfigureNotifyEvent) isEvent()  {}
func (PropertyNotifyEvent) isEvent()   {}
func (EnterEvent) isEvent()            {}
func (LeaveEvent) isEvent()            {}
func (FocusInEvent) isEvent()          {}
func (ClientMessageEvent) isEvent()    {}
func (MappingNotifyEvent) isEvent()    {}
func (ScreenChangeEvent) isEvent()     {}
