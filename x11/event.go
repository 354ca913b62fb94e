package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// NextEvent blocks until an event the core cares about arrives. Events
// outside the capability's closed set are swallowed here.
func (c *Conn) NextEvent() (xconn.Event, error) {
	for {
		raw, err := c.xu.Conn().WaitForEvent()
		if raw == nil && err == nil {
			return nil, fmt.Errorf("connection to the X server was closed")
		}
		if err != nil {
			// Protocol level errors (bad window and friends) are not
			// fatal to the event stream.
			logger.Debug("X error", "err", err)
			continue
		}

		if ev := c.translate(raw); ev != nil {
			return ev, nil
		}
	}
}

func (c *Conn) translate(raw interface{}) xconn.Event {
	switch ev := raw.(type) {
	case xproto.KeyPressEvent:
		return xconn.KeyPressEvent{Key: xconn.KeyCode{
			Mask: xconn.ModMask(ev.State),
			Code: ev.Detail,
		}}

	case xproto.ButtonPressEvent:
		return xconn.MouseEvent{
			State: xconn.MouseState{
				Mask:   xconn.ModMask(ev.State),
				Button: xconn.MouseButton(ev.Detail),
				Kind:   xconn.MousePress,
			},
			Window:  eventWindow(ev.Child, ev.Event, c.root),
			RootPos: pure.Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		}

	case xproto.ButtonReleaseEvent:
		return xconn.MouseEvent{
			State: xconn.MouseState{
				Mask:   xconn.ModMask(ev.State),
				Button: xconn.MouseButton(ev.Detail),
				Kind:   xconn.MouseRelease,
			},
			Window:  eventWindow(ev.Child, ev.Event, c.root),
			RootPos: pure.Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		}

	case xproto.MotionNotifyEvent:
		return xconn.MouseEvent{
			State: xconn.MouseState{
				Mask:   xconn.ModMask(ev.State) &^ buttonMaskBits,
				Button: buttonFromState(uint16(ev.State)),
				Kind:   xconn.MouseMotion,
			},
			Window:  eventWindow(ev.Child, ev.Event, c.root),
			RootPos: pure.Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		}

	case xproto.MapRequestEvent:
		return xconn.MapRequestEvent{Window: ev.Window}

	case xproto.UnmapNotifyEvent:
		return xconn.UnmapNotifyEvent{Window: ev.Window}

	case xproto.DestroyNotifyEvent:
		return xconn.DestroyNotifyEvent{Window: ev.Window}

	case xproto.ConfigureRequestEvent:
		return xconn.ConfigureRequestEvent{
			Window: ev.Window,
			Rect: pure.Rect{
				X: int32(ev.X),
				Y: int32(ev.Y),
				W: uint32(ev.Width),
				H: uint32(ev.Height),
			},
			Mask: ev.ValueMask,
		}

	case xproto.ConfigureNotifyEvent:
		return xconn.ConfigureNotifyEvent{
			Window: ev.Window,
			Rect: pure.Rect{
				X: int32(ev.X),
				Y: int32(ev.Y),
				W: uint32(ev.Width),
				H: uint32(ev.Height),
			},
		}

	case xproto.PropertyNotifyEvent:
		name, err := xprop.AtomName(c.xu, ev.Atom)
		if err != nil {
			return nil
		}
		return xconn.PropertyNotifyEvent{
			Window:  ev.Window,
			Atom:    name,
			Deleted: ev.State == xproto.PropertyDelete,
		}

	case xproto.EnterNotifyEvent:
		return xconn.EnterEvent{
			Window:  ev.Event,
			RootPos: pure.Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		}

	case xproto.LeaveNotifyEvent:
		return xconn.LeaveEvent{
			Window:  ev.Event,
			RootPos: pure.Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		}

	case xproto.FocusInEvent:
		return xconn.FocusInEvent{Window: ev.Event}

	case xproto.ClientMessageEvent:
		name, err := xprop.AtomName(c.xu, ev.Type)
		if err != nil {
			return nil
		}
		var data xconn.ClientMessageData
		if ev.Format == 32 {
			copy(data[:], ev.Data.Data32)
		}
		return xconn.ClientMessageEvent{Window: ev.Window, Type: name, Data: data}

	case xproto.MappingNotifyEvent:
		return xconn.MappingNotifyEvent{}

	case randr.ScreenChangeNotifyEvent:
		return xconn.ScreenChangeEvent{}

	default:
		return nil
	}
}

const buttonMaskBits = xconn.ModMask(xproto.ButtonMask1 | xproto.ButtonMask2 |
	xproto.ButtonMask3 | xproto.ButtonMask4 | xproto.ButtonMask5)

// buttonFromState recovers the held button during a motion event from the
// keybutton mask.
func buttonFromState(state uint16) xconn.MouseButton {
	switch {
	case state&xproto.ButtonMask1 != 0:
		return xconn.ButtonLeft
	case state&xproto.ButtonMask2 != 0:
		return xconn.ButtonMiddle
	case state&xproto.ButtonMask3 != 0:
		return xconn.ButtonRight
	default:
		return 0
	}
}

// eventWindow picks the client window an input event refers to: the child
// under the pointer when the event fired on the root.
func eventWindow(child, event, root xproto.Window) xproto.Window {
	if event == root && child != xproto.WindowNone {
		return child
	}

	return event
}
