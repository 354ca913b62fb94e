package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// Helpers for building key and mouse handlers. The state-changing helpers
// funnel through ModifyAndRefresh so user bindings stay one-liners.

// Modify builds a key handler that applies f to the pure state and
// refreshes.
func Modify(f func(*pure.StackSet)) KeyHandler {
	return func(s *State, x xconn.Conn) error {
		return ModifyAndRefresh(x, s, f)
	}
}

// ModifyStack builds a key handler applying f to the focused workspace's
// client stack when it is non-empty.
func ModifyStack(f func(*pure.Stack[xproto.Window])) KeyHandler {
	return Modify(func(ss *pure.StackSet) {
		ss.ModifyOccupied(f)
	})
}

// SendLayoutMessage builds a key handler delivering m to the active layout
// of the focused workspace.
func SendLayoutMessage(m pure.Message) KeyHandler {
	return Modify(func(ss *pure.StackSet) {
		ss.HandleMessage(m)
	})
}

// BroadcastLayoutMessage builds a key handler delivering m to every layout
// on the focused workspace.
func BroadcastLayoutMessage(m pure.Message) KeyHandler {
	return Modify(func(ss *pure.StackSet) {
		ss.BroadcastMessage(m)
	})
}

// KillFocused builds a key handler closing the focused client through the
// X capability. The pure state is updated when the resulting destroy or
// unmap event arrives.
func KillFocused() KeyHandler {
	return func(s *State, x xconn.Conn) error {
		id, ok := s.StackSet.CurrentClient()
		if !ok {
			return nil
		}

		return NewError(Backend, x.Kill(id))
	}
}

// Exit builds a key handler asking the run loop to shut down cleanly.
func Exit() KeyHandler {
	return func(s *State, _ xconn.Conn) error {
		s.Exit()
		return nil
	}
}

// Sink builds a key handler returning the focused client to the tiled
// layer.
func Sink() KeyHandler {
	return func(s *State, x xconn.Conn) error {
		id, ok := s.StackSet.CurrentClient()
		if !ok {
			return nil
		}

		return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
			ss.Sink(id)
		})
	}
}

// FloatFocused builds a key handler floating the focused client at its
// current geometry.
func FloatFocused() KeyHandler {
	return func(s *State, x xconn.Conn) error {
		id, ok := s.StackSet.CurrentClient()
		if !ok {
			return nil
		}
		r, err := x.ClientGeometry(id)
		if err != nil {
			return NewError(Backend, err)
		}

		return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
			_ = ss.Float(id, r)
		})
	}
}

// StartMoveDrag builds a mouse press handler beginning a floating move
// drag of the window under the pointer.
func StartMoveDrag() MouseHandler {
	return startDrag(false)
}

// StartResizeDrag builds a mouse press handler beginning a floating resize
// drag of the window under the pointer.
func StartResizeDrag() MouseHandler {
	return startDrag(true)
}

func startDrag(resize bool) MouseHandler {
	return func(ev *xconn.MouseEvent, s *State, x xconn.Conn) error {
		id := ev.Window
		if !s.StackSet.Contains(id) {
			return nil
		}
		r, err := x.ClientGeometry(id)
		if err != nil {
			return NewError(Backend, err)
		}

		s.drag = &dragState{win: id, resize: resize, startPos: ev.RootPos, startRect: r}

		// The client floats at its current position for the duration of
		// the drag.
		return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
			_ = ss.Float(id, r)
		})
	}
}

// EndDrag builds a mouse release handler terminating any in-flight drag.
func EndDrag() MouseHandler {
	return func(_ *xconn.MouseEvent, s *State, _ xconn.Conn) error {
		s.drag = nil
		return nil
	}
}
