package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// handleEvent is the built-in event table. It runs after the event hook
// chain has agreed to continue.
func (m *WindowManager) handleEvent(ev xconn.Event) error {
	x, s := m.x, m.state

	switch ev := ev.(type) {
	case xconn.KeyPressEvent:
		return m.keyPress(ev)

	case xconn.MouseEvent:
		return m.mouseEvent(ev)

	case xconn.MapRequestEvent:
		return mapRequest(x, s, ev.Window)

	case xconn.UnmapNotifyEvent:
		return unmapNotify(x, s, ev)

	case xconn.DestroyNotifyEvent:
		if s.StackSet.Contains(ev.Window) {
			return unmanage(x, s, ev.Window)
		}
		return nil

	case xconn.ConfigureRequestEvent:
		return configureRequest(x, s, ev)

	case xconn.PropertyNotifyEvent:
		if ev.Window == s.root {
			return detectScreens(x, s)
		}
		return nil

	case xconn.EnterEvent:
		return enter(x, s, ev)

	case xconn.FocusInEvent:
		if s.StackSet.Contains(ev.Window) {
			return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
				_ = ss.FocusClient(ev.Window)
			})
		}
		return nil

	case xconn.ClientMessageEvent:
		// EWMH style requests are routed through the event hook chain;
		// there is no further built-in behaviour.
		logger.Debug("client message", "type", ev.Type, "window", ev.Window)
		return nil

	case xconn.MappingNotifyEvent:
		return m.regrab()

	case xconn.ScreenChangeEvent:
		return detectScreens(x, s)

	default:
		return nil
	}
}

func (m *WindowManager) keyPress(ev xconn.KeyPressEvent) error {
	handler, ok := m.keys.handlerFor(ev.Key)
	if !ok {
		return nil
	}

	return handler(m.state, m.x)
}

func (m *WindowManager) mouseEvent(ev xconn.MouseEvent) error {
	x, s := m.x, m.state

	// An active drag consumes motion and release directly so gestures keep
	// working even without explicit motion bindings.
	if s.drag != nil {
		switch ev.State.Kind {
		case xconn.MouseMotion:
			return continueDrag(x, s, &ev)
		case xconn.MouseRelease:
			s.drag = nil
			return nil
		}
	}

	handler, ok := m.mouse.handlerFor(ev.State)
	if !ok {
		return nil
	}

	return handler(&ev, s, x)
}

// mapRequest takes responsibility for a window if its attributes allow
// management: it is inserted into the state (floating when its class or
// window type asks for it), run through the manage hook and revealed by
// the following refresh.
func mapRequest(x xconn.Conn, s *State, id xproto.Window) error {
	if s.StackSet.Contains(id) {
		return Refresh(x, s)
	}

	attrs, err := x.GetWindowAttributes(id)
	if err != nil {
		return NewError(Backend, err)
	}
	if attrs.OverrideRedirect || attrs.InputOnly {
		return nil
	}

	return manage(x, s, id)
}

func manage(x xconn.Conn, s *State, id xproto.Window) error {
	logger.Debug("managing new client", "window", id)

	float, err := clientShouldFloat(x, id, s.Config.FloatingClasses)
	if err != nil {
		logger.Debug("unable to read float hints", "window", id, "err", err)
	}

	if err := setInitialProperties(x, s, id); err != nil {
		return NewError(Backend, err)
	}

	s.StackSet.InsertAt(s.Config.InsertPoint, id)
	if float {
		if r, err := x.ClientGeometry(id); err == nil {
			_ = s.StackSet.Float(id, r)
		}
	}

	if hook := s.Config.ManageHook; hook != nil {
		if err := hook(id, s, x); err != nil {
			s.userHookError(NewError(UserHook, err))
		}
	}

	return Refresh(x, s)
}

// clientShouldFloat consults WM_CLASS and _NET_WM_WINDOW_TYPE.
func clientShouldFloat(x xconn.Conn, id xproto.Window, floatingClasses []string) (bool, error) {
	if prop, err := x.GetProp(id, xconn.AtomWMClass); err == nil && prop != nil {
		for _, class := range prop.Strs {
			for _, floating := range floatingClasses {
				if class == floating {
					return true, nil
				}
			}
		}
	}

	prop, err := x.GetProp(id, xconn.AtomNetWMWindowType)
	if err != nil || prop == nil {
		return false, err
	}
	for _, atom := range prop.Atoms {
		name, err := x.AtomName(atom)
		if err != nil {
			continue
		}
		for _, floating := range xconn.AutoFloatWindowTypes {
			if name == floating {
				return true, nil
			}
		}
	}

	return false, nil
}

func setInitialProperties(x xconn.Conn, s *State, id xproto.Window) error {
	if err := x.SetWmState(id, xconn.WmStateIconic); err != nil {
		return err
	}
	attrs := []xconn.ClientAttr{
		{Kind: xconn.AttrClientEventMask},
		{Kind: xconn.AttrBorderColor, BorderColor: uint32(s.Config.NormalBorder)},
	}
	if err := x.SetClientAttributes(id, attrs); err != nil {
		return err
	}

	return x.SetClientConfig(id, []xconn.ClientConfig{{Kind: xconn.ConfigBorderPx, BorderPx: s.Config.BorderWidth}})
}

// unmapNotify distinguishes unmaps the manager issued itself (counted in
// pendingUnmap) from client-driven withdrawals.
func unmapNotify(x xconn.Conn, s *State, ev xconn.UnmapNotifyEvent) error {
	if !ev.Synthetic && s.pendingUnmap[ev.Window] > 0 {
		s.pendingUnmap[ev.Window]--
		if s.pendingUnmap[ev.Window] == 0 {
			delete(s.pendingUnmap, ev.Window)
		}
		return nil
	}

	if !s.StackSet.Contains(ev.Window) {
		return nil
	}

	return unmanage(x, s, ev.Window)
}

func unmanage(x xconn.Conn, s *State, id xproto.Window) error {
	logger.Debug("removing client", "window", id)

	return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
		ss.Remove(id)
	})
}

// configureRequest honours requests from unmanaged and floating windows
// and denies geometry changes for managed tiled clients by re-asserting
// the tiled position.
func configureRequest(x xconn.Conn, s *State, ev xconn.ConfigureRequestEvent) error {
	if !s.StackSet.Contains(ev.Window) {
		return NewError(Backend, x.SetClientConfig(ev.Window, []xconn.ClientConfig{{Kind: xconn.ConfigPosition, Position: ev.Rect}}))
	}

	if s.StackSet.IsFloating(ev.Window) {
		return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
			_ = ss.Float(ev.Window, ev.Rect)
		})
	}

	// Tiled: deny by restating the position the layout assigned.
	for _, p := range s.diff.After.Positions {
		if p.Win == ev.Window {
			return NewError(Backend, x.SetClientConfig(ev.Window, []xconn.ClientConfig{{Kind: xconn.ConfigPosition, Position: p.Frame}}))
		}
	}

	return nil
}

func enter(x xconn.Conn, s *State, ev xconn.EnterEvent) error {
	if !s.Config.FocusFollowsMouse || !s.StackSet.Contains(ev.Window) {
		return nil
	}

	return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
		_ = ss.FocusClient(ev.Window)
	})
}

// detectScreens re-reads output geometry and reconciles the screen list,
// preserving workspace-to-screen mapping by index where possible.
func detectScreens(x xconn.Conn, s *State) error {
	rects, err := x.ScreenDetails()
	if err != nil {
		return NewError(Backend, err)
	}

	current := make([]pure.Rect, 0, len(rects))
	for _, scr := range s.StackSet.Screens() {
		current = append(current, scr.Geom)
	}
	if rectsEqual(rects, current) {
		return nil
	}

	logger.Info("screen change detected", "outputs", len(rects))

	return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
		if err := ss.UpdateScreens(rects); err != nil {
			logger.Error("unable to update screens", "err", err)
		}
	})
}

func rectsEqual(a, b []pure.Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// continueDrag updates the floating rect of the dragged client from the
// pointer delta.
func continueDrag(x xconn.Conn, s *State, ev *xconn.MouseEvent) error {
	d := s.drag
	dx := ev.RootPos.X - d.startPos.X
	dy := ev.RootPos.Y - d.startPos.Y

	r := d.startRect
	if d.resize {
		w := int32(r.W) + dx
		h := int32(r.H) + dy
		if w < 50 {
			w = 50
		}
		if h < 50 {
			h = 50
		}
		r.W, r.H = uint32(w), uint32(h)
	} else {
		r.X += dx
		r.Y += dy
	}

	return ModifyAndRefresh(x, s, func(ss *pure.StackSet) {
		_ = ss.Float(d.win, r)
	})
}
