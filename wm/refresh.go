package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/layout"
	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// ModifyAndRefresh is the canonical mutation entry point: f is applied to a
// clone of the pure state, the clone is diffed against the live state and
// the minimal ordered set of X operations reconciling the two is issued.
// Only when every operation succeeds is the clone installed as the live
// state; a backend failure leaves the pre-refresh state in place and the
// error is returned for the caller to log.
//
// Hooks and binding handlers are free to call this themselves: the run
// loop is single threaded and never yields mid-handler.
func ModifyAndRefresh(x xconn.Conn, s *State, f func(*pure.StackSet)) error {
	next := s.StackSet.Clone()
	f(next)

	after := next.Snapshot(next.VisibleClientPositions())
	diff := pure.NewDiff(s.diff.After, after)

	if err := applyDiff(x, s, next, &diff); err != nil {
		return NewError(Backend, err)
	}

	s.StackSet = next
	s.diff = diff

	if hook := s.Config.RefreshHook; hook != nil {
		if err := hook(s, x); err != nil {
			s.userHookError(NewError(UserHook, err))
		}
	}

	return nil
}

// Refresh reconciles the X server against the current pure state without
// mutating it first.
func Refresh(x xconn.Conn, s *State) error {
	return ModifyAndRefresh(x, s, func(*pure.StackSet) {})
}

// applyDiff issues the reconciliation plan in the fixed order: hide
// messages and unmaps, then stacking and geometry, then maps, then border
// attributes, then properties, then the focus update, then one flush.
func applyDiff(x xconn.Conn, s *State, next *pure.StackSet, diff *pure.Diff) error {
	if diff.Empty() {
		// Nothing moved: keep the bookkeeping properties current and stop.
		if err := setWindowProps(x, s, next, diff); err != nil {
			return err
		}
		x.Flush()

		return nil
	}

	notifyHiddenWorkspaces(next, diff)

	if err := hideClients(x, s, diff); err != nil {
		return err
	}
	if err := positionClients(x, s, next, diff); err != nil {
		return err
	}
	if err := revealClients(x, s, next, diff); err != nil {
		return err
	}
	if err := setBorders(x, s, diff); err != nil {
		return err
	}
	if err := withdrawDeadClients(x, s, diff); err != nil {
		return err
	}
	if err := setWindowProps(x, s, next, diff); err != nil {
		return err
	}
	if err := setFocus(x, s, next, diff); err != nil {
		return err
	}
	x.Flush()

	return nil
}

// notifyHiddenWorkspaces delivers Hide to the layouts of every workspace
// that just left a screen so they can release per-workspace resources.
func notifyHiddenWorkspaces(next *pure.StackSet, diff *pure.Diff) {
	for _, tag := range diff.HiddenTags() {
		if w := next.Workspace(tag); w != nil {
			w.BroadcastMessage(layout.Hide{})
		}
	}
}

func hideClients(x xconn.Conn, s *State, diff *pure.Diff) error {
	for _, id := range diff.HiddenClients() {
		if err := hideClient(x, s, id); err != nil {
			return err
		}
	}

	return nil
}

// hideClient unmaps a client while masking the resulting UnmapNotify so it
// is not mistaken for a client-driven withdrawal.
func hideClient(x xconn.Conn, s *State, id xproto.Window) error {
	if !s.mapped[id] {
		return nil
	}

	if err := x.SetClientAttributes(id, []xconn.ClientAttr{{Kind: xconn.AttrClientUnmapMask}}); err != nil {
		return err
	}
	if err := x.Unmap(id); err != nil {
		return err
	}
	if err := x.SetClientAttributes(id, []xconn.ClientAttr{{Kind: xconn.AttrClientEventMask}}); err != nil {
		return err
	}
	if err := x.SetWmState(id, xconn.WmStateIconic); err != nil {
		return err
	}

	delete(s.mapped, id)
	s.pendingUnmap[id]++

	return nil
}

// positionClients pushes stacking order and geometry for every visible
// client. The position list is in top-to-bottom stacking order, so each
// window after the first stacks directly below its predecessor.
func positionClients(x xconn.Conn, s *State, next *pure.StackSet, diff *pure.Diff) error {
	positions := diff.After.Positions

	screenRects := make(map[pure.Rect]bool)
	for _, scr := range next.Screens() {
		screenRects[scr.Geom] = true
	}

	for i, p := range positions {
		cfg := make([]xconn.ClientConfig, 0, 3)
		if i > 0 {
			cfg = append(cfg, xconn.ClientConfig{Kind: xconn.ConfigStackBelow, Sibling: positions[i-1].Win})
		}

		frame := p.Frame
		if border := s.Config.BorderWidth; border > 0 && !screenRects[frame] {
			// The X border is drawn outside the window; shrink so the full
			// footprint matches the assigned rect.
			if frame.W > 2*border && frame.H > 2*border {
				frame.W -= 2 * border
				frame.H -= 2 * border
			}
			cfg = append(cfg, xconn.ClientConfig{Kind: xconn.ConfigBorderPx, BorderPx: border})
		}
		cfg = append(cfg, xconn.ClientConfig{Kind: xconn.ConfigPosition, Position: frame})

		if err := x.SetClientConfig(p.Win, cfg); err != nil {
			return err
		}
	}

	return nil
}

func revealClients(x xconn.Conn, s *State, next *pure.StackSet, diff *pure.Diff) error {
	for _, id := range diff.After.VisibleClients() {
		if s.mapped[id] {
			continue
		}
		if err := x.SetWmState(id, xconn.WmStateNormal); err != nil {
			return err
		}
		if err := x.Map(id); err != nil {
			return err
		}
		if next.Contains(id) {
			s.mapped[id] = true
		}
	}

	return nil
}

func setBorders(x xconn.Conn, s *State, diff *pure.Diff) error {
	if !diff.FocusedClientChanged() {
		return nil
	}

	if diff.Before.HasFocus {
		attr := []xconn.ClientAttr{{Kind: xconn.AttrBorderColor, BorderColor: uint32(s.Config.NormalBorder)}}
		if err := x.SetClientAttributes(diff.Before.FocusedClient, attr); err != nil {
			return err
		}
	}
	if diff.After.HasFocus {
		attr := []xconn.ClientAttr{{Kind: xconn.AttrBorderColor, BorderColor: uint32(s.Config.FocusedBorder)}}
		if err := x.SetClientAttributes(diff.After.FocusedClient, attr); err != nil {
			return err
		}
	}

	return nil
}

// withdrawDeadClients clears bookkeeping and WM_STATE for clients that
// left the managed set entirely.
func withdrawDeadClients(x xconn.Conn, s *State, diff *pure.Diff) error {
	for _, id := range diff.WithdrawnClients() {
		delete(s.mapped, id)
		delete(s.pendingUnmap, id)
		// Best effort: the window may already be destroyed.
		_ = x.SetWmState(id, xconn.WmStateWithdrawn)
	}

	return nil
}

// setWindowProps maintains the EWMH bookkeeping properties on the root
// window and every managed client.
func setWindowProps(x xconn.Conn, s *State, next *pure.StackSet, diff *pure.Diff) error {
	tags := next.OrderedTags()
	root := s.root

	if err := x.SetProp(root, xconn.AtomNetNumberOfDesktops, xconn.CardinalProp(uint32(len(tags)))); err != nil {
		return err
	}
	if err := x.SetProp(root, xconn.AtomNetDesktopNames, xconn.StringProp(tags...)); err != nil {
		return err
	}
	if err := x.SetProp(root, xconn.AtomNetCurrentDesktop, xconn.CardinalProp(uint32(indexOfTag(tags, next.CurrentTag())))); err != nil {
		return err
	}
	if err := x.SetProp(root, xconn.AtomNetClientList, xconn.WindowProp(next.AllClients()...)); err != nil {
		return err
	}

	active := xconn.WindowProp()
	if id, ok := next.CurrentClient(); ok {
		active = xconn.WindowProp(id)
	}
	if err := x.SetProp(root, xconn.AtomNetActiveWindow, active); err != nil {
		return err
	}

	for _, id := range next.AllClients() {
		tag := next.TagForClient(id)
		if err := x.SetProp(id, xconn.AtomNetWMDesktop, xconn.CardinalProp(uint32(indexOfTag(tags, tag)))); err != nil {
			return err
		}
	}

	return nil
}

func indexOfTag(tags []string, tag string) int {
	for i, t := range tags {
		if t == tag {
			return i
		}
	}

	return 0
}

// setFocus pushes the X input focus and, when configured, warps the
// pointer after a screen focus change. It is the final non-flush step of
// the plan.
func setFocus(x xconn.Conn, s *State, next *pure.StackSet, diff *pure.Diff) error {
	screenIdx, screenChanged := diff.NewlyFocusedScreen()

	if diff.FocusedClientChanged() || screenChanged {
		if diff.After.HasFocus {
			if err := x.Focus(diff.After.FocusedClient); err != nil {
				return err
			}
		} else if err := x.Focus(s.root); err != nil {
			return err
		}
	}

	if screenChanged && s.Config.WarpPointer {
		return warpToScreen(x, next, screenIdx)
	}

	return nil
}

func warpToScreen(x xconn.Conn, next *pure.StackSet, index int) error {
	for _, scr := range next.Screens() {
		if scr.Index != index {
			continue
		}
		if id, ok := scr.Workspace.FocusedClient(); ok {
			r, err := x.ClientGeometry(id)
			if err != nil {
				return err
			}
			return x.WarpPointer(id, int16(r.W/2), int16(r.H/2))
		}

		mid := scr.Geom.Midpoint()
		return x.WarpPointer(x.Root(), int16(mid.X), int16(mid.Y))
	}

	return nil
}

func (s *State) userHookError(err error) {
	if handler := s.Config.ErrorHandler; handler != nil {
		handler(err)
		return
	}
	logger.Warn("user hook failed", "err", err)
}
