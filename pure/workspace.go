package pure

import "github.com/BurntSushi/xgb/xproto"

// Workspace is a named collection of client windows with an associated stack
// of layouts. A nil Clients stack means the workspace is empty. The focused
// element of Layouts is the active layout.
type Workspace struct {
	ID      int
	Tag     string
	Layouts *Stack[Layout]
	Clients *Stack[xproto.Window]
}

// NewWorkspace builds a workspace with the given layouts and no clients.
func NewWorkspace(id int, tag string, layouts *Stack[Layout]) Workspace {
	return Workspace{ID: id, Tag: tag, Layouts: layouts}
}

// Clone deep-copies the workspace, cloning each held layout through its
// dynamic clone operation.
func (w Workspace) Clone() Workspace {
	cloned := w
	cloned.Layouts = MapStack(w.Layouts, func(l Layout) Layout { return l.Clone() })
	if w.Clients != nil {
		cloned.Clients = w.Clients.Clone()
	}

	return cloned
}

// ClientList returns the workspace clients in stacking order, or nil for an
// empty workspace.
func (w Workspace) ClientList() []xproto.Window {
	if w.Clients == nil {
		return nil
	}

	return w.Clients.Slice()
}

// Contains reports whether the workspace holds the given client.
func (w Workspace) Contains(id xproto.Window) bool {
	return w.Clients != nil && w.Clients.Contains(id)
}

// FocusedClient returns the focused client, or false for an empty workspace.
func (w Workspace) FocusedClient() (xproto.Window, bool) {
	if w.Clients == nil {
		return 0, false
	}

	return w.Clients.Focus(), true
}

// ActiveLayout returns the focused layout.
func (w Workspace) ActiveLayout() Layout {
	return w.Layouts.Focus()
}

// NextLayout rotates forward through the workspace's layout stack.
func (w *Workspace) NextLayout() {
	w.Layouts.FocusDown()
}

// PreviousLayout rotates backward through the workspace's layout stack.
func (w *Workspace) PreviousLayout() {
	w.Layouts.FocusUp()
}

// SetLayoutByName focuses the first layout whose Name matches. Reports
// whether a matching layout was found.
func (w *Workspace) SetLayoutByName(name string) bool {
	for i := 0; i < w.Layouts.Len(); i++ {
		if w.Layouts.Focus().Name() == name {
			return true
		}
		w.Layouts.FocusDown()
	}

	return false
}

// HandleMessage delivers m to the active layout, installing any replacement
// layout it returns.
func (w *Workspace) HandleMessage(m Message) {
	if replacement := w.Layouts.Focus().HandleMessage(m); replacement != nil {
		w.Layouts.focus = replacement
	}
}

// BroadcastMessage delivers m to every layout on the workspace.
func (w *Workspace) BroadcastMessage(m Message) {
	for i := range w.Layouts.up {
		if replacement := w.Layouts.up[i].HandleMessage(m); replacement != nil {
			w.Layouts.up[i] = replacement
		}
	}
	if replacement := w.Layouts.focus.HandleMessage(m); replacement != nil {
		w.Layouts.focus = replacement
	}
	for i := range w.Layouts.down {
		if replacement := w.Layouts.down[i].HandleMessage(m); replacement != nil {
			w.Layouts.down[i] = replacement
		}
	}
}
