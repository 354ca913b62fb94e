package pure

import "github.com/BurntSushi/xgb/xproto"

// Message is a dynamically typed payload delivered to layouts. Layouts type
// switch on the concrete messages they understand and ignore the rest.
type Message any

// Placement assigns a screen rectangle to a client window.
type Placement struct {
	Win   xproto.Window
	Frame Rect
}

// Layout arranges the clients of a workspace inside a screen region.
//
// Layout returns the positions for a non-empty stack in top-to-bottom
// stacking order. Clients present in the stack but absent from the returned
// positions are unmapped. Overlapping and off-screen rectangles are allowed.
// A non-nil Layout return value replaces the layout on the workspace,
// allowing value-type layouts to update internal state.
type Layout interface {
	Name() string
	Clone() Layout
	Layout(s *Stack[xproto.Window], r Rect) (Layout, []Placement)
	HandleMessage(m Message) Layout
}

// EmptyLayouter is implemented by layouts that want to place windows (or
// other decoration) on a workspace with no clients. Layouts without it
// produce no positions for an empty workspace.
type EmptyLayouter interface {
	LayoutEmpty(r Rect) (Layout, []Placement)
}

// LayoutWorkspace runs l for a workspace that may or may not have clients,
// dispatching to Layout or LayoutEmpty as appropriate.
func LayoutWorkspace(l Layout, s *Stack[xproto.Window], r Rect) (Layout, []Placement) {
	if s != nil {
		return l.Layout(s, r)
	}

	if el, ok := l.(EmptyLayouter); ok {
		return el.LayoutEmpty(r)
	}

	return nil, nil
}
