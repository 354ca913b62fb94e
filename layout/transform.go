package layout

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
)

// The transformers below wrap an inner layout, reshaping the region it is
// offered and post-processing the positions it returns. They all unwrap in
// response to UnwrapTransformer and forward every other message to the
// inner layout, re-wrapping any replacement it produces.

// runTransformed drives an inner layout through a region rewrite and a
// position rewrite. Either func may be nil.
func runTransformed(
	inner pure.Layout,
	s *pure.Stack[xproto.Window],
	r pure.Rect,
	pre func(pure.Rect) pure.Rect,
	post func(pure.Rect, []pure.Placement) []pure.Placement,
) (pure.Layout, []pure.Placement) {
	inR := r
	if pre != nil {
		inR = pre(r)
	}

	replacement, positions := pure.LayoutWorkspace(inner, s, inR)
	if post != nil {
		positions = post(inR, positions)
	}

	return replacement, positions
}

// Gaps leaves Outer pixels free around the screen edge and splits Px
// pixels of spacing between neighbouring windows by shrinking every
// returned rect by Px/2 on each side.
type Gaps struct {
	Inner pure.Layout
	Outer uint32
	Px    uint32
}

// NewGaps wraps a layout with outer and inner gaps.
func NewGaps(inner pure.Layout, outer, innerPx uint32) Gaps {
	return Gaps{Inner: inner, Outer: outer, Px: innerPx}
}

func (g Gaps) Name() string { return g.Inner.Name() }

func (g Gaps) Clone() pure.Layout {
	g.Inner = g.Inner.Clone()
	return g
}

func (g Gaps) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	replacement, positions := runTransformed(g.Inner, s, r,
		func(r pure.Rect) pure.Rect { return r.ShrinkIn(g.Outer) },
		func(_ pure.Rect, ps []pure.Placement) []pure.Placement {
			for i := range ps {
				ps[i].Frame = ps[i].Frame.ShrinkIn(g.Px / 2)
			}
			return ps
		},
	)

	return g.rewrap(replacement), positions
}

func (g Gaps) HandleMessage(m pure.Message) pure.Layout {
	if _, ok := m.(UnwrapTransformer); ok {
		return g.Inner
	}

	return g.rewrap(g.Inner.HandleMessage(m))
}

func (g Gaps) rewrap(replacement pure.Layout) pure.Layout {
	if replacement == nil {
		return nil
	}
	g.Inner = replacement

	return g
}

// ReflectHorizontal mirrors the positions of the wrapped layout about the
// vertical midline of the region.
type ReflectHorizontal struct {
	Inner pure.Layout
}

func (t ReflectHorizontal) Name() string { return "Reflected" + t.Inner.Name() }

func (t ReflectHorizontal) Clone() pure.Layout {
	t.Inner = t.Inner.Clone()
	return t
}

func (t ReflectHorizontal) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	replacement, positions := runTransformed(t.Inner, s, r, nil, reflectHorizontal)

	return t.rewrap(replacement), positions
}

func (t ReflectHorizontal) HandleMessage(m pure.Message) pure.Layout {
	if _, ok := m.(UnwrapTransformer); ok {
		return t.Inner
	}

	return t.rewrap(t.Inner.HandleMessage(m))
}

func (t ReflectHorizontal) rewrap(replacement pure.Layout) pure.Layout {
	if replacement == nil {
		return nil
	}
	t.Inner = replacement

	return t
}

func reflectHorizontal(r pure.Rect, positions []pure.Placement) []pure.Placement {
	right := 2*r.X + int32(r.W)
	for i := range positions {
		f := positions[i].Frame
		positions[i].Frame.X = right - f.X - int32(f.W)
	}

	return positions
}

// ReflectVertical mirrors the positions of the wrapped layout about the
// horizontal midline of the region.
type ReflectVertical struct {
	Inner pure.Layout
}

func (t ReflectVertical) Name() string { return "Flipped" + t.Inner.Name() }

func (t ReflectVertical) Clone() pure.Layout {
	t.Inner = t.Inner.Clone()
	return t
}

func (t ReflectVertical) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	replacement, positions := runTransformed(t.Inner, s, r, nil, reflectVertical)

	return t.rewrap(replacement), positions
}

func (t ReflectVertical) HandleMessage(m pure.Message) pure.Layout {
	if _, ok := m.(UnwrapTransformer); ok {
		return t.Inner
	}

	return t.rewrap(t.Inner.HandleMessage(m))
}

func (t ReflectVertical) rewrap(replacement pure.Layout) pure.Layout {
	if replacement == nil {
		return nil
	}
	t.Inner = replacement

	return t
}

func reflectVertical(r pure.Rect, positions []pure.Placement) []pure.Placement {
	bottom := 2*r.Y + int32(r.H)
	for i := range positions {
		f := positions[i].Frame
		positions[i].Frame.Y = bottom - f.Y - int32(f.H)
	}

	return positions
}

// ReserveTop keeps Px rows at the top of the region free, typically for a
// status bar.
type ReserveTop struct {
	Inner pure.Layout
	Px    uint32
}

func (t ReserveTop) Name() string { return t.Inner.Name() }

func (t ReserveTop) Clone() pure.Layout {
	t.Inner = t.Inner.Clone()
	return t
}

func (t ReserveTop) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	replacement, positions := runTransformed(t.Inner, s, r,
		func(r pure.Rect) pure.Rect {
			if r.H <= t.Px {
				return r
			}
			r.Y += int32(t.Px)
			r.H -= t.Px
			return r
		},
		nil,
	)

	return t.rewrap(replacement), positions
}

func (t ReserveTop) HandleMessage(m pure.Message) pure.Layout {
	if _, ok := m.(UnwrapTransformer); ok {
		return t.Inner
	}

	return t.rewrap(t.Inner.HandleMessage(m))
}

func (t ReserveTop) rewrap(replacement pure.Layout) pure.Layout {
	if replacement == nil {
		return nil
	}
	t.Inner = replacement

	return t
}
