package layout

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
)

// Side names the screen edge holding the main area of a MainAndStack.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "Top"
	case SideRight:
		return "Right"
	case SideBottom:
		return "Bottom"
	default:
		return "Left"
	}
}

// opposite is used for the Mirror message.
func (s Side) opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	default:
		return SideTop
	}
}

// rotated is used for the Rotate message.
func (s Side) rotated() Side {
	return (s + 1) % 4
}

// Monocle gives the full region to the focused client and unmaps the rest.
type Monocle struct{}

func (Monocle) Name() string       { return "Mono" }
func (m Monocle) Clone() pure.Layout { return m }

func (m Monocle) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	return nil, []pure.Placement{{Win: s.Focus(), Frame: r}}
}

func (m Monocle) HandleMessage(pure.Message) pure.Layout { return nil }

// MainAndStack divides the region into a main area on one side holding up
// to MaxMain clients and a secondary stack holding the rest.
//
// A single client always fills the whole region. Otherwise the region is
// split at Ratio, the first min(k, MaxMain) clients stack inside the main
// area and any remainder stacks in the secondary area.
//
// Understood messages: IncMain, ExpandMain, ShrinkMain (Ratio +- RatioStep
// clamped inside (0, 1)), Rotate (cycle the main side) and Mirror (flip the
// main side to the opposite edge).
type MainAndStack struct {
	Side      Side
	MaxMain   uint32
	Ratio     float64
	RatioStep float64
}

// NewMainAndStack is the conventional left-main constructor.
func NewMainAndStack(maxMain uint32, ratio, ratioStep float64) MainAndStack {
	return MainAndStack{Side: SideLeft, MaxMain: maxMain, Ratio: ratio, RatioStep: ratioStep}
}

func (l MainAndStack) Name() string { return fmt.Sprintf("Main%s", l.Side) }

func (l MainAndStack) Clone() pure.Layout { return l }

func (l MainAndStack) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	clients := s.Slice()
	k := uint32(len(clients))
	if k == 1 {
		return nil, []pure.Placement{{Win: clients[0], Frame: r}}
	}

	nMain := min(max(l.MaxMain, 1), k)
	main, stack := l.split(r)

	rects := slices(main, nMain, l.Side)
	if k > nMain {
		rects = append(rects, slices(stack, k-nMain, l.Side)...)
	}

	return nil, zip(clients, rects)
}

// split carves the region into (main, stack) areas on the configured side.
func (l MainAndStack) split(r pure.Rect) (main, stack pure.Rect) {
	var a, b pure.Rect
	var ok bool

	switch l.Side {
	case SideLeft:
		a, b, ok = r.SplitAtWidthRatio(l.Ratio)
	case SideRight:
		b, a, ok = r.SplitAtWidthRatio(1 - l.Ratio)
	case SideTop:
		a, b, ok = r.SplitAtHeightRatio(l.Ratio)
	default:
		b, a, ok = r.SplitAtHeightRatio(1 - l.Ratio)
	}

	if !ok {
		return r, pure.Rect{}
	}

	return a, b
}

// slices stacks n rects inside a region: rows for side mains, columns for
// top/bottom mains.
func slices(r pure.Rect, n uint32, side Side) []pure.Rect {
	if side == SideTop || side == SideBottom {
		return r.SplitColumns(n)
	}

	return r.SplitRows(n)
}

func (l MainAndStack) HandleMessage(m pure.Message) pure.Layout {
	switch msg := m.(type) {
	case ExpandMain:
		l.Ratio = stepRatio(l.Ratio, l.RatioStep)
	case ShrinkMain:
		l.Ratio = stepRatio(l.Ratio, -l.RatioStep)
	case IncMain:
		l.MaxMain = bumpMain(l.MaxMain, msg.Delta)
	case Rotate:
		l.Side = l.Side.rotated()
	case Mirror:
		l.Side = l.Side.opposite()
	default:
		return nil
	}

	return l
}

// stepRatio nudges a ratio by step, refusing updates that would leave the
// open interval (0, 1).
func stepRatio(ratio, step float64) float64 {
	if next := ratio + step; next > 0 && next < 1 {
		return next
	}

	return ratio
}

func bumpMain(current uint32, delta int) uint32 {
	next := int(current) + delta
	if next < 1 {
		return 1
	}

	return uint32(next)
}

// CenteredMain keeps the main area as a centered column (or row, after
// Rotate) with the secondary clients split between the two flanking areas.
// A single client always fills the whole region, and when every client fits
// in the main area the flanks are left empty.
type CenteredMain struct {
	Horizontal bool
	MaxMain    uint32
	Ratio      float64
	RatioStep  float64
	// Mirrored swaps which flank receives the larger share of an odd
	// remainder.
	Mirrored bool
}

// NewCenteredMain builds the vertical (centered column) variant.
func NewCenteredMain(maxMain uint32, ratio, ratioStep float64) CenteredMain {
	return CenteredMain{MaxMain: maxMain, Ratio: ratio, RatioStep: ratioStep}
}

func (l CenteredMain) Name() string {
	if l.Horizontal {
		return "CenteredRow"
	}

	return "Centered"
}

func (l CenteredMain) Clone() pure.Layout { return l }

func (l CenteredMain) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	clients := s.Slice()
	k := uint32(len(clients))
	if k == 1 {
		return nil, []pure.Placement{{Win: clients[0], Frame: r}}
	}

	nMain := min(max(l.MaxMain, 1), k)
	first, main, second := l.carve(r)

	rects := l.mainSlices(main, nMain)
	rest := k - nMain
	if rest > 0 {
		a := (rest + 1) / 2
		b := rest - a
		if l.Mirrored {
			a, b = b, a
		}
		rects = append(rects, l.flankSlices(first, a)...)
		rects = append(rects, l.flankSlices(second, b)...)
	}

	return nil, zip(clients, rects)
}

// carve returns (first flank, centered main, second flank).
func (l CenteredMain) carve(r pure.Rect) (first, main, second pure.Rect) {
	side := (1 - l.Ratio) / 2

	if l.Horizontal {
		top, rest, ok := r.SplitAtHeightRatio(side)
		if !ok {
			return pure.Rect{}, r, pure.Rect{}
		}
		mid, bottom, ok := rest.SplitAtHeightRatio(l.Ratio / (1 - side))
		if !ok {
			return top, rest, pure.Rect{}
		}
		return top, mid, bottom
	}

	left, rest, ok := r.SplitAtWidthRatio(side)
	if !ok {
		return pure.Rect{}, r, pure.Rect{}
	}
	mid, right, ok := rest.SplitAtWidthRatio(l.Ratio / (1 - side))
	if !ok {
		return left, rest, pure.Rect{}
	}

	return left, mid, right
}

func (l CenteredMain) mainSlices(r pure.Rect, n uint32) []pure.Rect {
	if l.Horizontal {
		return r.SplitColumns(n)
	}

	return r.SplitRows(n)
}

func (l CenteredMain) flankSlices(r pure.Rect, n uint32) []pure.Rect {
	if n == 0 {
		return nil
	}

	return l.mainSlices(r, n)
}

func (l CenteredMain) HandleMessage(m pure.Message) pure.Layout {
	switch msg := m.(type) {
	case ExpandMain:
		l.Ratio = stepRatio(l.Ratio, l.RatioStep)
	case ShrinkMain:
		l.Ratio = stepRatio(l.Ratio, -l.RatioStep)
	case IncMain:
		l.MaxMain = bumpMain(l.MaxMain, msg.Delta)
	case Rotate:
		l.Horizontal = !l.Horizontal
	case Mirror:
		l.Mirrored = !l.Mirrored
	default:
		return nil
	}

	return l
}

// Grid arranges clients in the smallest square-ish grid that holds them:
// ceil(sqrt(k)) columns and however many rows that needs. Cells are filled
// row-major in stacking order; Rotate switches to column-major fill.
type Grid struct {
	ColumnMajor bool
}

func (Grid) Name() string       { return "Grid" }
func (g Grid) Clone() pure.Layout { return g }

func (g Grid) Layout(s *pure.Stack[xproto.Window], r pure.Rect) (pure.Layout, []pure.Placement) {
	clients := s.Slice()
	k := len(clients)

	cols := int(math.Ceil(math.Sqrt(float64(k))))
	rows := int(math.Ceil(float64(k) / float64(cols)))

	cells := make([]pure.Rect, 0, rows*cols)
	if g.ColumnMajor {
		for _, col := range r.SplitColumns(uint32(cols)) {
			cells = append(cells, col.SplitRows(uint32(rows))...)
		}
	} else {
		for _, row := range r.SplitRows(uint32(rows)) {
			cells = append(cells, row.SplitColumns(uint32(cols))...)
		}
	}

	return nil, zip(clients, cells)
}

func (g Grid) HandleMessage(m pure.Message) pure.Layout {
	if _, ok := m.(Rotate); ok {
		g.ColumnMajor = !g.ColumnMajor
		return g
	}

	return nil
}

// zip pairs clients with rects in order, dropping clients that did not
// receive a cell.
func zip(clients []xproto.Window, rects []pure.Rect) []pure.Placement {
	n := min(len(clients), len(rects))
	placements := make([]pure.Placement, n)
	for i := 0; i < n; i++ {
		placements[i] = pure.Placement{Win: clients[i], Frame: rects[i]}
	}

	return placements
}
