package layout

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/spindlewm/spindle/pure"
)

var screen = pure.Rect{X: 0, Y: 0, W: 1920, H: 1080}

// stackOf builds a client stack focused on the first id.
func stackOf(ids ...xproto.Window) *pure.Stack[xproto.Window] {
	return pure.StackFromSlice(ids)
}

func TestMonocle(t *testing.T) {
	s := stackOf(102, 101, 100)

	_, positions := Monocle{}.Layout(s, screen)
	want := []pure.Placement{{Win: 102, Frame: screen}}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}
}

func TestMainAndStackSingletonFillsRegion(t *testing.T) {
	l := NewMainAndStack(1, 0.6, 0.05)

	_, positions := l.Layout(stackOf(100), screen)
	if len(positions) != 1 || positions[0].Frame != screen {
		t.Fatalf("expected a fullscreen single client, got %+v", positions)
	}
}

func TestMainAndStackThreeClients(t *testing.T) {
	l := NewMainAndStack(1, 0.6, 0.05)

	_, positions := l.Layout(stackOf(102, 101, 100), screen)
	want := []pure.Placement{
		{Win: 102, Frame: pure.Rect{X: 0, Y: 0, W: 1152, H: 1080}},
		{Win: 101, Frame: pure.Rect{X: 1152, Y: 0, W: 768, H: 540}},
		{Win: 100, Frame: pure.Rect{X: 1152, Y: 540, W: 768, H: 540}},
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}
}

func TestMainAndStackIncMainAndExpand(t *testing.T) {
	var l pure.Layout = NewMainAndStack(1, 0.6, 0.05)

	for _, m := range []pure.Message{IncMain{Delta: 1}, IncMain{Delta: 1}, ExpandMain{}} {
		if replacement := l.HandleMessage(m); replacement != nil {
			l = replacement
		}
	}

	_, positions := l.Layout(stackOf(102, 101, 100), screen)
	want := []pure.Placement{
		{Win: 102, Frame: pure.Rect{X: 0, Y: 0, W: 1248, H: 360}},
		{Win: 101, Frame: pure.Rect{X: 0, Y: 360, W: 1248, H: 360}},
		{Win: 100, Frame: pure.Rect{X: 0, Y: 720, W: 1248, H: 360}},
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}
}

func TestMainAndStackCounts(t *testing.T) {
	// min(k, n) clients in the main region, the rest in the stack region.
	for _, tt := range []struct {
		k, n      int
		wantMain  int
		wantStack int
	}{
		{2, 1, 1, 1},
		{5, 2, 2, 3},
		{3, 5, 3, 0},
	} {
		l := NewMainAndStack(uint32(tt.n), 0.6, 0.05)
		ids := make([]xproto.Window, tt.k)
		for i := range ids {
			ids[i] = xproto.Window(100 + i)
		}

		_, positions := l.Layout(stackOf(ids...), screen)
		if len(positions) != tt.k {
			t.Fatalf("k=%d n=%d: expected %d placements, got %d", tt.k, tt.n, tt.k, len(positions))
		}

		mainRegion := pure.Rect{X: 0, Y: 0, W: 1152, H: 1080}
		inMain := 0
		for _, p := range positions {
			if mainRegion.ContainsRect(p.Frame) {
				inMain++
			}
		}
		if inMain != tt.wantMain {
			t.Fatalf("k=%d n=%d: expected %d in main region, got %d", tt.k, tt.n, tt.wantMain, inMain)
		}
		if got := len(positions) - inMain; got != tt.wantStack {
			t.Fatalf("k=%d n=%d: expected %d in stack region, got %d", tt.k, tt.n, tt.wantStack, got)
		}
	}
}

func TestMainAndStackMessages(t *testing.T) {
	l := NewMainAndStack(1, 0.6, 0.05)

	// IncMain never drops below one.
	replaced := l.HandleMessage(IncMain{Delta: -5})
	if replaced.(MainAndStack).MaxMain != 1 {
		t.Fatalf("expected MaxMain to clamp at 1")
	}

	// The ratio refuses to leave (0, 1).
	l.Ratio = 0.97
	if replaced := l.HandleMessage(ExpandMain{}); replaced.(MainAndStack).Ratio != 0.97 {
		t.Fatalf("expected ratio step past 1 to be refused")
	}
	l.Ratio = 0.03
	if replaced := l.HandleMessage(ShrinkMain{}); replaced.(MainAndStack).Ratio != 0.03 {
		t.Fatalf("expected ratio step past 0 to be refused")
	}

	// Rotate cycles through the four sides and back.
	var rotated pure.Layout = l
	for i := 0; i < 4; i++ {
		rotated = rotated.HandleMessage(Rotate{})
	}
	if rotated.(MainAndStack).Side != l.Side {
		t.Fatalf("expected four rotations to return to the original side")
	}

	// Mirror flips to the opposite edge.
	if m := l.HandleMessage(Mirror{}); m.(MainAndStack).Side != SideRight {
		t.Fatalf("expected left to mirror to right")
	}

	// Unknown messages are ignored.
	if m := l.HandleMessage(struct{ odd int }{1}); m != nil {
		t.Fatalf("expected unknown message to be ignored")
	}
}

func TestMainAndStackBottom(t *testing.T) {
	l := NewMainAndStack(1, 0.5, 0.05)
	l.Side = SideBottom

	_, positions := l.Layout(stackOf(101, 100), pure.Rect{W: 100, H: 100})
	want := []pure.Placement{
		{Win: 101, Frame: pure.Rect{X: 0, Y: 50, W: 100, H: 50}},
		{Win: 100, Frame: pure.Rect{X: 0, Y: 0, W: 100, H: 50}},
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}
}

func TestCenteredMain(t *testing.T) {
	l := NewCenteredMain(1, 0.5, 0.05)

	_, positions := l.Layout(stackOf(102, 101, 100), pure.Rect{W: 100, H: 100})
	want := []pure.Placement{
		{Win: 102, Frame: pure.Rect{X: 25, Y: 0, W: 50, H: 100}},
		{Win: 101, Frame: pure.Rect{X: 0, Y: 0, W: 25, H: 100}},
		{Win: 100, Frame: pure.Rect{X: 75, Y: 0, W: 25, H: 100}},
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}

	// A singleton still fills the region.
	_, single := l.Layout(stackOf(100), pure.Rect{W: 100, H: 100})
	if len(single) != 1 || single[0].Frame != (pure.Rect{W: 100, H: 100}) {
		t.Fatalf("expected a fullscreen singleton, got %+v", single)
	}
}

func TestGridDimensions(t *testing.T) {
	for _, tt := range []struct {
		k        int
		wantCols uint32
	}{
		{1, 1}, {2, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 4},
	} {
		ids := make([]xproto.Window, tt.k)
		for i := range ids {
			ids[i] = xproto.Window(100 + i)
		}

		_, positions := Grid{}.Layout(stackOf(ids...), pure.Rect{W: 1200, H: 1200})
		if len(positions) != tt.k {
			t.Fatalf("k=%d: expected %d placements, got %d", tt.k, tt.k, len(positions))
		}

		// Every cell of a ceil(sqrt(k)) column grid has this width, modulo
		// the remainder column.
		minWidth := 1200 / tt.wantCols
		for _, p := range positions {
			if p.Frame.W < minWidth || p.Frame.W > minWidth+tt.wantCols {
				t.Fatalf("k=%d: unexpected cell width %d (want about %d)", tt.k, p.Frame.W, minWidth)
			}
		}
	}
}

func TestLayoutWorkspaceEmptyStack(t *testing.T) {
	replacement, positions := pure.LayoutWorkspace(Monocle{}, nil, screen)
	if replacement != nil || positions != nil {
		t.Fatalf("expected no positions for an empty workspace")
	}
}
