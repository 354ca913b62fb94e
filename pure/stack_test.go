package pure

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testStack() *Stack[int] {
	// Visual order: 1 2 [3] 4 5 with 3 focused.
	s := NewStack(1, 2, 3, 4, 5)
	s.FocusDown()
	s.FocusDown()

	return s
}

func assertStack(t *testing.T, s *Stack[int], wantOrder []int, wantFocus int) {
	t.Helper()
	if diff := cmp.Diff(wantOrder, s.Slice()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if got := s.Focus(); got != wantFocus {
		t.Fatalf("expected focus %d, got %d", wantFocus, got)
	}
}

func TestFocusMovesDoNotReorder(t *testing.T) {
	s := testStack()
	order := s.Slice()

	for i := 0; i < 7; i++ {
		s.FocusDown()
		if diff := cmp.Diff(order, s.Slice()); diff != "" {
			t.Fatalf("FocusDown reordered elements:\n%s", diff)
		}
	}
	for i := 0; i < 7; i++ {
		s.FocusUp()
		if diff := cmp.Diff(order, s.Slice()); diff != "" {
			t.Fatalf("FocusUp reordered elements:\n%s", diff)
		}
	}
}

func TestFocusUpDownIsIdentity(t *testing.T) {
	s := testStack()
	want := s.Focus()

	s.FocusUp()
	s.FocusDown()
	assertStack(t, s, []int{1, 2, 3, 4, 5}, want)

	// Across the wrap as well.
	s = NewStack(1, 2, 3)
	s.FocusUp() // wraps to 3
	s.FocusDown()
	assertStack(t, s, []int{1, 2, 3}, 1)
}

func TestFocusWraps(t *testing.T) {
	s := NewStack(1, 2, 3)

	s.FocusUp()
	assertStack(t, s, []int{1, 2, 3}, 3)

	s.FocusDown()
	assertStack(t, s, []int{1, 2, 3}, 1)
}

func TestSwapUpMovesFocusedElement(t *testing.T) {
	s := testStack()

	s.SwapUp()
	assertStack(t, s, []int{1, 3, 2, 4, 5}, 3)

	s.SwapUp()
	assertStack(t, s, []int{3, 1, 2, 4, 5}, 3)

	// At the head: wraps to the tail.
	s.SwapUp()
	assertStack(t, s, []int{1, 2, 4, 5, 3}, 3)
}

func TestSwapDownMovesFocusedElement(t *testing.T) {
	s := testStack()

	s.SwapDown()
	assertStack(t, s, []int{1, 2, 4, 3, 5}, 3)

	s.SwapDown()
	assertStack(t, s, []int{1, 2, 4, 5, 3}, 3)

	// At the tail: wraps to the head.
	s.SwapDown()
	assertStack(t, s, []int{3, 1, 2, 4, 5}, 3)
}

func TestSwapFocusToHead(t *testing.T) {
	s := testStack()

	s.SwapFocusToHead()
	assertStack(t, s, []int{3, 1, 2, 4, 5}, 3)

	// Already at the head: no-op.
	s.SwapFocusToHead()
	assertStack(t, s, []int{3, 1, 2, 4, 5}, 3)
}

func TestInsertPoints(t *testing.T) {
	tests := []struct {
		name      string
		at        InsertPoint
		wantOrder []int
		wantFocus int
	}{
		{"focus", InsertFocus, []int{1, 2, 9, 3, 4, 5}, 9},
		{"head", InsertHead, []int{9, 1, 2, 3, 4, 5}, 3},
		{"tail", InsertTail, []int{1, 2, 3, 4, 5, 9}, 3},
		{"after focus", InsertAfterFocus, []int{1, 2, 3, 9, 4, 5}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStack()
			s.Insert(tt.at, 9)
			assertStack(t, s, tt.wantOrder, tt.wantFocus)
		})
	}
}

func TestRemoveFocusedPromotesDownThenUp(t *testing.T) {
	s := testStack()

	s = s.RemoveFocused()
	assertStack(t, s, []int{1, 2, 4, 5}, 4)

	// Focus the tail so promotion has to go up.
	s.FocusDown()
	s = s.RemoveFocused()
	assertStack(t, s, []int{1, 2, 4}, 4)

	s = s.RemoveFocused()
	assertStack(t, s, []int{1, 2}, 2)
	s = s.RemoveFocused()
	assertStack(t, s, []int{1}, 1)

	if s = s.RemoveFocused(); s != nil {
		t.Fatalf("expected removing the last element to return nil, got %v", s.Slice())
	}
}

func TestFilter(t *testing.T) {
	s := testStack()

	s = s.Filter(func(n int) bool { return n%2 == 1 })
	assertStack(t, s, []int{1, 3, 5}, 3)

	if s = s.Filter(func(int) bool { return false }); s != nil {
		t.Fatalf("expected filtering everything to return nil")
	}
}

func TestFocusElement(t *testing.T) {
	s := testStack()

	if !s.FocusElement(5) {
		t.Fatalf("expected element 5 to be found")
	}
	assertStack(t, s, []int{1, 2, 3, 4, 5}, 5)

	if s.FocusElement(42) {
		t.Fatalf("expected missing element to be reported")
	}
	assertStack(t, s, []int{1, 2, 3, 4, 5}, 5)
}

func TestMapStack(t *testing.T) {
	s := testStack()

	doubled := MapStack(s, func(n int) int { return n * 2 })
	assertStack(t, doubled, []int{2, 4, 6, 8, 10}, 6)
}

func TestHeadAndContains(t *testing.T) {
	s := testStack()

	if got := s.Head(); got != 1 {
		t.Fatalf("expected head 1, got %d", got)
	}
	if !s.Contains(4) || s.Contains(42) {
		t.Fatalf("unexpected Contains results")
	}
}

func TestStackFromSlice(t *testing.T) {
	if s := StackFromSlice([]int(nil)); s != nil {
		t.Fatalf("expected nil stack from empty slice")
	}

	s := StackFromSlice([]int{7, 8, 9})
	assertStack(t, s, []int{7, 8, 9}, 7)
}
