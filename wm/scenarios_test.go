package wm

import (
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/spindlewm/spindle/layout"
	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// The tests below walk the startup scenarios end to end against the fake
// capability: two 1920x1080 screens side by side, tags 1/2/3 and a left
// main MainAndStack{n:1, ratio:0.6, step:0.05}.

func scenarioManager(t *testing.T) (*WindowManager, *fakeConn) {
	t.Helper()

	x := newFakeConn(
		pure.Rect{X: 0, Y: 0, W: 1920, H: 1080},
		pure.Rect{X: 1920, Y: 0, W: 1920, H: 1080},
	)
	m, err := New(x, testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error building manager: %v", err)
	}
	if err := m.bootstrap(); err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}

	return m, x
}

func TestScenarioStartup(t *testing.T) {
	m, x := scenarioManager(t)
	ss := m.state.StackSet

	screens := ss.Screens()
	if len(screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(screens))
	}
	if screens[0].Workspace.Tag != "1" || screens[1].Workspace.Tag != "2" {
		t.Fatalf("unexpected workspace assignment: %q/%q",
			screens[0].Workspace.Tag, screens[1].Workspace.Tag)
	}
	if ss.CurrentScreen().Index != 0 || ss.CurrentTag() != "1" {
		t.Fatalf("expected focus on screen 0 showing tag 1")
	}
	if w := ss.Workspace("3"); w == nil {
		t.Fatalf("expected tag 3 to exist in hidden")
	}
	for _, s := range screens {
		if s.Workspace.Tag == "3" {
			t.Fatalf("expected tag 3 to be hidden, found it on screen %d", s.Index)
		}
	}

	if got := x.propCards(x.root, xconn.AtomNetNumberOfDesktops); len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected _NET_NUMBER_OF_DESKTOPS=3, got %v", got)
	}
	if got := x.propCards(x.root, xconn.AtomNetCurrentDesktop); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected _NET_CURRENT_DESKTOP=0, got %v", got)
	}
}

func TestScenarioFirstMapRequest(t *testing.T) {
	m, x := scenarioManager(t)
	x.reset()
	mapWindow(t, m, x, 100)

	ss := m.state.StackSet
	if diff := cmp.Diff([]xproto.Window{100}, ss.CurrentStack().Slice()); diff != "" {
		t.Fatalf("unexpected stack (-want +got):\n%s", diff)
	}

	if got := x.propWins(x.root, xconn.AtomNetClientList); len(got) != 1 || got[0] != 100 {
		t.Fatalf("expected _NET_CLIENT_LIST=[100], got %v", got)
	}

	wantPositions := []pure.Placement{
		{Win: 100, Frame: pure.Rect{X: 0, Y: 0, W: 1920, H: 1080}},
	}
	if diff := cmp.Diff(wantPositions, m.state.diff.After.Positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}

	if maps := x.opsMatching("map"); len(maps) != 1 || maps[0] != "map 100" {
		t.Fatalf("expected 100 to be mapped, got %v", maps)
	}
	if focus := x.opsMatching("focus"); len(focus) == 0 || focus[len(focus)-1] != "focus 100" {
		t.Fatalf("expected input focus on 100, got %v", focus)
	}
}

func scenarioThree(t *testing.T) (*WindowManager, *fakeConn) {
	t.Helper()

	m, x := scenarioManager(t)
	mapWindow(t, m, x, 100)
	mapWindow(t, m, x, 101)
	mapWindow(t, m, x, 102)

	return m, x
}

func TestScenarioLayoutMessages(t *testing.T) {
	m, _ := scenarioThree(t)

	wantInitial := []pure.Placement{
		{Win: 102, Frame: pure.Rect{X: 0, Y: 0, W: 1152, H: 1080}},
		{Win: 101, Frame: pure.Rect{X: 1152, Y: 0, W: 768, H: 540}},
		{Win: 100, Frame: pure.Rect{X: 1152, Y: 540, W: 768, H: 540}},
	}
	if diff := cmp.Diff(wantInitial, m.state.diff.After.Positions); diff != "" {
		t.Fatalf("unexpected initial positions (-want +got):\n%s", diff)
	}

	for _, msg := range []pure.Message{
		layout.IncMain{Delta: 1},
		layout.IncMain{Delta: 1},
		layout.ExpandMain{},
	} {
		if err := SendLayoutMessage(msg)(m.state, m.x); err != nil {
			t.Fatalf("unexpected error sending %T: %v", msg, err)
		}
	}

	wantAfter := []pure.Placement{
		{Win: 102, Frame: pure.Rect{X: 0, Y: 0, W: 1248, H: 360}},
		{Win: 101, Frame: pure.Rect{X: 0, Y: 360, W: 1248, H: 360}},
		{Win: 100, Frame: pure.Rect{X: 0, Y: 720, W: 1248, H: 360}},
	}
	if diff := cmp.Diff(wantAfter, m.state.diff.After.Positions); diff != "" {
		t.Fatalf("unexpected positions after messages (-want +got):\n%s", diff)
	}

	if id, _ := m.state.StackSet.CurrentClient(); id != 102 {
		t.Fatalf("expected focus to remain on 102, got %d", id)
	}
}

func TestScenarioViewHiddenTag(t *testing.T) {
	m, x := scenarioThree(t)

	x.reset()
	if err := m.ModifyAndRefresh(func(ss *pure.StackSet) { _ = ss.View("3") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ss := m.state.StackSet
	if ss.CurrentTag() != "3" || ss.CurrentScreen().Index != 0 {
		t.Fatalf("expected screen 0 to show tag 3")
	}
	if ss.CurrentStack() != nil {
		t.Fatalf("expected tag 3 to be empty")
	}
	if w := ss.Workspace("1"); w == nil || w.Clients.Len() != 3 {
		t.Fatalf("expected the three clients to survive on hidden tag 1")
	}

	unmaps := x.opsMatching("unmap")
	if len(unmaps) != 3 {
		t.Fatalf("expected 3 unmaps, got %v", unmaps)
	}

	// Tag 3 was created third: stable desktop index 2.
	if got := x.propCards(x.root, xconn.AtomNetCurrentDesktop); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected _NET_CURRENT_DESKTOP=2, got %v", got)
	}
}

func TestScenarioMoveClientToVisibleTag(t *testing.T) {
	m, x := scenarioThree(t)

	x.reset()
	if err := m.ModifyAndRefresh(func(ss *pure.StackSet) { _ = ss.MoveFocusedToTag("2") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ss := m.state.StackSet
	if diff := cmp.Diff([]xproto.Window{101, 100}, ss.CurrentStack().Slice()); diff != "" {
		t.Fatalf("unexpected stack on tag 1 (-want +got):\n%s", diff)
	}
	if id, _ := ss.CurrentClient(); id != 101 {
		t.Fatalf("expected focus on 101, got %d", id)
	}
	if diff := cmp.Diff([]xproto.Window{102}, ss.Workspace("2").Clients.Slice()); diff != "" {
		t.Fatalf("unexpected stack on tag 2 (-want +got):\n%s", diff)
	}

	// 102 now fills the second screen.
	found := false
	for _, p := range m.state.diff.After.Positions {
		if p.Win == 102 {
			found = true
			if p.Frame != (pure.Rect{X: 1920, Y: 0, W: 1920, H: 1080}) {
				t.Fatalf("expected 102 on screen 1 geometry, got %v", p.Frame)
			}
		}
	}
	if !found {
		t.Fatalf("expected a position for 102")
	}

	if focus := x.opsMatching("focus"); len(focus) == 0 || focus[len(focus)-1] != "focus 101" {
		t.Fatalf("expected input focus on 101, got %v", focus)
	}
}

func TestScenarioFloatAndSink(t *testing.T) {
	m, _ := scenarioThree(t)

	tiledBefore := append([]pure.Placement(nil), m.state.diff.After.Positions...)

	err := m.ModifyAndRefresh(func(ss *pure.StackSet) {
		_ = ss.Float(101, pure.Rect{X: 100, Y: 100, W: 400, H: 300})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rel, ok := m.state.StackSet.FloatingRect(101)
	if !ok {
		t.Fatalf("expected 101 to float")
	}
	want := pure.RelativeRect{
		X: 100.0 / 1920.0, Y: 100.0 / 1080.0,
		W: 400.0 / 1920.0, H: 300.0 / 1080.0,
	}
	if rel != want {
		t.Fatalf("expected %v, got %v", want, rel)
	}

	positions := m.state.diff.After.Positions
	if positions[0].Win != 101 {
		t.Fatalf("expected the float stacked on top, got %d", positions[0].Win)
	}
	if positions[0].Frame != (pure.Rect{X: 100, Y: 100, W: 400, H: 300}) {
		t.Fatalf("unexpected float frame %v", positions[0].Frame)
	}

	// Sinking restores the tiled arrangement exactly.
	if err := m.ModifyAndRefresh(func(ss *pure.StackSet) { ss.Sink(101) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(tiledBefore, m.state.diff.After.Positions); diff != "" {
		t.Fatalf("sink did not restore tiling (-want +got):\n%s", diff)
	}
}

func TestScenarioAdoptExistingClients(t *testing.T) {
	x := newFakeConn(pure.Rect{W: 1920, H: 1080})
	x.existing = []xproto.Window{50, 51, 52}
	x.addWindow(50, pure.Rect{W: 100, H: 100})
	x.addWindow(51, pure.Rect{W: 100, H: 100})
	// 52 is override-redirect and must be skipped.
	x.geoms[52] = pure.Rect{W: 10, H: 10}
	x.attrs[52] = xconn.WindowAttributes{OverrideRedirect: true, Mapped: true}

	managed := []xproto.Window{}
	cfg := testConfig()
	cfg.ComposeOrSetManageHook(func(id xproto.Window, s *State, _ xconn.Conn) error {
		managed = append(managed, id)
		return nil
	})

	m, err := New(x, cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.bootstrap(); err != nil {
		t.Fatalf("unexpected bootstrap error: %v", err)
	}

	if diff := cmp.Diff([]xproto.Window{50, 51}, managed); diff != "" {
		t.Fatalf("unexpected adopted clients (-want +got):\n%s", diff)
	}
	if !m.state.StackSet.Contains(50) || !m.state.StackSet.Contains(51) || m.state.StackSet.Contains(52) {
		t.Fatalf("unexpected managed set")
	}
}

func TestScenarioManageHookCanRetarget(t *testing.T) {
	cfg := testConfig()
	cfg.ComposeOrSetManageHook(func(id xproto.Window, s *State, _ xconn.Conn) error {
		_ = s.StackSet.MoveClientToTag(id, "3")
		return nil
	})

	x := newFakeConn(pure.Rect{W: 1920, H: 1080})
	m, err := New(x, cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mapWindow(t, m, x, 100)

	if tag := m.state.StackSet.TagForClient(100); tag != "3" {
		t.Fatalf("expected the manage hook to move 100 to tag 3, got %q", tag)
	}
	// The client is on a hidden workspace, so it must not be mapped.
	if maps := x.opsMatching("map"); len(maps) != 0 {
		t.Fatalf("expected no maps for a hidden client, got %v", maps)
	}
}

func TestEventHookStopsBuiltinHandling(t *testing.T) {
	cfg := testConfig()
	cfg.ComposeOrSetEventHook(func(ev xconn.Event, s *State, x xconn.Conn) (bool, error) {
		if _, ok := ev.(xconn.MapRequestEvent); ok {
			return false, nil
		}
		return true, nil
	})

	x := newFakeConn(pure.Rect{W: 1920, H: 1080})
	m, err := New(x, cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x.addWindow(100, pure.Rect{W: 10, H: 10})
	m.dispatch(xconn.MapRequestEvent{Window: 100})

	if m.state.StackSet.Contains(100) {
		t.Fatalf("expected the event hook to short-circuit the built-in handler")
	}
}

func TestRunLoopProcessesEventsUntilExit(t *testing.T) {
	x := newFakeConn(pure.Rect{W: 1920, H: 1080})
	x.addWindow(100, pure.Rect{W: 10, H: 10})

	exitKey := xconn.KeyCode{Mask: xconn.ModSuper, Code: 24}
	keys := KeyBindings{exitKey: Exit()}

	x.events = []xconn.Event{
		xconn.MapRequestEvent{Window: 100},
		xconn.KeyPressEvent{Key: exitKey},
	}

	m, err := New(x, testConfig(), keys, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Run(); err != nil {
		t.Fatalf("expected a clean exit, got %v", err)
	}
	if !m.state.StackSet.Contains(100) {
		t.Fatalf("expected the map request to be processed before exit")
	}

	joined := strings.Join(x.ops, "\n")
	if !strings.Contains(joined, "grab") || !strings.Contains(joined, "ungrab") {
		t.Fatalf("expected grabs to be taken and released:\n%s", joined)
	}
}
