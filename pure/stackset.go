package pure

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	// ErrNoScreens is returned when an operation would leave the StackSet
	// without any screens.
	ErrNoScreens = errors.New("there must be at least one screen")
	// ErrNoTags is returned when constructing a StackSet without workspace
	// tags.
	ErrNoTags = errors.New("at least one workspace tag is required")
	// ErrDuplicateTag is returned when a tag is already in use.
	ErrDuplicateTag = errors.New("workspace tag is already in use")
	// ErrUnknownTag is returned for operations referencing a tag that no
	// workspace carries.
	ErrUnknownTag = errors.New("unknown workspace tag")
	// ErrUnknownClient is returned for operations referencing an unmanaged
	// client window.
	ErrUnknownClient = errors.New("unknown client")
	// ErrClientIsNotVisible is returned when a client must be on screen for
	// the operation to make sense.
	ErrClientIsNotVisible = errors.New("client is not visible on any screen")
	// ErrInsufficientTags is returned when there are fewer workspace tags
	// than connected screens.
	ErrInsufficientTags = errors.New("fewer workspace tags than screens")
	// ErrUnknownScreen is returned for operations referencing a screen
	// index that is not connected.
	ErrUnknownScreen = errors.New("unknown screen index")
)

// StackSet is the pure universe of the window manager: a zipper of screens
// (the focus is the active screen), the workspaces not currently shown on
// any screen, and per-window floating overrides. All operations are
// in-memory only; side effects against the X server are driven by diffing
// snapshots of this structure.
type StackSet struct {
	screens     *Stack[Screen]
	hidden      []Workspace
	floating    map[xproto.Window]RelativeRect
	invisible   map[xproto.Window]bool
	previousTag string
	nextWsID    int
}

// NewStackSet builds the initial universe: one workspace per tag, the first
// len(screenRects) of them mapped to screens in order, the rest hidden.
// The layout stack is used as a template and cloned for each workspace.
func NewStackSet(layouts *Stack[Layout], tags []string, screenRects []Rect) (*StackSet, error) {
	if len(tags) == 0 {
		return nil, ErrNoTags
	}
	if len(screenRects) == 0 {
		return nil, ErrNoScreens
	}
	if len(tags) < len(screenRects) {
		return nil, fmt.Errorf("%w: %d tags for %d screens", ErrInsufficientTags, len(tags), len(screenRects))
	}

	seen := make(map[string]bool, len(tags))
	workspaces := make([]Workspace, 0, len(tags))
	for id, tag := range tags {
		if tag == "" {
			return nil, fmt.Errorf("%w: workspace %d has an empty tag", ErrUnknownTag, id)
		}
		if seen[tag] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
		}
		seen[tag] = true
		workspaces = append(workspaces, NewWorkspace(id, tag, cloneLayouts(layouts)))
	}

	screens := make([]Screen, len(screenRects))
	for i, r := range screenRects {
		screens[i] = Screen{Index: i, Geom: r, Workspace: workspaces[i]}
	}

	return &StackSet{
		screens:   StackFromSlice(screens),
		hidden:    workspaces[len(screenRects):],
		floating:  make(map[xproto.Window]RelativeRect),
		invisible: make(map[xproto.Window]bool),
		nextWsID:  len(tags),
	}, nil
}

func cloneLayouts(layouts *Stack[Layout]) *Stack[Layout] {
	return MapStack(layouts, func(l Layout) Layout { return l.Clone() })
}

// Clone deep-copies the entire universe, including per-workspace layout
// state.
func (ss *StackSet) Clone() *StackSet {
	screens := MapStack(ss.screens, func(s Screen) Screen { return s.Clone() })

	hidden := make([]Workspace, len(ss.hidden))
	for i, w := range ss.hidden {
		hidden[i] = w.Clone()
	}

	floating := make(map[xproto.Window]RelativeRect, len(ss.floating))
	for id, r := range ss.floating {
		floating[id] = r
	}
	invisible := make(map[xproto.Window]bool, len(ss.invisible))
	for id := range ss.invisible {
		invisible[id] = true
	}

	return &StackSet{
		screens:     screens,
		hidden:      hidden,
		floating:    floating,
		invisible:   invisible,
		previousTag: ss.previousTag,
		nextWsID:    ss.nextWsID,
	}
}

// CurrentScreen returns the focused screen.
func (ss *StackSet) CurrentScreen() *Screen {
	return &ss.screens.focus
}

// CurrentWorkspace returns the workspace on the focused screen.
func (ss *StackSet) CurrentWorkspace() *Workspace {
	return &ss.screens.focus.Workspace
}

// CurrentTag returns the tag of the focused workspace.
func (ss *StackSet) CurrentTag() string {
	return ss.screens.focus.Workspace.Tag
}

// CurrentStack returns the client stack of the focused workspace, which is
// nil when the workspace is empty.
func (ss *StackSet) CurrentStack() *Stack[xproto.Window] {
	return ss.screens.focus.Workspace.Clients
}

// CurrentClient returns the focused client, or false when the focused
// workspace is empty.
func (ss *StackSet) CurrentClient() (xproto.Window, bool) {
	return ss.screens.focus.Workspace.FocusedClient()
}

// Screens returns the screens ordered by index.
func (ss *StackSet) Screens() []Screen {
	ordered := ss.screens.Slice()
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j-1].Index > ordered[j].Index; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}

	return ordered
}

// Workspaces visits every workspace: on-screen ones first (in zipper
// order), then hidden ones.
func (ss *StackSet) Workspaces(visit func(w *Workspace) bool) {
	if !visitScreens(ss.screens, visit) {
		return
	}
	for i := range ss.hidden {
		if !visit(&ss.hidden[i]) {
			return
		}
	}
}

func visitScreens(screens *Stack[Screen], visit func(w *Workspace) bool) bool {
	if !visit(&screens.focus.Workspace) {
		return false
	}
	for i := range screens.up {
		if !visit(&screens.up[i].Workspace) {
			return false
		}
	}
	for i := range screens.down {
		if !visit(&screens.down[i].Workspace) {
			return false
		}
	}

	return true
}

// Workspace returns the workspace carrying the given tag, or nil.
func (ss *StackSet) Workspace(tag string) *Workspace {
	var found *Workspace
	ss.Workspaces(func(w *Workspace) bool {
		if w.Tag == tag {
			found = w
			return false
		}
		return true
	})

	return found
}

// OrderedTags returns every tag in workspace creation order. The order is
// stable across view and screen changes, which keeps desktop indices
// exposed to the X server meaningful.
func (ss *StackSet) OrderedTags() []string {
	var all []Workspace
	ss.Workspaces(func(w *Workspace) bool {
		all = append(all, *w)
		return true
	})
	sortWorkspacesByID(all)

	tags := make([]string, len(all))
	for i, w := range all {
		tags[i] = w.Tag
	}

	return tags
}

func sortWorkspacesByID(ws []Workspace) {
	for i := 1; i < len(ws); i++ {
		for j := i; j > 0 && ws[j-1].ID > ws[j].ID; j-- {
			ws[j-1], ws[j] = ws[j], ws[j-1]
		}
	}
}

// Contains reports whether the client is managed anywhere in the universe.
func (ss *StackSet) Contains(id xproto.Window) bool {
	return ss.TagForClient(id) != ""
}

// TagForClient returns the tag of the workspace holding the client, or the
// empty string for an unmanaged client.
func (ss *StackSet) TagForClient(id xproto.Window) string {
	tag := ""
	ss.Workspaces(func(w *Workspace) bool {
		if w.Contains(id) {
			tag = w.Tag
			return false
		}
		return true
	})

	return tag
}

// ScreenForClient returns the screen whose workspace holds the client, or
// nil when the client is hidden or unmanaged.
func (ss *StackSet) ScreenForClient(id xproto.Window) *Screen {
	if ss.screens.focus.Workspace.Contains(id) {
		return &ss.screens.focus
	}
	for i := range ss.screens.up {
		if ss.screens.up[i].Workspace.Contains(id) {
			return &ss.screens.up[i]
		}
	}
	for i := range ss.screens.down {
		if ss.screens.down[i].Workspace.Contains(id) {
			return &ss.screens.down[i]
		}
	}

	return nil
}

// AllClients returns every managed client, visible workspaces first.
func (ss *StackSet) AllClients() []xproto.Window {
	var clients []xproto.Window
	ss.Workspaces(func(w *Workspace) bool {
		clients = append(clients, w.ClientList()...)
		return true
	})

	return clients
}

// HiddenClients returns the clients on workspaces not mapped to any screen.
func (ss *StackSet) HiddenClients() []xproto.Window {
	var clients []xproto.Window
	for _, w := range ss.hidden {
		clients = append(clients, w.ClientList()...)
	}

	return clients
}

// FocusScreen moves screen focus to the screen with the given index.
func (ss *StackSet) FocusScreen(index int) {
	for i := 0; i < ss.screens.Len(); i++ {
		if ss.screens.focus.Index == index {
			return
		}
		ss.screens.FocusDown()
	}
}

// NextScreen moves screen focus to the next screen by index, wrapping.
func (ss *StackSet) NextScreen() {
	ss.FocusScreen(nextIndex(ss.screens.focus.Index, ss.screens.Len(), 1))
}

// PreviousScreen moves screen focus to the previous screen by index,
// wrapping.
func (ss *StackSet) PreviousScreen() {
	ss.FocusScreen(nextIndex(ss.screens.focus.Index, ss.screens.Len(), -1))
}

func nextIndex(current, n, delta int) int {
	return ((current+delta)%n + n) % n
}

// View makes tag the focused workspace. A tag already shown on another
// screen has screen focus moved to it; a hidden tag is swapped onto the
// focused screen, displacing the workspace shown there into hidden.
// Viewing the current tag is a no-op.
func (ss *StackSet) View(tag string) error {
	if tag == ss.CurrentTag() {
		return nil
	}

	previous := ss.CurrentTag()

	// Tag on another screen: follow it.
	for i := 0; i < ss.screens.Len(); i++ {
		if ss.screens.focus.Workspace.Tag == tag {
			ss.previousTag = previous
			return nil
		}
		ss.screens.FocusDown()
	}

	for i := range ss.hidden {
		if ss.hidden[i].Tag == tag {
			ss.hidden[i], ss.screens.focus.Workspace = ss.screens.focus.Workspace, ss.hidden[i]
			ss.previousTag = previous
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
}

// GreedyView is like View but a tag visible on another screen is pulled to
// the focused screen, swapping the two screens' workspaces. Screen focus is
// preserved.
func (ss *StackSet) GreedyView(tag string) error {
	if tag == ss.CurrentTag() {
		return nil
	}

	swap := func(other *Screen) {
		other.Workspace, ss.screens.focus.Workspace = ss.screens.focus.Workspace, other.Workspace
		ss.previousTag = other.Workspace.Tag
	}

	for i := range ss.screens.up {
		if ss.screens.up[i].Workspace.Tag == tag {
			swap(&ss.screens.up[i])
			return nil
		}
	}
	for i := range ss.screens.down {
		if ss.screens.down[i].Workspace.Tag == tag {
			swap(&ss.screens.down[i])
			return nil
		}
	}

	return ss.View(tag)
}

// ToggleTag views the previously focused tag, if there is one.
func (ss *StackSet) ToggleTag() error {
	if ss.previousTag == "" {
		return nil
	}

	return ss.View(ss.previousTag)
}

// FocusClient brings the workspace holding the client forward and focuses
// the client within its stack.
func (ss *StackSet) FocusClient(id xproto.Window) error {
	tag := ss.TagForClient(id)
	if tag == "" {
		return fmt.Errorf("%w: %d", ErrUnknownClient, id)
	}

	if err := ss.View(tag); err != nil {
		return err
	}
	ss.CurrentWorkspace().Clients.FocusElement(id)

	return nil
}

// Insert adds an unmanaged client to the focused workspace, becoming the
// new focus. Already managed clients are left where they are.
func (ss *StackSet) Insert(id xproto.Window) {
	ss.InsertAt(InsertFocus, id)
}

// InsertAt adds an unmanaged client to the focused workspace at the given
// insert point.
func (ss *StackSet) InsertAt(at InsertPoint, id xproto.Window) {
	if ss.Contains(id) {
		return
	}

	w := ss.CurrentWorkspace()
	if w.Clients == nil {
		w.Clients = NewStack(id)
		return
	}
	w.Clients.Insert(at, id)
}

// Remove strips the client from every structure it appears in.
func (ss *StackSet) Remove(id xproto.Window) {
	ss.removeFromWorkspaces(id)
	delete(ss.floating, id)
	delete(ss.invisible, id)
}

// RemoveFocused removes the focused client, promoting focus to the next
// element below it (or above when it was the tail).
func (ss *StackSet) RemoveFocused() (xproto.Window, bool) {
	id, ok := ss.CurrentClient()
	if !ok {
		return 0, false
	}
	ss.Remove(id)

	return id, true
}

// MoveFocusedToTag moves the focused client to the workspace carrying the
// given tag, where it becomes the focus.
func (ss *StackSet) MoveFocusedToTag(tag string) error {
	id, ok := ss.CurrentClient()
	if !ok {
		return nil
	}

	return ss.MoveClientToTag(id, tag)
}

// MoveClientToTag moves the given client to the workspace carrying the
// given tag, where it becomes the focus.
func (ss *StackSet) MoveClientToTag(id xproto.Window, tag string) error {
	target := ss.Workspace(tag)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	if !ss.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownClient, id)
	}
	if target.Contains(id) {
		return nil
	}

	ss.removeFromWorkspaces(id)

	// The target pointer may have been invalidated by the removal above
	// (slices reallocate), so look it up again.
	target = ss.Workspace(tag)
	if target.Clients == nil {
		target.Clients = NewStack(id)
	} else {
		target.Clients.Insert(InsertFocus, id)
	}

	return nil
}

// MoveFocusedToScreen moves the focused client to the workspace shown on
// the screen with the given index.
func (ss *StackSet) MoveFocusedToScreen(index int) error {
	id, ok := ss.CurrentClient()
	if !ok {
		return nil
	}

	for _, s := range ss.Screens() {
		if s.Index == index {
			return ss.MoveClientToTag(id, s.Workspace.Tag)
		}
	}

	return fmt.Errorf("%w: %d", ErrUnknownScreen, index)
}

func (ss *StackSet) removeFromWorkspaces(id xproto.Window) {
	ss.Workspaces(func(w *Workspace) bool {
		if w.Clients != nil && w.Clients.Contains(id) {
			w.Clients = w.Clients.Remove(id)
			return false
		}
		return true
	})
}

// Float records the client as floating with the given preferred screen
// position, normalised against the geometry of the screen currently showing
// it.
func (ss *StackSet) Float(id xproto.Window, r Rect) error {
	if !ss.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownClient, id)
	}
	screen := ss.ScreenForClient(id)
	if screen == nil {
		return fmt.Errorf("%w: %d", ErrClientIsNotVisible, id)
	}

	ss.floating[id] = r.RelativeTo(screen.Geom)

	return nil
}

// Sink removes any floating override for the client, returning it to tiled
// positioning.
func (ss *StackSet) Sink(id xproto.Window) {
	delete(ss.floating, id)
}

// FloatingRect returns the fractional floating rect for the client, if any.
func (ss *StackSet) FloatingRect(id xproto.Window) (RelativeRect, bool) {
	r, ok := ss.floating[id]
	return r, ok
}

// IsFloating reports whether the client has a floating override.
func (ss *StackSet) IsFloating(id xproto.Window) bool {
	_, ok := ss.floating[id]
	return ok
}

// SetInvisible marks or unmarks a client as intentionally unmapped while
// still managed (scratchpad style). Invisible clients receive no position
// from layouts and are never mapped by a refresh.
func (ss *StackSet) SetInvisible(id xproto.Window, invisible bool) {
	if invisible {
		ss.invisible[id] = true
		return
	}
	delete(ss.invisible, id)
}

// IsInvisible reports whether the client is marked invisible.
func (ss *StackSet) IsInvisible(id xproto.Window) bool {
	return ss.invisible[id]
}

// ModifyOccupied applies f to the focused workspace's client stack when it
// has any clients; empty workspaces are left untouched.
func (ss *StackSet) ModifyOccupied(f func(*Stack[xproto.Window])) {
	if s := ss.CurrentStack(); s != nil {
		f(s)
	}
}

// PreviousTag returns the tag that was focused before the most recent View,
// or the empty string when no view change has happened yet.
func (ss *StackSet) PreviousTag() string {
	return ss.previousTag
}

// NextLayout rotates the focused workspace to its next layout.
func (ss *StackSet) NextLayout() {
	ss.CurrentWorkspace().NextLayout()
}

// PreviousLayout rotates the focused workspace to its previous layout.
func (ss *StackSet) PreviousLayout() {
	ss.CurrentWorkspace().PreviousLayout()
}

// HandleMessage delivers m to the active layout of the focused workspace.
func (ss *StackSet) HandleMessage(m Message) {
	ss.CurrentWorkspace().HandleMessage(m)
}

// BroadcastMessage delivers m to every layout of the focused workspace.
func (ss *StackSet) BroadcastMessage(m Message) {
	ss.CurrentWorkspace().BroadcastMessage(m)
}

// BroadcastToAllWorkspaces delivers m to every layout on every workspace.
func (ss *StackSet) BroadcastToAllWorkspaces(m Message) {
	ss.Workspaces(func(w *Workspace) bool {
		w.BroadcastMessage(m)
		return true
	})
}

// AddWorkspace appends a hidden workspace with the given tag.
func (ss *StackSet) AddWorkspace(tag string, layouts *Stack[Layout]) error {
	if tag == "" || ss.Workspace(tag) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}

	ss.hidden = append(ss.hidden, NewWorkspace(ss.nextWsID, tag, cloneLayouts(layouts)))
	ss.nextWsID++

	return nil
}

// UpdateScreens reconciles the screen list against a fresh set of output
// geometries. Workspace-to-screen mapping is preserved by index where
// possible: extra workspaces spill to hidden when outputs disappear, and new
// outputs are filled from hidden workspaces in ascending id order (padding
// with generated workspaces when hidden runs dry).
func (ss *StackSet) UpdateScreens(rects []Rect) error {
	if len(rects) == 0 {
		return ErrNoScreens
	}

	ordered := ss.Screens()
	focusedIndex := ss.screens.focus.Index

	switch {
	case len(rects) > len(ordered):
		padding := ss.takeFromHidden(len(rects) - len(ordered))
		for i, w := range padding {
			ordered = append(ordered, Screen{Index: len(ordered) + i, Workspace: w})
		}

	case len(rects) < len(ordered):
		for _, s := range ordered[len(rects):] {
			ss.hidden = append(ss.hidden, s.Workspace)
		}
		ordered = ordered[:len(rects)]
		if focusedIndex >= len(rects) {
			focusedIndex = 0
		}
	}

	for i := range ordered {
		ordered[i].Index = i
		ordered[i].Geom = rects[i]
	}

	ss.screens = StackFromSlice(ordered)
	ss.FocusScreen(focusedIndex)

	return nil
}

func (ss *StackSet) takeFromHidden(n int) []Workspace {
	sortWorkspacesByID(ss.hidden)

	var taken []Workspace
	if len(ss.hidden) >= n {
		taken = append(taken, ss.hidden[:n]...)
		ss.hidden = append([]Workspace(nil), ss.hidden[n:]...)
		return taken
	}

	taken = append(taken, ss.hidden...)
	ss.hidden = nil

	// Not enough hidden workspaces to cover the new outputs: generate
	// default ones using the focused workspace's layouts as the template.
	template := ss.CurrentWorkspace().Layouts
	for len(taken) < n {
		tag := fmt.Sprintf("ws-%d", ss.nextWsID)
		taken = append(taken, NewWorkspace(ss.nextWsID, tag, cloneLayouts(template)))
		ss.nextWsID++
	}

	return taken
}

// VisibleClientPositions computes the final window positions for every
// visible workspace: the active layout is run over the stack minus floating
// and invisible clients within the screen geometry, then floating rects are
// overlaid above the tiled windows with the focused client topmost. The
// returned list is in top-to-bottom stacking order.
func (ss *StackSet) VisibleClientPositions() []Placement {
	var positions []Placement
	for _, s := range ss.screensInFocusOrder() {
		positions = append(positions, ss.positionsForScreen(s)...)
	}

	return positions
}

func (ss *StackSet) screensInFocusOrder() []*Screen {
	screens := make([]*Screen, 0, ss.screens.Len())
	screens = append(screens, &ss.screens.focus)
	for i := range ss.screens.up {
		screens = append(screens, &ss.screens.up[i])
	}
	for i := range ss.screens.down {
		screens = append(screens, &ss.screens.down[i])
	}

	return screens
}

func (ss *StackSet) positionsForScreen(s *Screen) []Placement {
	w := &s.Workspace

	var floats []Placement
	tiling := w.Clients
	if tiling != nil {
		focused := tiling.Focus()
		for _, id := range tiling.Slice() {
			rel, ok := ss.floating[id]
			if !ok || ss.IsInvisible(id) {
				continue
			}
			p := Placement{Win: id, Frame: rel.ApplyTo(s.Geom)}
			if id == focused {
				floats = append([]Placement{p}, floats...)
			} else {
				floats = append(floats, p)
			}
		}

		tiling = tiling.Clone().Filter(func(id xproto.Window) bool {
			return !ss.IsFloating(id) && !ss.IsInvisible(id)
		})
	}

	layout, tiled := LayoutWorkspace(w.ActiveLayout(), tiling, s.Geom)
	if layout != nil {
		w.Layouts.focus = layout
	}

	return append(floats, tiled...)
}
