package pure

import "github.com/BurntSushi/xgb/xproto"

// ScreenState captures what a single screen was showing at snapshot time.
type ScreenState struct {
	Screen  int
	Tag     string
	Clients []xproto.Window
}

// Snapshot is a point-in-time capture of everything a refresh needs to know
// about the pure state: which clients are where, which are visible, where
// they are positioned and who holds focus.
type Snapshot struct {
	FocusedClient xproto.Window
	HasFocus      bool
	Focused       ScreenState
	Visible       []ScreenState
	Positions     []Placement
	HiddenClients []xproto.Window
}

// Snapshot captures the current state together with the resolved window
// positions for all visible workspaces.
func (ss *StackSet) Snapshot(positions []Placement) Snapshot {
	focused, hasFocus := ss.CurrentClient()

	visible := make([]ScreenState, 0, len(ss.screens.up)+len(ss.screens.down))
	for i := range ss.screens.up {
		visible = append(visible, screenState(&ss.screens.up[i]))
	}
	for i := range ss.screens.down {
		visible = append(visible, screenState(&ss.screens.down[i]))
	}

	return Snapshot{
		FocusedClient: focused,
		HasFocus:      hasFocus,
		Focused:       screenState(&ss.screens.focus),
		Visible:       visible,
		Positions:     positions,
		HiddenClients: ss.HiddenClients(),
	}
}

func screenState(s *Screen) ScreenState {
	return ScreenState{
		Screen:  s.Index,
		Tag:     s.Workspace.Tag,
		Clients: s.Workspace.ClientList(),
	}
}

// VisibleClients returns the clients that have a position in this snapshot.
func (s Snapshot) VisibleClients() []xproto.Window {
	clients := make([]xproto.Window, len(s.Positions))
	for i, p := range s.Positions {
		clients[i] = p.Win
	}

	return clients
}

// AllClients returns every managed client at snapshot time.
func (s Snapshot) AllClients() []xproto.Window {
	var clients []xproto.Window
	clients = append(clients, s.Focused.Clients...)
	for _, v := range s.Visible {
		clients = append(clients, v.Clients...)
	}

	return append(clients, s.HiddenClients...)
}

// VisibleTags returns the set of tags shown on any screen at snapshot time.
func (s Snapshot) VisibleTags() map[string]bool {
	tags := map[string]bool{s.Focused.Tag: true}
	for _, v := range s.Visible {
		tags[v.Tag] = true
	}

	return tags
}

// Diff is a rolling pair of snapshots bracketing one refresh.
type Diff struct {
	Before Snapshot
	After  Snapshot
}

// NewDiff brackets a single state change.
func NewDiff(before, after Snapshot) Diff {
	return Diff{Before: before, After: after}
}

// Update rolls the diff forward: the previous After becomes Before.
func (d *Diff) Update(after Snapshot) {
	d.Before = d.After
	d.After = after
}

// FocusedClientChanged reports whether the focused client differs across
// the diff.
func (d *Diff) FocusedClientChanged() bool {
	return d.Before.HasFocus != d.After.HasFocus ||
		d.Before.FocusedClient != d.After.FocusedClient
}

// NewlyFocusedScreen returns the focused screen index if screen focus
// moved.
func (d *Diff) NewlyFocusedScreen() (int, bool) {
	if d.Before.Focused.Screen != d.After.Focused.Screen {
		return d.After.Focused.Screen, true
	}

	return 0, false
}

// NewClients returns clients managed after but not before.
func (d *Diff) NewClients() []xproto.Window {
	return missingFrom(d.After.AllClients(), d.Before.AllClients())
}

// WithdrawnClients returns clients managed before but not after.
func (d *Diff) WithdrawnClients() []xproto.Window {
	return missingFrom(d.Before.AllClients(), d.After.AllClients())
}

// HiddenClients returns clients that were visible before but have no
// position after.
func (d *Diff) HiddenClients() []xproto.Window {
	return missingFrom(d.Before.VisibleClients(), d.After.VisibleClients())
}

// PreviousVisibleTags returns the tags that were on a screen before the
// change.
func (d *Diff) PreviousVisibleTags() map[string]bool {
	return d.Before.VisibleTags()
}

// HiddenTags returns tags that were visible before but not after. The
// workspaces carrying them should receive a Hide message.
func (d *Diff) HiddenTags() []string {
	after := d.After.VisibleTags()

	var tags []string
	for tag := range d.Before.VisibleTags() {
		if !after[tag] {
			tags = append(tags, tag)
		}
	}

	return tags
}

// ShownTags returns tags newly visible on a screen.
func (d *Diff) ShownTags() []string {
	before := d.Before.VisibleTags()

	var tags []string
	for tag := range d.After.VisibleTags() {
		if !before[tag] {
			tags = append(tags, tag)
		}
	}

	return tags
}

// ClientChangedPosition reports whether the client's assigned rectangle
// differs across the diff.
func (d *Diff) ClientChangedPosition(id xproto.Window) bool {
	return positionFor(d.Before.Positions, id) != positionFor(d.After.Positions, id)
}

// Empty reports whether the diff requires no reconciliation beyond
// property upkeep.
func (d *Diff) Empty() bool {
	_, screenChanged := d.NewlyFocusedScreen()

	return !d.FocusedClientChanged() &&
		!screenChanged &&
		len(d.NewClients()) == 0 &&
		len(d.WithdrawnClients()) == 0 &&
		len(d.HiddenTags()) == 0 &&
		len(d.ShownTags()) == 0 &&
		!positionsDiffer(d.Before.Positions, d.After.Positions)
}

func positionsDiffer(a, b []Placement) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}

	return false
}

func positionFor(positions []Placement, id xproto.Window) (r Rect) {
	for _, p := range positions {
		if p.Win == id {
			return p.Frame
		}
	}

	return r
}

func missingFrom(candidates, pool []xproto.Window) []xproto.Window {
	set := make(map[xproto.Window]bool, len(pool))
	for _, id := range pool {
		set[id] = true
	}

	var missing []xproto.Window
	for _, id := range candidates {
		if !set[id] {
			missing = append(missing, id)
		}
	}

	return missing
}
