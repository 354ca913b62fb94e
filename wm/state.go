package wm

import (
	"reflect"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// State is the complete mutable state of a running window manager: the
// pure StackSet universe plus the impure bookkeeping needed to reconcile
// it against the X server. It is owned by the run loop and handed to hooks
// and binding handlers by pointer.
type State struct {
	// StackSet is the pure client universe. Mutations made outside of
	// ModifyAndRefresh take effect at the next refresh.
	StackSet *pure.StackSet
	// Config is the user configuration the manager was built with.
	Config *Config

	root         xproto.Window
	mapped       map[xproto.Window]bool
	pendingUnmap map[xproto.Window]int
	currentEvent xconn.Event
	diff         pure.Diff
	extensions   map[reflect.Type]any
	drag         *dragState
	shuttingDown bool
}

// dragState tracks an in-flight pointer drag updating a floating client.
type dragState struct {
	win       xproto.Window
	resize    bool
	startPos  pure.Point
	startRect pure.Rect
}

func newState(ss *pure.StackSet, cfg *Config, root xproto.Window) *State {
	return &State{
		StackSet:     ss,
		Config:       cfg,
		root:         root,
		mapped:       make(map[xproto.Window]bool),
		pendingUnmap: make(map[xproto.Window]int),
		extensions:   make(map[reflect.Type]any),
	}
}

// Root returns the id of the root window being managed.
func (s *State) Root() xproto.Window { return s.root }

// CurrentEvent returns the event being handled, if any.
func (s *State) CurrentEvent() xconn.Event { return s.currentEvent }

// Mapped reports whether the client is currently mapped on screen.
func (s *State) Mapped(id xproto.Window) bool { return s.mapped[id] }

// Diff returns the snapshots bracketing the most recent refresh.
func (s *State) Diff() *pure.Diff { return &s.diff }

// Exit asks the run loop to shut down once the current event completes.
// This is the only clean termination path.
func (s *State) Exit() { s.shuttingDown = true }
