// Package wm drives a window manager composed from a pure client
// universe, user supplied bindings and hooks, and an abstract X
// capability. The run loop is single threaded: every event is handled to
// completion before the next is read, and all side effects against the X
// server are produced by diffing pure state snapshots.
package wm

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/layout"
	"github.com/spindlewm/spindle/pure"
	"github.com/spindlewm/spindle/xconn"
)

// runState tracks the lifecycle of the run loop.
type runState int

const (
	starting runState = iota
	running
	handling
	shuttingDown
)

// WindowManager owns the state and the X capability and drives the event
// loop.
type WindowManager struct {
	x     xconn.Conn
	state *State
	keys  KeyBindings
	mouse MouseBindings
	phase runState
}

// New validates the config and bindings and assembles a manager. The
// initial screen layout is read from the capability.
func New(x xconn.Conn, cfg *Config, keys KeyBindings, mouse MouseBindings) (*WindowManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	normKeys, normMouse, err := validateBindings(keys, mouse)
	if err != nil {
		return nil, err
	}

	rects, err := x.ScreenDetails()
	if err != nil {
		return nil, NewError(Backend, err)
	}

	ss, err := pure.NewStackSet(cfg.DefaultLayouts, cfg.Tags, rects)
	if err != nil {
		return nil, NewError(InvalidState, err)
	}

	return &WindowManager{
		x:     x,
		state: newState(ss, cfg, x.Root()),
		keys:  normKeys,
		mouse: normMouse,
	}, nil
}

// State exposes the managed state, primarily so extensions can be
// registered before Run.
func (m *WindowManager) State() *State { return m.state }

// Run bootstraps against the X server and processes events until a quit
// action or a fatal error. Non-fatal handler errors are logged and the
// loop continues; a failure to read the next event is fatal.
func (m *WindowManager) Run() error {
	logger.Info("starting", "name", m.state.Config.Name)

	if err := m.bootstrap(); err != nil {
		return err
	}

	if err := m.x.Grab(grabVariants(m.keys, m.mouse)); err != nil {
		return NewError(Backend, err)
	}

	if hook := m.state.Config.StartupHook; hook != nil {
		if err := hook(m.state, m.x); err != nil {
			m.state.userHookError(NewError(UserHook, err))
		}
	}

	m.phase = running
	err := m.loop()
	m.teardown()

	return err
}

func (m *WindowManager) loop() error {
	for {
		if m.state.shuttingDown {
			m.phase = shuttingDown
			return nil
		}

		ev, err := m.x.NextEvent()
		if err != nil {
			// Losing the event stream means losing the server.
			return NewError(Backend, fmt.Errorf("reading next event: %w", err))
		}

		m.phase = handling
		m.state.currentEvent = ev
		m.dispatch(ev)
		m.state.currentEvent = nil
		m.phase = running
	}
}

func (m *WindowManager) dispatch(ev xconn.Event) {
	if hook := m.state.Config.EventHook; hook != nil {
		cont, err := hook(ev, m.state, m.x)
		if err != nil {
			m.state.userHookError(NewError(UserHook, err))
		}
		if !cont {
			return
		}
	}

	if err := m.handleEvent(ev); err != nil {
		m.logHandlerError(ev, err)
	}
}

func (m *WindowManager) logHandlerError(ev xconn.Event, err error) {
	var classified *Error
	if errors.As(err, &classified) && classified.Kind == Backend {
		logger.Error("backend error while handling event", "event", fmt.Sprintf("%T", ev), "err", err)
		return
	}
	logger.Warn("error while handling event", "event", fmt.Sprintf("%T", ev), "err", err)
}

// bootstrap interns the supported atoms, announces the manager on the root
// window, registers for substructure redirection and adopts any clients
// that existed before we started.
func (m *WindowManager) bootstrap() error {
	m.phase = starting
	x, s := m.x, m.state

	if err := x.SetClientAttributes(s.root, []xconn.ClientAttr{{Kind: xconn.AttrRootEventMask}}); err != nil {
		return NewError(Backend, fmt.Errorf("registering on root window: %w", err))
	}
	if err := x.SetProp(s.root, xconn.AtomNetWMName, xconn.StringProp(s.Config.Name)); err != nil {
		return NewError(Backend, err)
	}
	if err := x.SetProp(s.root, xconn.AtomNetSupportingWMCheck, xconn.WindowProp(s.root)); err != nil {
		return NewError(Backend, err)
	}

	supported := make([]xproto.Atom, 0, len(xconn.SupportedProperties))
	for _, name := range xconn.SupportedProperties {
		a, err := x.InternAtom(name)
		if err != nil {
			return NewError(Backend, fmt.Errorf("interning %s: %w", name, err))
		}
		supported = append(supported, a)
	}
	if err := x.SetProp(s.root, xconn.AtomNetSupported, xconn.AtomsProp(supported...)); err != nil {
		return NewError(Backend, err)
	}

	if err := m.adoptExisting(); err != nil {
		return err
	}

	// First refresh publishes desktop properties and positions anything
	// adopted above.
	if err := Refresh(x, s); err != nil {
		logger.Error("initial refresh failed", "err", err)
	}

	return nil
}

// adoptExisting takes over windows mapped before the manager started, each
// through the normal manage path.
func (m *WindowManager) adoptExisting() error {
	x, s := m.x, m.state

	existing, err := x.ExistingClients()
	if err != nil {
		return NewError(Backend, fmt.Errorf("querying existing clients: %w", err))
	}

	for _, id := range existing {
		attrs, err := x.GetWindowAttributes(id)
		if err != nil || attrs.OverrideRedirect || attrs.InputOnly || !attrs.Mapped {
			continue
		}
		if err := manage(x, s, id); err != nil {
			logger.Warn("unable to adopt existing client", "window", id, "err", err)
		}
	}

	return nil
}

func (m *WindowManager) regrab() error {
	if err := m.x.Ungrab(); err != nil {
		return NewError(Backend, err)
	}

	return NewError(Backend, m.x.Grab(grabVariants(m.keys, m.mouse)))
}

// teardown releases grabs and tells every layout the manager is going
// away.
func (m *WindowManager) teardown() {
	logger.Info("shutting down")

	m.state.StackSet.BroadcastToAllWorkspaces(layout.ShutDown{})

	if err := m.x.Ungrab(); err != nil {
		logger.Warn("unable to release grabs", "err", err)
	}
	m.x.Flush()
}

// ModifyAndRefresh applies f to the pure state and reconciles the display,
// exactly as hooks do through the package level function.
func (m *WindowManager) ModifyAndRefresh(f func(*pure.StackSet)) error {
	return ModifyAndRefresh(m.x, m.state, f)
}
