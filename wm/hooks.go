package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/spindlewm/spindle/xconn"
)

// StartupHook runs once after bindings are grabbed and before the first
// event is processed.
type StartupHook func(s *State, x xconn.Conn) error

// EventHook runs before the built-in handler for each event. Returning
// false short-circuits the rest of the hook chain and the built-in
// handler.
type EventHook func(ev xconn.Event, s *State, x xconn.Conn) (bool, error)

// ManageHook runs when a new client has been inserted into the state and
// before the resulting refresh. It may reposition the client, move it to
// another tag, mark it floating and so on.
type ManageHook func(id xproto.Window, s *State, x xconn.Conn) error

// RefreshHook runs at the end of every refresh against the post-refresh
// state.
type RefreshHook func(s *State, x xconn.Conn) error

// ComposeOrSetStartupHook installs hook, chaining it after any hook
// already present. Hooks run in installation order.
func (c *Config) ComposeOrSetStartupHook(hook StartupHook) {
	existing := c.StartupHook
	if existing == nil {
		c.StartupHook = hook
		return
	}

	c.StartupHook = func(s *State, x xconn.Conn) error {
		if err := existing(s, x); err != nil {
			return err
		}
		return hook(s, x)
	}
}

// ComposeOrSetEventHook installs hook, chaining it after any hook already
// present. The first hook to return false stops the chain.
func (c *Config) ComposeOrSetEventHook(hook EventHook) {
	existing := c.EventHook
	if existing == nil {
		c.EventHook = hook
		return
	}

	c.EventHook = func(ev xconn.Event, s *State, x xconn.Conn) (bool, error) {
		cont, err := existing(ev, s, x)
		if err != nil || !cont {
			return cont, err
		}
		return hook(ev, s, x)
	}
}

// ComposeOrSetManageHook installs hook, chaining it after any hook already
// present.
func (c *Config) ComposeOrSetManageHook(hook ManageHook) {
	existing := c.ManageHook
	if existing == nil {
		c.ManageHook = hook
		return
	}

	c.ManageHook = func(id xproto.Window, s *State, x xconn.Conn) error {
		if err := existing(id, s, x); err != nil {
			return err
		}
		return hook(id, s, x)
	}
}

// ComposeOrSetRefreshHook installs hook, chaining it after any hook
// already present.
func (c *Config) ComposeOrSetRefreshHook(hook RefreshHook) {
	existing := c.RefreshHook
	if existing == nil {
		c.RefreshHook = hook
		return
	}

	c.RefreshHook = func(s *State, x xconn.Conn) error {
		if err := existing(s, x); err != nil {
			return err
		}
		return hook(s, x)
	}
}
