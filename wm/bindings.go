package wm

import (
	"github.com/spindlewm/spindle/xconn"
)

// KeyHandler is user code invoked when a bound key chord is pressed.
type KeyHandler func(s *State, x xconn.Conn) error

// MouseHandler is user code invoked for a bound mouse chord.
type MouseHandler func(ev *xconn.MouseEvent, s *State, x xconn.Conn) error

// KeyBindings maps key chords to their handlers.
type KeyBindings map[xconn.KeyCode]KeyHandler

// MouseBindings maps mouse chords to their handlers.
type MouseBindings map[xconn.MouseState]MouseHandler

// CapsLock sits in the Lock bit, which like NumLock must not affect
// binding matches.
const modCapsLock xconn.ModMask = 1 << 1

const ignoredMods = xconn.ModNumLock | modCapsLock

func normalizeKey(k xconn.KeyCode) xconn.KeyCode {
	k.Mask &^= ignoredMods
	return k
}

func normalizeMouse(m xconn.MouseState) xconn.MouseState {
	m.Mask &^= ignoredMods
	return m
}

// validateBindings normalizes both maps, rejecting chords that collapse to
// the same binding once the ignored modifiers are stripped.
func validateBindings(keys KeyBindings, mouse MouseBindings) (KeyBindings, MouseBindings, error) {
	normKeys := make(KeyBindings, len(keys))
	for k, h := range keys {
		nk := normalizeKey(k)
		if _, exists := normKeys[nk]; exists {
			return nil, nil, Errorf(ParseBinding, "%w: key mask=%#x code=%d", ErrDuplicateBinding, nk.Mask, nk.Code)
		}
		normKeys[nk] = h
	}

	normMouse := make(MouseBindings, len(mouse))
	for m, h := range mouse {
		nm := normalizeMouse(m)
		if _, exists := normMouse[nm]; exists {
			return nil, nil, Errorf(ParseBinding, "%w: mouse mask=%#x button=%d", ErrDuplicateBinding, nm.Mask, nm.Button)
		}
		normMouse[nm] = h
	}

	return normKeys, normMouse, nil
}

// grabVariants synthesises the four grab variants of each chord so that
// NumLock and CapsLock state never masks a binding.
func grabVariants(keys KeyBindings, mouse MouseBindings) ([]xconn.KeyCode, []xconn.MouseState) {
	variants := []xconn.ModMask{0, xconn.ModNumLock, modCapsLock, xconn.ModNumLock | modCapsLock}

	grabKeys := make([]xconn.KeyCode, 0, len(keys)*len(variants))
	for k := range keys {
		for _, v := range variants {
			grabKeys = append(grabKeys, xconn.KeyCode{Mask: k.Mask | v, Code: k.Code})
		}
	}

	grabMouse := make([]xconn.MouseState, 0, len(mouse)*len(variants))
	for m := range mouse {
		for _, v := range variants {
			grabMouse = append(grabMouse, xconn.MouseState{Mask: m.Mask | v, Button: m.Button, Kind: m.Kind})
		}
	}

	return grabKeys, grabMouse
}

func (b KeyBindings) handlerFor(k xconn.KeyCode) (KeyHandler, bool) {
	h, ok := b[normalizeKey(k)]
	return h, ok
}

func (b MouseBindings) handlerFor(m xconn.MouseState) (MouseHandler, bool) {
	h, ok := b[normalizeMouse(m)]
	if ok {
		return h, true
	}

	// Motion bindings are matched regardless of the held button so a drag
	// keeps reporting while any grabbed button is down.
	if m.Kind == xconn.MouseMotion {
		for state, handler := range b {
			if state.Kind == xconn.MouseMotion && state.Mask == normalizeMouse(m).Mask {
				return handler, true
			}
		}
	}

	return nil, false
}
