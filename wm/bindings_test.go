package wm

import (
	"errors"
	"testing"

	"github.com/spindlewm/spindle/xconn"
)

func nopKeyHandler(*State, xconn.Conn) error { return nil }

func TestValidateBindingsRejectsDuplicates(t *testing.T) {
	// Identical once NumLock is stripped.
	keys := KeyBindings{
		{Mask: xconn.ModSuper, Code: 36}:                    nopKeyHandler,
		{Mask: xconn.ModSuper | xconn.ModNumLock, Code: 36}: nopKeyHandler,
	}

	_, _, err := validateBindings(keys, nil)
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
	if !IsKind(err, ParseBinding) {
		t.Fatalf("expected a ParseBinding error, got %v", err)
	}
}

func TestValidateBindingsNormalizes(t *testing.T) {
	keys := KeyBindings{
		{Mask: xconn.ModSuper | xconn.ModNumLock, Code: 36}: nopKeyHandler,
	}

	norm, _, err := validateBindings(keys, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A press reported with CapsLock and NumLock still matches.
	pressed := xconn.KeyCode{
		Mask: xconn.ModSuper | xconn.ModNumLock | modCapsLock,
		Code: 36,
	}
	if _, ok := norm.handlerFor(pressed); !ok {
		t.Fatalf("expected the locked press to match the binding")
	}
}

func TestGrabVariantsSynthesisesFourPerBinding(t *testing.T) {
	keys := KeyBindings{
		{Mask: xconn.ModSuper, Code: 36}: nopKeyHandler,
	}
	mouse := MouseBindings{
		{Mask: xconn.ModSuper, Button: xconn.ButtonLeft, Kind: xconn.MousePress}: func(*xconn.MouseEvent, *State, xconn.Conn) error { return nil },
	}

	grabKeys, grabMouse := grabVariants(keys, mouse)
	if len(grabKeys) != 4 {
		t.Fatalf("expected 4 key grab variants, got %d", len(grabKeys))
	}
	if len(grabMouse) != 4 {
		t.Fatalf("expected 4 mouse grab variants, got %d", len(grabMouse))
	}

	seen := map[xconn.ModMask]bool{}
	for _, k := range grabKeys {
		seen[k.Mask] = true
	}
	for _, mask := range []xconn.ModMask{
		xconn.ModSuper,
		xconn.ModSuper | xconn.ModNumLock,
		xconn.ModSuper | modCapsLock,
		xconn.ModSuper | xconn.ModNumLock | modCapsLock,
	} {
		if !seen[mask] {
			t.Fatalf("missing grab variant %#x", mask)
		}
	}
}

func TestMotionBindingsMatchAnyHeldButton(t *testing.T) {
	called := false
	mouse := MouseBindings{
		{Mask: xconn.ModSuper, Button: 0, Kind: xconn.MouseMotion}: func(*xconn.MouseEvent, *State, xconn.Conn) error {
			called = true
			return nil
		},
	}

	_, norm, err := validateBindings(nil, mouse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, ok := norm.handlerFor(xconn.MouseState{
		Mask:   xconn.ModSuper,
		Button: xconn.ButtonLeft,
		Kind:   xconn.MouseMotion,
	})
	if !ok {
		t.Fatalf("expected the motion binding to match with a held button")
	}
	_ = h(nil, nil, nil)
	if !called {
		t.Fatalf("expected the bound handler to be invoked")
	}
}

func TestUnboundChordIsIgnored(t *testing.T) {
	m, x := testManager(t)
	mapWindow(t, m, x, 100)

	err := m.handleEvent(xconn.KeyPressEvent{Key: xconn.KeyCode{Mask: xconn.ModAlt, Code: 99}})
	if err != nil {
		t.Fatalf("expected unbound chords to be ignored, got %v", err)
	}
}
