package wm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the closed set of failures the core can produce.
type ErrorKind int

const (
	// Backend covers any failure of the X capability.
	Backend ErrorKind = iota
	// InvalidState covers pure operations that violated an invariant, such
	// as viewing an unknown tag.
	InvalidState
	// ExtensionMissing covers typed state lookups for an absent extension.
	ExtensionMissing
	// ParseBinding covers key strings that could not be resolved to a
	// keycode.
	ParseBinding
	// SpawnFailed covers subprocess launch failures from user actions.
	SpawnFailed
	// UserHook wraps errors bubbled out of user hooks.
	UserHook
)

func (k ErrorKind) String() string {
	switch k {
	case Backend:
		return "backend"
	case InvalidState:
		return "invalid state"
	case ExtensionMissing:
		return "extension missing"
	case ParseBinding:
		return "parse binding"
	case SpawnFailed:
		return "spawn failed"
	case UserHook:
		return "user hook"
	default:
		return "unknown"
	}
}

// Error carries an ErrorKind alongside the underlying cause. It supports
// errors.Is / errors.As through Unwrap.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with the given kind. Already-classified errors are
// returned unchanged.
func NewError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	return &Error{Kind: kind, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// ErrDuplicateBinding is returned at bootstrap when two bindings collapse
// to the same chord.
var ErrDuplicateBinding = errors.New("duplicate binding")
