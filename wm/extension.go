package wm

import "reflect"

// The extension bag associates at most one value per static type with the
// State. Access is by type identity; the run loop is single threaded so no
// locking is required.

// AddExtension stores v in the state's extension bag, replacing any
// existing value of the same type.
func AddExtension[E any](s *State, v E) {
	if s.extensions == nil {
		s.extensions = make(map[reflect.Type]any)
	}
	s.extensions[reflect.TypeOf((*E)(nil)).Elem()] = &v
}

// Extension returns a pointer to the stored value of type E, through which
// the extension can also be mutated in place.
func Extension[E any](s *State) (*E, error) {
	v, ok := s.extensions[reflect.TypeOf((*E)(nil)).Elem()]
	if !ok {
		return nil, Errorf(ExtensionMissing, "no state extension of type %s", reflect.TypeOf((*E)(nil)).Elem())
	}

	return v.(*E), nil
}

// RemoveExtension removes and returns the stored value of type E.
func RemoveExtension[E any](s *State) (E, bool) {
	v, ok := s.extensions[reflect.TypeOf((*E)(nil)).Elem()]
	if !ok {
		var zero E
		return zero, false
	}
	delete(s.extensions, reflect.TypeOf((*E)(nil)).Elem())

	return *v.(*E), true
}
