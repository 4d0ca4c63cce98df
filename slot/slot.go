// Package slot is the runtime support imported by code that buildergen
// generates. A Slot holds at most one value and remembers whether it was set,
// so a builder can tell an unset field apart from one set to its zero value.
package slot

// Slot is an optional value. The zero Slot is empty.
//
// A Slot is owned by a single builder and is not safe for concurrent use.
type Slot[T any] struct {
	value T
	set   bool
}

// Set stores v, replacing any previous value.
func (s *Slot[T]) Set(v T) {
	s.value = v
	s.set = true
}

// IsSet reports whether the slot holds a value.
func (s *Slot[T]) IsSet() bool {
	return s.set
}

// Get returns the stored value without emptying the slot.
func (s *Slot[T]) Get() (T, bool) {
	return s.value, s.set
}

// Take returns the stored value and leaves the slot empty.
func (s *Slot[T]) Take() (T, bool) {
	v, ok := s.value, s.set
	var zero T
	s.value = zero
	s.set = false
	return v, ok
}

// TakeTo moves the stored value into dst and reports whether there was one.
// dst is left untouched when the slot is empty.
func (s *Slot[T]) TakeTo(dst *T) bool {
	v, ok := s.Take()
	if ok {
		*dst = v
	}
	return ok
}
