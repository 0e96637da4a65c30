// Package normalize coerces raw cell text into typed, optional values.
// A cell that is empty or fails to parse becomes an absent value; it is
// never an error.
package normalize

// Optional holds a value that may be absent. The zero Optional is absent,
// and a present zero (for example 0.0) is a real value.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Present: true} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Present }

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.Present {
		return nil
	}
	v := o.Value
	return &v
}
