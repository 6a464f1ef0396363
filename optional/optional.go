// Package optional implements a value which may or may not be set.
package optional

// Optional holds a value of type T together with whether it was ever set. The
// zero value is an empty Optional.
type Optional[T any] struct {
	value T
	set   bool
}

// Set stores val.
func (o *Optional[T]) Set(val T) {
	o.value = val
	o.set = true
}

// HasValue returns true if a value has been set.
func (o Optional[T]) HasValue() bool {
	return o.set
}

// Get returns the stored value. It panics when called on an empty Optional,
// check with HasValue first.
func (o Optional[T]) Get() T {
	if !o.set {
		panic("optional: Get called on an empty value")
	}
	return o.value
}
