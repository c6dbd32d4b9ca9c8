package store

import (
	"golang.org/x/sync/singleflight"
)

// Flight coalesces concurrent get-or-compute calls per key.
// The zero value is ready to use. Store implementations embed one and supply
// their own lookup and commit steps.
type Flight[T any] struct {
	g singleflight.Group
}

// Do returns lookup(key) on hit. On miss, exactly one caller among those racing on
// key runs produce and commit; the others wait and share the outcome.
//
// commit receives the produced value and must write it only if key is still absent.
// If key became present while produce ran, that value is kept.
func (f *Flight[T]) Do(
	key string,
	lookup func(string) (T, bool),
	commit func(string, T),
	produce func() (T, error),
) (T, error) {
	if v, ok := lookup(key); ok {
		return v, nil
	}

	res, err, _ := f.g.Do(key, func() (any, error) {
		// a previous flight may have committed between our miss and joining this one
		if v, ok := lookup(key); ok {
			return v, nil
		}
		v, err := produce()
		if err != nil {
			return nil, err
		}
		commit(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	// a nil interface T comes back from singleflight as a nil any
	v, _ := res.(T)
	return v, nil
}
