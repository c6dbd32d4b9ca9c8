// Package store defines the backing map abstraction used by mapcache.
//
// A Store holds whatever representation the cache hands it: wrapped values in
// store-by-reference mode, framed bytes in store-by-value mode. Stores never
// interpret values. Every implementation must be safe for concurrent use with
// atomicity scoped per key.
package store

// Store is a concurrent key -> T map.
type Store[T any] interface {
	// Lookup returns (v, true) on hit and (zero, false) on miss. No side effects.
	Lookup(key string) (T, bool)

	// Put stores v under key, overwriting any existing entry.
	Put(key string, v T)

	// PutIfAbsent stores v only if key is absent.
	// Returns (existing, true) without writing if key was present.
	PutIfAbsent(key string, v T) (T, bool)

	// Remove deletes key. Missing keys are a no-op.
	Remove(key string)

	// Clear removes every entry.
	Clear()

	// GetOrCompute returns the value under key, calling produce on a miss.
	// produce runs at most once per miss among concurrent callers of the same key;
	// callers waiting on that run observe its value or its error.
	// A failed produce leaves the key absent.
	GetOrCompute(key string, produce func() (T, error)) (T, error)

	// Len returns the number of entries.
	Len() int

	// Range calls fn for each entry until fn returns false.
	// No ordering is guaranteed; entries written during Range may or may not be seen.
	Range(fn func(key string, v T) bool)
}
