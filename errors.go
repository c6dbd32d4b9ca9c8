package mapcache

import (
	"errors"
	"fmt"
)

var (
	// ErrNullValue is matched by *ConfigError via errors.Is.
	ErrNullValue = errors.New("mapcache: null values are not allowed")
	// ErrNilLoader is the cause of the RetrievalError returned when Get misses with a nil loader.
	ErrNilLoader = errors.New("mapcache: nil loader")
	// ErrRecursiveLoad is the cause of the RetrievalError returned when a loader
	// calls Get, with the context it was given, for the key it is loading.
	ErrRecursiveLoad = errors.New("mapcache: recursive load")
)

// ConfigError reports a null value written to a cache that disallows nulls.
type ConfigError struct {
	Cache string
	Key   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mapcache %q: null value for key %q but null values are disallowed", e.Cache, e.Key)
}

func (e *ConfigError) Unwrap() error { return ErrNullValue }

// SerializationError reports a value the codec could not encode. Nothing was stored.
type SerializationError struct {
	Key   string
	Value any
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("mapcache: serialize value for key %q (%T): %v", e.Key, e.Value, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// DeserializationError reports stored bytes that could not be decoded.
// The entry is left in the store untouched.
type DeserializationError struct {
	Key  string
	Data []byte
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("mapcache: deserialize entry %q (%d bytes): %v", e.Key, len(e.Data), e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// RetrievalError reports a loader that failed (returned an error or panicked)
// during Get. The key was left absent.
type RetrievalError struct {
	Key    string
	Loader any // the Loader[V] passed to Get
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("mapcache: load %q: %v", e.Key, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
