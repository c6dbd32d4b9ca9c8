package mapcache

import (
	"reflect"

	"github.com/unkn0wn-root/mapcache/codec"
	"github.com/unkn0wn-root/mapcache/internal/wire"
)

// Wrapper is a cached value that may be a cached null.
// A (Wrapper, true) result means the key is cached; IsNull tells whether it was
// cached as null. A (Wrapper, false) result means the key is not cached.
//
// In store-by-reference mode Wrapper is also the in-store representation.
type Wrapper[V any] struct {
	value V
	null  bool
}

// Value returns the cached value, or the zero V for a cached null.
func (w Wrapper[V]) Value() V { return w.value }

func (w Wrapper[V]) IsNull() bool { return w.null }

func valueOf[V any](v V) Wrapper[V] { return Wrapper[V]{value: v} }

func nullOf[V any]() Wrapper[V] { return Wrapper[V]{null: true} }

// isNil reports whether v is Go's null: a nil pointer, map, slice, chan or
// func, or a nil interface (an invalid reflect.Value). Other kinds are never null.
func isNil[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// adapter maps wrapped values to the store representation S and back.
type adapter[V, S any] interface {
	toStore(key string, w Wrapper[V]) (S, error)
	fromStore(key string, s S) (Wrapper[V], error)
}

// refAdapter stores wrappers as they are (store-by-reference).
type refAdapter[V any] struct{}

func (refAdapter[V]) toStore(_ string, w Wrapper[V]) (Wrapper[V], error)   { return w, nil }
func (refAdapter[V]) fromStore(_ string, w Wrapper[V]) (Wrapper[V], error) { return w, nil }

// byteAdapter frames codec output with internal/wire (store-by-value).
// Nulls are framed without a payload and never reach the codec.
type byteAdapter[V any] struct {
	codec codec.Codec[V]
}

func (a byteAdapter[V]) toStore(key string, w Wrapper[V]) ([]byte, error) {
	if w.null {
		return wire.EncodeNull(), nil
	}
	payload, err := a.codec.Encode(w.value)
	if err != nil {
		return nil, &SerializationError{Key: key, Value: w.value, Err: err}
	}
	return wire.EncodeValue(payload), nil
}

func (a byteAdapter[V]) fromStore(key string, b []byte) (Wrapper[V], error) {
	null, payload, err := wire.Decode(b)
	if err != nil {
		return Wrapper[V]{}, &DeserializationError{Key: key, Data: b, Err: err}
	}
	if null {
		return nullOf[V](), nil
	}
	v, err := a.codec.Decode(payload)
	if err != nil {
		return Wrapper[V]{}, &DeserializationError{Key: key, Data: b, Err: err}
	}
	return valueOf(v), nil
}
