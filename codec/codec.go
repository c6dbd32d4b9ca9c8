// Package codec holds serialization delegates for store-by-value caches.
//
// A cache configured with a Codec stores only the bytes produced by Encode and
// hands every reader a value freshly produced by Decode, so callers never share
// an object with the cache. Decode must not retain or alias its input.
package codec

// Codec converts values V to and from bytes.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
