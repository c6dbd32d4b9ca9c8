package mapcache

import (
	"context"
	"errors"

	c "github.com/unkn0wn-root/mapcache/codec"
	st "github.com/unkn0wn-root/mapcache/store"
)

// Loader produces the value for a missing key. It runs on the goroutine of the
// Get call that triggered it and receives that call's context.
//
// A loader must not call Get for the key it is loading. When it passes on the
// context it received, such a call fails with ErrRecursiveLoad; with any other
// context it blocks forever.
type Loader[V any] func(ctx context.Context) (V, error)

// Cache is a named, process-local cache of V values keyed by string.
// All methods are safe for concurrent use.
type Cache[V any] interface {
	Name() string
	// StoreByValue reports whether entries are held as codec bytes.
	StoreByValue() bool
	AllowNullValues() bool

	// NativeStore exposes the backing store: st.Store[[]byte] holding framed
	// codec output when StoreByValue, st.Store[Wrapper[V]] otherwise.
	NativeStore() any

	// Lookup reads key without loading. ok=false means not cached;
	// w.IsNull() means cached as null.
	Lookup(key string) (w Wrapper[V], ok bool, err error)

	// Get returns the cached value for key, calling loader on a miss. Concurrent
	// misses on the same key share one loader call. A failing loader yields a
	// *RetrievalError and leaves key absent.
	//
	// A loaded value that cannot be stored is not a RetrievalError: a null with
	// nulls disallowed yields *ConfigError (errors.Is ErrNullValue) and a codec
	// failure yields *SerializationError. Key stays absent in both cases.
	Get(ctx context.Context, key string, loader Loader[V]) (V, error)

	// Put stores value under key, overwriting any entry.
	Put(key string, value V) error
	// PutNull caches a null under key. Useful when V has no nil value.
	PutNull(key string) error
	// PutIfAbsent stores value only if key is absent. If key was present it
	// returns the existing entry with loaded=true and writes nothing.
	PutIfAbsent(key string, value V) (prev Wrapper[V], loaded bool, err error)

	// Evict removes key. Missing keys are a no-op.
	Evict(key string)
	// Clear removes all entries. The cache stays usable.
	Clear()
	Len() int
}

// Options configure a Cache. Only Name is required.
// Configuration is fixed once New returns.
type Options[V any] struct {
	// Required
	Name string

	// Codec enables store-by-value: values are encoded on write and decoded on
	// every read, so callers never share objects with the cache.
	// nil => store-by-reference.
	Codec c.Codec[V]

	DisallowNull bool // default false => nil values are cached as nulls

	Store     st.Store[Wrapper[V]] // by-reference backing store; nil => st.NewLocal
	ByteStore st.Store[[]byte]     // store-by-value backing store; nil => st.NewLocal

	Shards          int // default local stores; 0 => st.DefaultShards
	InitialCapacity int // default local stores; 0 => st.DefaultCapacity

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

func New[V any](opts Options[V]) (Cache[V], error) {
	if opts.Name == "" {
		return nil, errors.New("mapcache: name is required")
	}

	if opts.Codec != nil {
		if opts.Store != nil {
			return nil, errors.New("mapcache: Store is for by-reference caches; use ByteStore with a Codec")
		}
		bs := opts.ByteStore
		if bs == nil {
			bs = st.NewLocal[[]byte](opts.Shards, opts.InitialCapacity)
		}
		return newCache[V, []byte](opts, bs, byteAdapter[V]{codec: opts.Codec}), nil
	}

	if opts.ByteStore != nil {
		return nil, errors.New("mapcache: ByteStore requires a Codec")
	}
	rs := opts.Store
	if rs == nil {
		rs = st.NewLocal[Wrapper[V]](opts.Shards, opts.InitialCapacity)
	}
	return newCache[V, Wrapper[V]](opts, rs, refAdapter[V]{}), nil
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
