package mapcache

import (
	"context"
	"fmt"
	"time"

	st "github.com/unkn0wn-root/mapcache/store"
)

// cache is generic over the user type V and the store representation S
// (Wrapper[V] by reference, []byte by value).
type cache[V, S any] struct {
	name      string
	allowNull bool
	byValue   bool
	store     st.Store[S]
	adapt     adapter[V, S]
	log       Logger
	hooks     Hooks
}

func newCache[V, S any](opts Options[V], s st.Store[S], a adapter[V, S]) *cache[V, S] {
	return &cache[V, S]{
		name:      opts.Name,
		allowNull: !opts.DisallowNull,
		byValue:   opts.Codec != nil,
		store:     s,
		adapt:     a,
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
}

func (c *cache[V, S]) Name() string          { return c.name }
func (c *cache[V, S]) StoreByValue() bool    { return c.byValue }
func (c *cache[V, S]) AllowNullValues() bool { return c.allowNull }
func (c *cache[V, S]) NativeStore() any      { return c.store }
func (c *cache[V, S]) Len() int              { return c.store.Len() }

func (c *cache[V, S]) Lookup(key string) (Wrapper[V], bool, error) {
	s, ok := c.store.Lookup(key)
	if !ok {
		return Wrapper[V]{}, false, nil
	}
	w, err := c.fromStore(key, s)
	if err != nil {
		return Wrapper[V]{}, false, err
	}
	return w, true, nil
}

func (c *cache[V, S]) Get(ctx context.Context, key string, loader Loader[V]) (V, error) {
	var zero V
	if loadingIn(ctx, c, key) {
		// waiting on our own flight would never return
		w, ok, err := c.Lookup(key)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, &RetrievalError{Key: key, Loader: loader, Err: ErrRecursiveLoad}
		}
		return w.value, nil
	}
	s, err := c.store.GetOrCompute(key, func() (S, error) {
		var none S
		start := time.Now()
		v, err := c.invoke(withLoading(ctx, c, key), loader)
		if err != nil {
			c.hooks.LoadFailed(key, err)
			c.log.Debug("loader failed", Fields{"cache": c.name, "key": key, "err": err})
			return none, &RetrievalError{Key: key, Loader: loader, Err: err}
		}
		s, err := c.toStore(key, v)
		if err != nil {
			return none, err
		}
		c.hooks.Loaded(key, time.Since(start))
		return s, nil
	})
	if err != nil {
		return zero, err
	}
	// by value: every caller, the loading one included, gets its own decoded copy
	w, err := c.fromStore(key, s)
	if err != nil {
		return zero, err
	}
	return w.value, nil
}

func (c *cache[V, S]) Put(key string, value V) error {
	s, err := c.toStore(key, value)
	if err != nil {
		return err
	}
	c.store.Put(key, s)
	return nil
}

func (c *cache[V, S]) PutNull(key string) error {
	s, err := c.nullToStore(key)
	if err != nil {
		return err
	}
	c.store.Put(key, s)
	return nil
}

func (c *cache[V, S]) PutIfAbsent(key string, value V) (Wrapper[V], bool, error) {
	s, err := c.toStore(key, value)
	if err != nil {
		return Wrapper[V]{}, false, err
	}
	prev, loaded := c.store.PutIfAbsent(key, s)
	if !loaded {
		return Wrapper[V]{}, false, nil
	}
	w, err := c.fromStore(key, prev)
	if err != nil {
		return Wrapper[V]{}, true, err
	}
	return w, true, nil
}

func (c *cache[V, S]) Evict(key string) { c.store.Remove(key) }

func (c *cache[V, S]) Clear() { c.store.Clear() }

type loadingKey struct{}

// loadFrame records a key being loaded on this call chain.
type loadFrame struct {
	owner  any
	key    string
	parent *loadFrame
}

func withLoading(ctx context.Context, owner any, key string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, _ := ctx.Value(loadingKey{}).(*loadFrame)
	return context.WithValue(ctx, loadingKey{}, &loadFrame{owner: owner, key: key, parent: parent})
}

func loadingIn(ctx context.Context, owner any, key string) bool {
	if ctx == nil {
		return false
	}
	for f, _ := ctx.Value(loadingKey{}).(*loadFrame); f != nil; f = f.parent {
		if f.owner == owner && f.key == key {
			return true
		}
	}
	return false
}

// invoke runs loader, turning a panic into an error so that it is reported
// like any other loader failure and never escapes into the store.
func (c *cache[V, S]) invoke(ctx context.Context, loader Loader[V]) (v V, err error) {
	if loader == nil {
		return v, ErrNilLoader
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mapcache: loader panic: %v", r)
		}
	}()
	return loader(ctx)
}

func (c *cache[V, S]) toStore(key string, value V) (S, error) {
	if isNil(value) {
		return c.nullToStore(key)
	}
	s, err := c.adapt.toStore(key, valueOf(value))
	if err != nil {
		c.hooks.SerializeFailed(key, err)
		c.log.Debug("serialize failed", Fields{"cache": c.name, "key": key, "err": err})
	}
	return s, err
}

func (c *cache[V, S]) nullToStore(key string) (S, error) {
	if !c.allowNull {
		var none S
		c.hooks.NullRejected(key)
		c.log.Debug("null value rejected", Fields{"cache": c.name, "key": key})
		return none, &ConfigError{Cache: c.name, Key: key}
	}
	return c.adapt.toStore(key, nullOf[V]())
}

func (c *cache[V, S]) fromStore(key string, s S) (Wrapper[V], error) {
	w, err := c.adapt.fromStore(key, s)
	if err != nil {
		c.hooks.DeserializeFailed(key, err)
		c.log.Warn("deserialize failed; entry kept", Fields{"cache": c.name, "key": key, "err": err})
	}
	return w, err
}
