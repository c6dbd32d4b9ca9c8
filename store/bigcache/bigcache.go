// Package bigcache provides a store.Store[[]byte] on top of allegro/bigcache.
//
// Use it for store-by-value caches that hold many entries: bigcache keeps
// payloads in large byte queues, out of reach of the GC's pointer scanning.
// Reads always return a copy of the stored bytes.
//
// The store is configured so that bigcache never expires or evicts entries:
// the life window is a century, the clean window is disabled and there is no
// hard size cap.
//
// Distinct keys whose 64-bit xxhash collide overwrite each other; bigcache then
// reports the displaced key as missing.
package bigcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/mapcache/store"
)

const (
	lifeWindow = 100 * 365 * 24 * time.Hour
	stripes    = 256
)

// Config sizes the underlying bigcache. Zero values keep bigcache defaults.
type Config struct {
	Shards             int // power of two; 0 => 1024
	MaxEntriesInWindow int // initial sizing hint
	MaxEntrySize       int // initial sizing hint in bytes
}

// Store is a store.Store[[]byte] backed by bigcache.
type Store struct {
	c      *bc.BigCache
	locks  [stripes]sync.Mutex
	flight store.Flight[[]byte]
}

var _ store.Store[[]byte] = (*Store)(nil)

type xxHasher struct{}

func (xxHasher) Sum64(s string) uint64 { return xxhash.Sum64String(s) }

func New(ctx context.Context, cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(lifeWindow)
	conf.CleanWindow = 0
	conf.HardMaxCacheSize = 0
	conf.Verbose = false
	conf.Hasher = xxHasher{}
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("bigcache store: %w", err)
	}
	return &Store{c: c}, nil
}

func (s *Store) lock(key string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(key)%stripes]
}

func (s *Store) Lookup(key string) ([]byte, bool) {
	b, err := s.c.Get(key)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *Store) Put(key string, v []byte) {
	mu := s.lock(key)
	mu.Lock()
	s.set(key, v)
	mu.Unlock()
}

func (s *Store) PutIfAbsent(key string, v []byte) ([]byte, bool) {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()
	if cur, err := s.c.Get(key); err == nil {
		return cur, true
	}
	s.set(key, v)
	return nil, false
}

func (s *Store) Remove(key string) {
	mu := s.lock(key)
	mu.Lock()
	err := s.c.Delete(key)
	mu.Unlock()
	if err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		panic(fmt.Errorf("bigcache store: delete %q: %w", key, err))
	}
}

func (s *Store) Clear() {
	_ = s.c.Reset() // always nil
}

func (s *Store) GetOrCompute(key string, produce func() ([]byte, error)) ([]byte, error) {
	return s.flight.Do(key, s.Lookup, s.commit, produce)
}

func (s *Store) commit(key string, v []byte) {
	_, _ = s.PutIfAbsent(key, v)
}

func (s *Store) Len() int { return s.c.Len() }

func (s *Store) Range(fn func(key string, v []byte) bool) {
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			// entry removed under the iterator
			continue
		}
		if !fn(e.Key(), e.Value()) {
			return
		}
	}
}

// Close releases bigcache resources. The store must not be used afterwards.
func (s *Store) Close() error {
	return s.c.Close()
}

// set writes through to bigcache. Without a hard size cap bigcache grows its
// queues instead of failing, so an error here is a broken invariant.
func (s *Store) set(key string, v []byte) {
	if err := s.c.Set(key, v); err != nil {
		panic(fmt.Errorf("bigcache store: set %q: %w", key, err))
	}
}
