package store

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultShards   = 16
	DefaultCapacity = 256
)

type shard[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

// Local is the default in-process Store: a sharded map guarded by per-shard
// RWMutexes. Keys are spread across shards by xxhash.
type Local[T any] struct {
	shards []*shard[T]
	mask   uint64
	perCap int
	flight Flight[T]
}

var _ Store[[]byte] = (*Local[[]byte])(nil)

// NewLocal returns an empty Local store.
// shards is rounded up to a power of two (<= 0 => DefaultShards).
// capacity is the initial total capacity hint (<= 0 => DefaultCapacity).
func NewLocal[T any](shards, capacity int) *Local[T] {
	if shards <= 0 {
		shards = DefaultShards
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	n := 1
	for n < shards {
		n <<= 1
	}
	perCap := capacity / n
	if perCap < 1 {
		perCap = 1
	}

	l := &Local[T]{
		shards: make([]*shard[T], n),
		mask:   uint64(n - 1),
		perCap: perCap,
	}
	for i := range l.shards {
		l.shards[i] = &shard[T]{m: make(map[string]T, perCap)}
	}
	return l
}

func (l *Local[T]) shardFor(key string) *shard[T] {
	return l.shards[xxhash.Sum64String(key)&l.mask]
}

func (l *Local[T]) Lookup(key string) (T, bool) {
	s := l.shardFor(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

func (l *Local[T]) Put(key string, v T) {
	s := l.shardFor(key)
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

func (l *Local[T]) PutIfAbsent(key string, v T) (T, bool) {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.m[key]; ok {
		return cur, true
	}
	s.m[key] = v
	var zero T
	return zero, false
}

func (l *Local[T]) Remove(key string) {
	s := l.shardFor(key)
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Clear empties every shard. It is not atomic across shards: a concurrent Put
// to an already-cleared shard survives.
func (l *Local[T]) Clear() {
	for _, s := range l.shards {
		s.mu.Lock()
		s.m = make(map[string]T, l.perCap)
		s.mu.Unlock()
	}
}

func (l *Local[T]) GetOrCompute(key string, produce func() (T, error)) (T, error) {
	return l.flight.Do(key, l.Lookup, l.commit, produce)
}

func (l *Local[T]) commit(key string, v T) {
	_, _ = l.PutIfAbsent(key, v)
}

func (l *Local[T]) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Range visits a per-shard snapshot, so fn may call back into the store.
func (l *Local[T]) Range(fn func(key string, v T) bool) {
	for _, s := range l.shards {
		s.mu.RLock()
		keys := make([]string, 0, len(s.m))
		vals := make([]T, 0, len(s.m))
		for k, v := range s.m {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		s.mu.RUnlock()

		for i := range keys {
			if !fn(keys[i], vals[i]) {
				return
			}
		}
	}
}
