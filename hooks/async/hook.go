// Package asynchook moves mapcache hook calls off the caller's goroutine.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{LoadedEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	users, _ := mapcache.New(mapcache.Options[*User]{
//	    Name:  "users",
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
//
// Events are dropped when the queue is full.
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/mapcache"
)

type Hooks struct {
	inner   mapcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends racing Close
	closed  bool
	dropped atomic.Uint64
}

var _ mapcache.Hooks = (*Hooks)(nil)

func New(inner mapcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Later events are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped returns how many events were discarded (full queue or closed).
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Loaded(k string, d time.Duration)      { h.try(func() { h.inner.Loaded(k, d) }) }
func (h *Hooks) LoadFailed(k string, err error)        { h.try(func() { h.inner.LoadFailed(k, err) }) }
func (h *Hooks) SerializeFailed(k string, err error)   { h.try(func() { h.inner.SerializeFailed(k, err) }) }
func (h *Hooks) DeserializeFailed(k string, err error) { h.try(func() { h.inner.DeserializeFailed(k, err) }) }
func (h *Hooks) NullRejected(k string)                 { h.try(func() { h.inner.NullRejected(k) }) }
