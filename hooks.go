package mapcache

import "time"

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking: the cache calls them on the
// caller's goroutine. Wrap slow hooks with hooks/async.
type Hooks interface {
	// A loader ran for key and produced a storable value.
	// Called once per load, by the goroutine that ran the loader, just before commit.
	Loaded(key string, took time.Duration)

	// A loader failed (error or panic). Waiters sharing the load are not reported separately.
	LoadFailed(key string, err error)

	// The codec could not encode a value; nothing was stored.
	SerializeFailed(key string, err error)

	// Stored bytes could not be decoded; the entry was left in place.
	DeserializeFailed(key string, err error)

	// A null value was written to a cache that disallows nulls.
	NullRejected(key string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Loaded(string, time.Duration)    {}
func (NopHooks) LoadFailed(string, error)        {}
func (NopHooks) SerializeFailed(string, error)   {}
func (NopHooks) DeserializeFailed(string, error) {}
func (NopHooks) NullRejected(string)             {}
