// Package sloghooks implements mapcache.Hooks on top of log/slog with
// per-event sampling and key redaction.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/mapcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	LoadedEvery     uint64
	LoadFailedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	loadedCtr     atomic.Uint64
	loadFailedCtr atomic.Uint64
}

var _ mapcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Loaded(key string, took time.Duration) {
	if h.l == nil || !sample(h.opts.LoadedEvery, &h.loadedCtr) {
		return
	}
	h.l.Debug("mapcache.loaded",
		"key", h.redact(key),
		"took", took)
}

func (h *Hooks) LoadFailed(key string, err error) {
	if h.l == nil || !sample(h.opts.LoadFailedEvery, &h.loadFailedCtr) {
		return
	}
	h.l.Warn("mapcache.load_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) SerializeFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("mapcache.serialize_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) DeserializeFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("mapcache.deserialize_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) NullRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("mapcache.null_rejected",
		"key", h.redact(key))
}
