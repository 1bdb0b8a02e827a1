package cert

import (
	"crypto/tls"
	"sync/atomic"
)

// SecurityContext is the assembled, engine-bound TLS configuration shared
// between the builder that produced it and the client that uses it. It is
// reference counted: every holder retains its own reference and releases it
// when done; the underlying configuration is dropped once the count reaches
// zero. Holders must not touch the context after releasing their reference.
type SecurityContext struct {
	refs   atomic.Int32
	cfg    atomic.Pointer[tls.Config]
	engine Engine
}

func newSecurityContext(cfg *tls.Config, engine Engine) *SecurityContext {
	sc := &SecurityContext{engine: engine}
	sc.cfg.Store(cfg)
	sc.refs.Store(1)
	return sc
}

// Retain adds a reference and returns the context for chaining.
func (sc *SecurityContext) Retain() *SecurityContext {
	if sc.refs.Add(1) <= 1 {
		panic("cert: retain of released SecurityContext")
	}
	return sc
}

// Release drops one reference. When the last reference is released the
// underlying TLS configuration is discarded so stale holders cannot reach
// key material through a leaked pointer. Releasing more references than were
// held is a programming error and panics.
func (sc *SecurityContext) Release() {
	n := sc.refs.Add(-1)
	switch {
	case n == 0:
		sc.cfg.Store(nil)
	case n < 0:
		panic("cert: release of already-released SecurityContext")
	}
}

// Refs reports the current reference count. Intended for tests and leak
// diagnostics.
func (sc *SecurityContext) Refs() int32 {
	return sc.refs.Load()
}

// Engine reports the cipher-engine profile the context was assembled for.
func (sc *SecurityContext) Engine() Engine {
	return sc.engine
}

// TLSConfig returns a clone of the assembled configuration, or nil if every
// reference has been released. Callers get an independent copy so transport
// layers can adjust per-connection fields without affecting other holders.
func (sc *SecurityContext) TLSConfig() *tls.Config {
	cfg := sc.cfg.Load()
	if cfg == nil {
		return nil
	}
	return cfg.Clone()
}
