// This file defines the cache's observer callbacks.
// Hooks let the embedding application react to cache events (log them, count
// them, release resources held by evicted values) without the cache knowing
// anything about loggers, metric backends, or the values themselves.

package hooks

import "github.com/memocache/memocache/types"

/*
Hooks is the optional callback set an application can install.

Every callback runs synchronously with the operation that triggered it, except
OnEvict, which may be deferred to a background worker when async notification
delivery is enabled. Callbacks MUST be fast and must not call back into the
cache: OnEvict in particular runs while the engine lock is held, so reentering
the cache from it would deadlock.

A nil *Hooks, or a nil individual field, simply means "not interested". The
invocation helpers below absorb both, so callers never need nil checks.
*/
type Hooks struct {

	// OnHit runs after a lookup returned a live entry.
	OnHit func(key string, value any)

	// OnMiss runs when a lookup found nothing usable and a computation is
	// about to start.
	OnMiss func(key string)

	// OnEvict runs when the cache removes an entry on its own: the entry
	// expired, or it was chosen as the capacity victim. The reason says which.
	// Teardown (Clear, Close) does not fire it.
	OnEvict func(key string, value any, reason types.EvictReason)

	// OnInvalidate runs when an entry is removed explicitly by the caller.
	OnInvalidate func(key string)
}

func (h *Hooks) Hit(key string, value any) {
	if h != nil && h.OnHit != nil {
		h.OnHit(key, value)
	}
}

func (h *Hooks) Miss(key string) {
	if h != nil && h.OnMiss != nil {
		h.OnMiss(key)
	}
}

func (h *Hooks) Evict(key string, value any, reason types.EvictReason) {
	if h != nil && h.OnEvict != nil {
		h.OnEvict(key, value, reason)
	}
}

func (h *Hooks) Invalidate(key string) {
	if h != nil && h.OnInvalidate != nil {
		h.OnInvalidate(key)
	}
}
