// This file defines how cache entries expire over time.

package expiration

import (
	"time"

	"github.com/memocache/memocache/types"
)

/*
Strategy is the interface that all expiration rules must follow. Instead of
hard-coding expiration logic into the engine, we define a strategy so the
staleness rule can be swapped easily.

A strategy is a pure predicate over the entry's timestamps: it never mutates
the entry and never touches the clock itself. The engine passes in "now" so
tests can drive time by hand.

A nil Strategy in the engine means entries never expire.
*/
type Strategy interface {

	// IsExpired reports whether the entry is stale at the given instant.
	IsExpired(ent *types.CacheEntry, now time.Time) bool
}

/*
ExpireAfterWrite is the default rule: staleness is measured from when the value
was computed, not from when it was last used. Reading an entry does not extend
its life. An entry created at time t with TTL d is stale from t+d onward, the
boundary instant included.

This is the right rule for memoized computations: the question "is this result
still fresh?" depends on when the result was produced, and popularity must not
keep an outdated result alive forever.
*/
type ExpireAfterWrite struct {
	TTL time.Duration
}

func (e ExpireAfterWrite) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.TTL > 0 && now.Sub(ent.CreatedAt) >= e.TTL
}
