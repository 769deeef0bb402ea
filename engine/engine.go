package engine

import (
	"context"
	"sync"
	"time"

	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/expiration"
	"github.com/memocache/memocache/hooks"
	"github.com/memocache/memocache/notify"
	"github.com/memocache/memocache/store"
	"github.com/memocache/memocache/types"
)

/*
Engine is the "brain" of the cache. It owns one entry store and serializes
every decision about it behind one mutex.

It decides:
- When an entry is expired and has to be treated as absent
- Which entry is the victim when capacity runs out
- When observers are told about removals, and in what order
- What the bookkeeping fields look like after a hit

It does NOT:
- Derive keys (the facade does, outside the lock)
- Decide HOW staleness or victims are determined (those are the pluggable
  expiration strategy's and eviction policy's jobs)
- Run computations under its lock (see Lookup)

One lock instead of clever lock-free structures is deliberate: the interesting
guarantees here are ordering guarantees ("check, then touch, then return" and
"evict, notify, then insert" as indivisible sequences), and a single mutex
makes them trivially true.
*/
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	policy   eviction.Policy
	strategy expiration.Strategy
	clock    types.Clock
	metrics  types.Metrics
	hooks    *hooks.Hooks
	notifier notify.Dispatcher
}

// Config carries everything an Engine needs. The facade fills it in from the
// user's options.
type Config struct {
	MaxSize int
	Policy  eviction.Policy

	// Strategy may be nil, meaning entries never expire.
	Strategy expiration.Strategy

	Clock   types.Clock
	Metrics types.Metrics
	Hooks   *hooks.Hooks

	// Notifier delivers eviction events. The facade owns its lifecycle; the
	// engine only dispatches into it.
	Notifier notify.Dispatcher
}

func New(cfg Config) *Engine {

	// Collaborators are always non-nil after construction, so the hot path
	// never has to check.
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = types.NoopMetrics{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewSync(nil)
	}

	return &Engine{
		store:    store.New(cfg.MaxSize),
		policy:   cfg.Policy,
		strategy: cfg.Strategy,
		clock:    cfg.Clock,
		metrics:  cfg.Metrics,
		hooks:    cfg.Hooks,
		notifier: cfg.Notifier,
	}
}

/*
Lookup returns the value for key, computing and storing it on a miss.

BEHAVIOR
--------
1. Under the lock: look the key up.
2. Found but expired: remove it, count the expiration, notify observers with
   reason "expired", then treat the key as absent.
3. Found and live: update the access bookkeeping and return the value. Nothing
   is computed, nothing is written.
4. Absent: count the miss, release the lock and run compute.
5. Compute failed: return the error. Nothing is stored, so the failure cannot
   be served from cache later.
6. Compute succeeded: retake the lock, make room if a new key would exceed
   capacity, store the entry, return the value.

The lock is NOT held while compute runs. Holding it there would serialize
every computation in the process behind the slowest one. The price is that two
concurrent misses for the same key may both compute; both store the same key,
so the last write simply wins. Callers who want misses deduplicated wrap
compute in a single-flight group (the facade's single-flight option does
exactly that).
*/
func (e *Engine) Lookup(ctx context.Context, key string, compute types.ComputeFunc) (any, error) {
	e.mu.Lock()
	now := e.clock.Now()
	if ent, ok := e.store.Get(key); ok {
		if e.isExpired(ent, now) {
			e.store.Remove(key)
			e.metrics.Expire()
			e.notifier.Dispatch(notify.Event{Key: key, Value: ent.Value, Reason: types.ReasonExpired})
			// expired means absent: fall through to the miss path
		} else {
			e.store.Touch(key, now)
			e.metrics.Hit()
			value := ent.Value
			e.mu.Unlock()
			e.hooks.Hit(key, value)
			return value, nil
		}
	}
	e.metrics.Miss()
	e.mu.Unlock()
	e.hooks.Miss(key)

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.makeRoom(key)
	e.store.Put(key, value, e.clock.Now())
	e.mu.Unlock()
	return value, nil
}

/*
makeRoom evicts at most one victim, and only when both hold:
- key is NOT already present (replacing an existing key needs no space)
- the store is full

The eviction notification is dispatched BEFORE the new entry is stored, so a
synchronous observer always sees the cache transition in its real order:
victim out, then newcomer in.

Called with the lock held.
*/
func (e *Engine) makeRoom(key string) {
	if _, ok := e.store.Get(key); ok {
		return
	}
	if !e.store.IsFull() {
		return
	}
	victim, ok := e.policy.SelectVictim(e.store.Entries())
	if !ok {
		return
	}
	if ent, ok := e.store.Remove(victim); ok {
		e.metrics.Eviction()
		e.notifier.Dispatch(notify.Event{Key: victim, Value: ent.Value, Reason: types.ReasonCapacity})
	}
}

// Contains reports whether key is present and live. It is purely a peek: no
// bookkeeping is updated, and a stale entry it happens to find stays in place
// until a real lookup or a sweep removes it.
func (e *Engine) Contains(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.store.Get(key)
	return ok && !e.isExpired(ent, e.clock.Now())
}

// Invalidate removes key immediately, live or expired. Manual removal is not
// an eviction: no eviction notification fires, only the invalidation hook.
// Removing an absent key is a no-op and reports false.
func (e *Engine) Invalidate(key string) bool {
	e.mu.Lock()
	_, ok := e.store.Remove(key)
	e.mu.Unlock()
	if ok {
		e.hooks.Invalidate(key)
	}
	return ok
}

// Len returns the number of stored entries, expired ones included until
// something removes them.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

/*
SweepExpired removes every expired entry and fires the usual expiration
notifications for each.

Lazy expiration only inspects the key being looked up, so with a TTL
configured and no further traffic, stale entries would sit in memory until
capacity pressure pushes them out. The optional janitor calls this on a timer
to reclaim them actively. Returns how many entries were removed.
*/
func (e *Engine) SweepExpired() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.strategy == nil {
		return 0
	}
	now := e.clock.Now()
	removed := 0
	for _, ent := range e.store.Entries() {
		if e.isExpired(ent, now) {
			e.store.Remove(ent.Key)
			e.metrics.Expire()
			e.notifier.Dispatch(notify.Event{Key: ent.Key, Value: ent.Value, Reason: types.ReasonExpired})
			removed++
		}
	}
	return removed
}

// Clear drops every entry at once. Like teardown, this is the caller's
// decision rather than a policy decision, so no eviction notifications fire.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
}

func (e *Engine) isExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.strategy != nil && e.strategy.IsExpired(ent, now)
}
