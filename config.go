package memocache

import (
	"fmt"
	"time"

	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/expiration"
	"github.com/memocache/memocache/hooks"
	"github.com/memocache/memocache/keys"
	"github.com/memocache/memocache/types"
)

// This file defines the cache's configuration surface: functional options
// over a private config struct, validated once at construction.

// DefaultMaxSize is the capacity used when WithMaxSize is absent.
const DefaultMaxSize = 1024

type config struct {
	maxSize         int
	ttl             time.Duration
	policyType      eviction.PolicyType
	deriver         keys.Deriver
	strategy        expiration.Strategy
	clock           types.Clock
	metrics         types.Metrics
	hooks           *hooks.Hooks
	singleFlight    bool
	asyncBuffer     int
	cleanupInterval time.Duration
}

// Option configures a cache under construction.
type Option func(*config)

func defaultConfig() config {
	return config{
		maxSize:    DefaultMaxSize,
		policyType: eviction.LRU,
		deriver:    keys.NewDeriver(),
		clock:      types.SystemClock{},
	}
}

func (c *config) validate() error {
	if c.maxSize <= 0 {
		return fmt.Errorf("memocache: max size must be positive, got %d", c.maxSize)
	}
	if c.ttl < 0 {
		return fmt.Errorf("memocache: ttl must not be negative, got %v", c.ttl)
	}
	if c.deriver == nil {
		return fmt.Errorf("memocache: key deriver must not be nil")
	}
	return nil
}

// expirationStrategy resolves what the engine should use: an explicit
// strategy wins; otherwise a positive TTL selects creation-based expiry, and
// zero means entries never expire.
func (c *config) expirationStrategy() expiration.Strategy {
	if c.strategy != nil {
		return c.strategy
	}
	if c.ttl > 0 {
		return expiration.ExpireAfterWrite{TTL: c.ttl}
	}
	return nil
}

// WithMaxSize bounds the number of live entries. Must be positive; the
// default is DefaultMaxSize.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithTTL sets how long an entry stays valid after it was computed. Reads do
// not extend it. Zero (the default) disables time-based expiration entirely.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithEvictionPolicy selects what gets removed when the cache is full:
// eviction.LRU (the default), eviction.LFU, or eviction.FIFO.
func WithEvictionPolicy(t eviction.PolicyType) Option {
	return func(c *config) { c.policyType = t }
}

// WithKeyDeriver replaces the structural JSON deriver with a custom one.
// Useful when inputs carry types the default encoding cannot handle.
func WithKeyDeriver(d keys.Deriver) Option {
	return func(c *config) { c.deriver = d }
}

// WithExpirationStrategy overrides the staleness rule itself, e.g. with
// expiration.ExpireAfterAccess for a sliding TTL. Takes precedence over
// WithTTL.
func WithExpirationStrategy(s expiration.Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithClock injects the time source. Tests use a manual clock so expiration
// and eviction ordering become exactly reproducible.
func WithClock(clk types.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithMetrics adds an external metrics sink, such as the Prometheus adapter
// in the metrics package. The built-in Stats counters are always collected,
// with or without this option.
func WithMetrics(m types.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithHooks installs the full observer callback set. Replaces any callbacks
// installed by earlier options.
func WithHooks(h *hooks.Hooks) Option {
	return func(c *config) { c.hooks = h }
}

// WithOnEvict is shorthand for observing only evictions.
func WithOnEvict(fn func(key string, value any, reason types.EvictReason)) Option {
	return func(c *config) {
		if c.hooks == nil {
			c.hooks = &hooks.Hooks{}
		}
		c.hooks.OnEvict = fn
	}
}

/*
WithSingleFlight makes concurrent misses for the same key share ONE
computation instead of each running their own.

Without it:
- 100 goroutines miss on the same key
- 100 computations run, last write wins

With it:
- One computation runs, the other 99 goroutines wait for its result

Worth it when computations are expensive or must not run concurrently;
skip it when computations are cheap and contention on the flight group would
cost more than the duplicate work.
*/
func WithSingleFlight() Option {
	return func(c *config) { c.singleFlight = true }
}

// WithAsyncNotifications moves eviction notification delivery to a background
// worker with the given buffer size. The observer stops delaying cache
// operations, but ordering relative to store writes is no longer guaranteed
// and notifications are dropped when the buffer is full. A non-positive
// buffer leaves delivery synchronous.
func WithAsyncNotifications(buffer int) Option {
	return func(c *config) { c.asyncBuffer = buffer }
}

// WithCleanupInterval starts a janitor goroutine that sweeps expired entries
// every d. Without it, stale entries are reclaimed lazily, on the next lookup
// of their key. A non-positive d disables the janitor (the default).
func WithCleanupInterval(d time.Duration) Option {
	return func(c *config) { c.cleanupInterval = d }
}
