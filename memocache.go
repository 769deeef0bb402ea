package memocache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/memocache/memocache/engine"
	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/hooks"
	"github.com/memocache/memocache/keys"
	"github.com/memocache/memocache/notify"
)

/*
MemoCache is the single-store implementation. This struct is the orchestrator
that connects:
- key derivation
- the engine (store + expiration + eviction + notification ordering)
- activity counters
- optional computation deduplication
- the optional cleanup janitor

One store under one lock means the eviction policy always sees the whole
cache, so victim selection is exact. Workloads that care more about lock
contention than about exact victims use NewSharded instead.
*/
type MemoCache struct {
	engine   *engine.Engine
	deriver  keys.Deriver
	stats    *statsCollector
	notifier notify.Dispatcher

	// sf deduplicates concurrent computations per key when useSF is set.
	sf    singleflight.Group
	useSF bool

	stopJanitor func()
	closeOnce   sync.Once
}

var _ Cache = (*MemoCache)(nil)

// New builds a cache from the given options. Invalid configuration (zero or
// negative capacity, unknown eviction policy) is reported here, not at first
// use.
func New(opts ...Option) (*MemoCache, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	policy, err := eviction.New(cfg.policyType)
	if err != nil {
		return nil, err
	}

	stats := &statsCollector{}
	disp := newDispatcher(cfg.hooks, cfg.asyncBuffer)

	eng := engine.New(engine.Config{
		MaxSize:  cfg.maxSize,
		Policy:   policy,
		Strategy: cfg.expirationStrategy(),
		Clock:    cfg.clock,
		Metrics:  newFanoutMetrics(stats, cfg.metrics),
		Hooks:    cfg.hooks,
		Notifier: disp,
	})

	c := &MemoCache{
		engine:   eng,
		deriver:  cfg.deriver,
		stats:    stats,
		notifier: disp,
		useSF:    cfg.singleFlight,
	}
	if cfg.cleanupInterval > 0 {
		c.stopJanitor = startJanitor(cfg.cleanupInterval, func() {
			eng.SweepExpired()
		})
	}
	return c, nil
}

// newDispatcher wires the user's OnEvict hook behind the configured delivery
// mode. The facade owns the dispatcher's lifecycle and closes it on Close.
func newDispatcher(h *hooks.Hooks, asyncBuffer int) notify.Dispatcher {
	sink := func(ev notify.Event) {
		h.Evict(ev.Key, ev.Value, ev.Reason)
	}
	if asyncBuffer > 0 {
		return notify.NewAsync(sink, asyncBuffer)
	}
	return notify.NewSync(sink)
}

// GetOrCompute implements Cache.
func (c *MemoCache) GetOrCompute(ctx context.Context, inputs []any, compute ComputeFunc) (any, error) {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return nil, err
	}

	/*
		With single-flight enabled, only the computation is deduplicated, not
		the lookup: every caller still checks the store itself, and every
		caller whose check missed stores the shared result. Storing the same
		key twice with the same value is harmless.
	*/
	fn := compute
	if c.useSF {
		fn = func(ctx context.Context) (any, error) {
			v, err, _ := c.sf.Do(key, func() (any, error) {
				return compute(ctx)
			})
			return v, err
		}
	}

	return c.engine.Lookup(ctx, key, fn)
}

// Contains implements Cache.
func (c *MemoCache) Contains(inputs []any) bool {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return false
	}
	return c.engine.Contains(key)
}

// Size implements Cache.
func (c *MemoCache) Size() int {
	return c.engine.Len()
}

// Stats implements Cache.
func (c *MemoCache) Stats() Stats {
	return c.stats.snapshot(c.engine.Len())
}

// Invalidate implements Cache.
func (c *MemoCache) Invalidate(inputs []any) bool {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return false
	}
	return c.engine.Invalidate(key)
}

// Clear implements Cache.
func (c *MemoCache) Clear() {
	c.engine.Clear()
}

// Close implements Cache: the janitor stops, queued async notifications are
// flushed, and all entries are dropped without notifications. Safe to call
// more than once.
func (c *MemoCache) Close() {
	c.closeOnce.Do(func() {
		if c.stopJanitor != nil {
			c.stopJanitor()
		}
		c.engine.Clear()
		c.notifier.Close()
	})
}
