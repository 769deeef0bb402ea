package memocache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/memocache/memocache/engine"
	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/keys"
	"github.com/memocache/memocache/notify"
	"github.com/memocache/memocache/shard"
)

/*
ShardedCache splits the keyspace across independent engines. Instead of one
store and one lock, there are N, and a key always lands on the same one.

What this buys:
- Writers on different shards never contend

What it costs:
- Capacity is divided evenly, so a shard can evict while another has room
- Eviction policies see only their own shard, so the global "least recently
  used" entry can survive while a merely shard-local one is evicted
- Size and Stats aggregate across shards without freezing them, so under
  concurrent writes the totals are approximate

Workloads that need exact victim selection use the single-store MemoCache.
*/
type ShardedCache struct {
	shards   []*engine.Engine
	selector shard.Selector
	deriver  keys.Deriver
	stats    *statsCollector
	notifier notify.Dispatcher

	sf    singleflight.Group
	useSF bool

	stopJanitor func()
	closeOnce   sync.Once
}

var _ Cache = (*ShardedCache)(nil)

/*
NewSharded builds a cache with the given number of shards. The configured max
size is split evenly across them, so it must be at least the shard count; the
division is what keeps the total bound intact.

All shards share one eviction policy value (policies are stateless), one
metrics fanout, and one notification dispatcher.
*/
func NewSharded(shards int, opts ...Option) (*ShardedCache, error) {
	if shards <= 0 {
		return nil, fmt.Errorf("memocache: shard count must be positive, got %d", shards)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.maxSize < shards {
		return nil, fmt.Errorf("memocache: max size %d is smaller than shard count %d", cfg.maxSize, shards)
	}
	policy, err := eviction.New(cfg.policyType)
	if err != nil {
		return nil, err
	}

	stats := &statsCollector{}
	disp := newDispatcher(cfg.hooks, cfg.asyncBuffer)
	metrics := newFanoutMetrics(stats, cfg.metrics)

	engines := make([]*engine.Engine, shards)
	for i := range engines {
		engines[i] = engine.New(engine.Config{
			MaxSize:  cfg.maxSize / shards,
			Policy:   policy,
			Strategy: cfg.expirationStrategy(),
			Clock:    cfg.clock,
			Metrics:  metrics,
			Hooks:    cfg.hooks,
			Notifier: disp,
		})
	}

	c := &ShardedCache{
		shards:   engines,
		selector: shard.FNVSelector{},
		deriver:  cfg.deriver,
		stats:    stats,
		notifier: disp,
		useSF:    cfg.singleFlight,
	}
	if cfg.cleanupInterval > 0 {
		c.stopJanitor = startJanitor(cfg.cleanupInterval, func() {
			for _, eng := range engines {
				eng.SweepExpired()
			}
		})
	}
	return c, nil
}

// pick routes a derived key to its shard. The selector is deterministic per
// key, so lookups always find what earlier lookups stored.
func (c *ShardedCache) pick(key string) *engine.Engine {
	return c.shards[c.selector.Pick(key, len(c.shards))]
}

// GetOrCompute implements Cache.
func (c *ShardedCache) GetOrCompute(ctx context.Context, inputs []any, compute ComputeFunc) (any, error) {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return nil, err
	}

	fn := compute
	if c.useSF {
		// The flight group is cache-wide: deduplication works even though the
		// engines are independent.
		fn = func(ctx context.Context) (any, error) {
			v, err, _ := c.sf.Do(key, func() (any, error) {
				return compute(ctx)
			})
			return v, err
		}
	}

	return c.pick(key).Lookup(ctx, key, fn)
}

// Contains implements Cache.
func (c *ShardedCache) Contains(inputs []any) bool {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return false
	}
	return c.pick(key).Contains(key)
}

// Size implements Cache. The sum is taken shard by shard, not under a global
// lock, so it is approximate while writers are active.
func (c *ShardedCache) Size() int {
	total := 0
	for _, eng := range c.shards {
		total += eng.Len()
	}
	return total
}

// Stats implements Cache.
func (c *ShardedCache) Stats() Stats {
	return c.stats.snapshot(c.Size())
}

// Invalidate implements Cache.
func (c *ShardedCache) Invalidate(inputs []any) bool {
	key, err := c.deriver.Derive(inputs)
	if err != nil {
		return false
	}
	return c.pick(key).Invalidate(key)
}

// Clear implements Cache.
func (c *ShardedCache) Clear() {
	for _, eng := range c.shards {
		eng.Clear()
	}
}

// Close implements Cache. Safe to call more than once.
func (c *ShardedCache) Close() {
	c.closeOnce.Do(func() {
		if c.stopJanitor != nil {
			c.stopJanitor()
		}
		for _, eng := range c.shards {
			eng.Clear()
		}
		c.notifier.Close()
	})
}
