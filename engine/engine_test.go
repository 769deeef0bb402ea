package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memocache/memocache/engine"
	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/expiration"
	"github.com/memocache/memocache/hooks"
	"github.com/memocache/memocache/notify"
	"github.com/memocache/memocache/types"
)

//
// ================= FIXTURES =================
//

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sinkRecorder captures dispatched events in order.
type sinkRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *sinkRecorder) sink(ev notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *sinkRecorder) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Event, len(r.events))
	copy(out, r.events)
	return out
}

// countMetrics counts metric events without any backend.
type countMetrics struct {
	hits, misses, evictions, expirations int
}

func (m *countMetrics) Hit()      { m.hits++ }
func (m *countMetrics) Miss()     { m.misses++ }
func (m *countMetrics) Eviction() { m.evictions++ }
func (m *countMetrics) Expire()   { m.expirations++ }

func lru(t *testing.T) eviction.Policy {
	t.Helper()
	p, err := eviction.New(eviction.LRU)
	require.NoError(t, err)
	return p
}

func value(v any) types.ComputeFunc {
	return func(ctx context.Context) (any, error) { return v, nil }
}

func lookup(t *testing.T, e *engine.Engine, key string, compute types.ComputeFunc) any {
	t.Helper()
	v, err := e.Lookup(context.Background(), key, compute)
	require.NoError(t, err)
	return v
}

//
// ================= LOOKUP =================
//

func TestLookupComputesOnceAndCaches(t *testing.T) {
	metrics := &countMetrics{}
	e := engine.New(engine.Config{
		MaxSize: 8,
		Policy:  lru(t),
		Metrics: metrics,
	})

	calls := 0
	compute := func(ctx context.Context) (any, error) {
		calls++
		return "result", nil
	}

	assert.Equal(t, "result", lookup(t, e, "k", compute))
	assert.Equal(t, "result", lookup(t, e, "k", compute))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.hits)
}

func TestLookupComputeErrorStoresNothing(t *testing.T) {
	e := engine.New(engine.Config{MaxSize: 8, Policy: lru(t)})

	boom := errors.New("boom")
	_, err := e.Lookup(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, e.Len())
	assert.False(t, e.Contains("k"))
}

func TestLookupPassesContextToCompute(t *testing.T) {
	e := engine.New(engine.Config{MaxSize: 8, Policy: lru(t)})

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "payload")

	v, err := e.Lookup(ctx, "k", func(ctx context.Context) (any, error) {
		return ctx.Value(ctxKey{}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
}

//
// ================= EXPIRATION =================
//

func TestExpiredEntryIsReplacedAndNotified(t *testing.T) {
	clk := newFakeClock()
	rec := &sinkRecorder{}
	metrics := &countMetrics{}
	e := engine.New(engine.Config{
		MaxSize:  8,
		Policy:   lru(t),
		Strategy: expiration.ExpireAfterWrite{TTL: time.Second},
		Clock:    clk,
		Metrics:  metrics,
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "k", value("v1"))
	clk.Advance(2 * time.Second)

	assert.Equal(t, "v2", lookup(t, e, "k", value("v2")))

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, "k", events[0].Key)
	assert.Equal(t, "v1", events[0].Value)
	assert.Equal(t, types.ReasonExpired, events[0].Reason)
	assert.Equal(t, 1, metrics.expirations)
	assert.Equal(t, 2, metrics.misses, "an expired entry is a miss")
}

func TestContainsSeesExpiryButDoesNotRemove(t *testing.T) {
	clk := newFakeClock()
	rec := &sinkRecorder{}
	e := engine.New(engine.Config{
		MaxSize:  8,
		Policy:   lru(t),
		Strategy: expiration.ExpireAfterWrite{TTL: time.Second},
		Clock:    clk,
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "k", value("v"))
	clk.Advance(2 * time.Second)

	assert.False(t, e.Contains("k"), "expired entries read as absent")
	assert.Equal(t, 1, e.Len(), "but Contains must not remove them")
	assert.Empty(t, rec.all())
}

func TestSweepExpired(t *testing.T) {
	clk := newFakeClock()
	rec := &sinkRecorder{}
	metrics := &countMetrics{}
	e := engine.New(engine.Config{
		MaxSize:  8,
		Policy:   lru(t),
		Strategy: expiration.ExpireAfterWrite{TTL: time.Second},
		Clock:    clk,
		Metrics:  metrics,
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "old1", value(1))
	lookup(t, e, "old2", value(2))
	clk.Advance(900 * time.Millisecond)
	lookup(t, e, "young", value(3))
	clk.Advance(200 * time.Millisecond)

	// old1 and old2 are 1.1s old, young only 0.2s.
	removed := e.SweepExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, e.Len())
	assert.True(t, e.Contains("young"))
	assert.Equal(t, 2, metrics.expirations)

	for _, ev := range rec.all() {
		assert.Equal(t, types.ReasonExpired, ev.Reason)
	}

	// Nothing left to sweep.
	assert.Equal(t, 0, e.SweepExpired())
}

func TestSweepWithoutStrategyIsNoop(t *testing.T) {
	e := engine.New(engine.Config{MaxSize: 8, Policy: lru(t)})
	lookup(t, e, "k", value(1))

	assert.Equal(t, 0, e.SweepExpired())
	assert.Equal(t, 1, e.Len())
}

//
// ================= CAPACITY =================
//

func TestEvictionHappensOnlyForNewKeys(t *testing.T) {
	clk := newFakeClock()
	rec := &sinkRecorder{}
	e := engine.New(engine.Config{
		MaxSize:  2,
		Policy:   lru(t),
		Strategy: expiration.ExpireAfterWrite{TTL: time.Minute},
		Clock:    clk,
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "a", value("a1"))
	clk.Advance(time.Millisecond)
	lookup(t, e, "b", value("b1"))
	clk.Advance(time.Hour) // both stale now

	// Re-looking up "a" replaces it in place: the stale entry leaves as
	// "expired", never as a capacity victim.
	lookup(t, e, "a", value("a2"))

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, types.ReasonExpired, events[0].Reason)
	assert.Equal(t, 2, e.Len())
}

func TestCapacityEvictionPicksPolicyVictim(t *testing.T) {
	clk := newFakeClock()
	rec := &sinkRecorder{}
	metrics := &countMetrics{}
	e := engine.New(engine.Config{
		MaxSize:  2,
		Policy:   lru(t),
		Clock:    clk,
		Metrics:  metrics,
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "a", value("a"))
	clk.Advance(time.Millisecond)
	lookup(t, e, "b", value("b"))
	clk.Advance(time.Millisecond)
	lookup(t, e, "a", value("ignored")) // refresh a
	clk.Advance(time.Millisecond)

	lookup(t, e, "c", value("c"))

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].Key)
	assert.Equal(t, types.ReasonCapacity, events[0].Reason)
	assert.Equal(t, 1, metrics.evictions)

	assert.True(t, e.Contains("a"))
	assert.False(t, e.Contains("b"))
	assert.True(t, e.Contains("c"))
	assert.Equal(t, 2, e.Len())
}

func TestContainsDoesNotRefreshRecency(t *testing.T) {
	clk := newFakeClock()
	e := engine.New(engine.Config{
		MaxSize: 2,
		Policy:  lru(t),
		Clock:   clk,
	})

	lookup(t, e, "a", value("a"))
	clk.Advance(time.Millisecond)
	lookup(t, e, "b", value("b"))
	clk.Advance(time.Millisecond)

	for i := 0; i < 5; i++ {
		e.Contains("a")
		clk.Advance(time.Millisecond)
	}

	lookup(t, e, "c", value("c"))
	assert.False(t, e.Contains("a"), "probes must not protect an entry from LRU eviction")
	assert.True(t, e.Contains("b"))
}

//
// ================= REMOVAL =================
//

func TestInvalidate(t *testing.T) {
	rec := &sinkRecorder{}
	invalidated := []string{}
	e := engine.New(engine.Config{
		MaxSize: 8,
		Policy:  lru(t),
		Hooks: &hooks.Hooks{
			OnInvalidate: func(key string) { invalidated = append(invalidated, key) },
		},
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "k", value("v"))

	assert.True(t, e.Invalidate("k"))
	assert.False(t, e.Invalidate("k"), "second invalidation finds nothing")
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, []string{"k"}, invalidated)
	assert.Empty(t, rec.all(), "manual removal must not fire eviction notifications")
}

func TestClearDropsEverythingSilently(t *testing.T) {
	rec := &sinkRecorder{}
	e := engine.New(engine.Config{
		MaxSize:  8,
		Policy:   lru(t),
		Notifier: notify.NewSync(rec.sink),
	})

	lookup(t, e, "a", value(1))
	lookup(t, e, "b", value(2))

	e.Clear()
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, rec.all())
}

//
// ================= HOOKS =================
//

func TestHitAndMissHooks(t *testing.T) {
	hits, misses := 0, 0
	e := engine.New(engine.Config{
		MaxSize: 8,
		Policy:  lru(t),
		Hooks: &hooks.Hooks{
			OnHit:  func(key string, value any) { hits++ },
			OnMiss: func(key string) { misses++ },
		},
	})

	lookup(t, e, "k", value("v")) // miss
	lookup(t, e, "k", value("v")) // hit
	lookup(t, e, "k", value("v")) // hit

	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
}
