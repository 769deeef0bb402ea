package eviction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/types"
)

var base = time.Unix(1700000000, 0)

// entry builds a bookkeeping fixture with offsets from a fixed base time.
func entry(key string, created, accessed time.Duration, count int64) *types.CacheEntry {
	return &types.CacheEntry{
		Key:            key,
		CreatedAt:      base.Add(created),
		LastAccessedAt: base.Add(accessed),
		AccessCount:    count,
	}
}

func policy(t *testing.T, pt eviction.PolicyType) eviction.Policy {
	t.Helper()
	p, err := eviction.New(pt)
	require.NoError(t, err)
	return p
}

func TestFactoryKnowsAllPolicies(t *testing.T) {
	for _, pt := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO} {
		p, err := eviction.New(pt)
		require.NoError(t, err)
		require.NotNil(t, p)
	}

	_, err := eviction.New("RANDOM")
	assert.Error(t, err)
}

func TestEmptyEntriesHaveNoVictim(t *testing.T) {
	for _, pt := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO} {
		_, ok := policy(t, pt).SelectVictim(nil)
		assert.False(t, ok, "%s must report no victim for empty input", pt)
	}
}

func TestLRUPicksOldestAccess(t *testing.T) {
	victim, ok := policy(t, eviction.LRU).SelectVictim([]*types.CacheEntry{
		entry("a", 0, 30*time.Second, 5),
		entry("b", 0, 10*time.Second, 9),
		entry("c", 0, 20*time.Second, 1),
	})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestLRUTieBreaksByCreation(t *testing.T) {
	victim, ok := policy(t, eviction.LRU).SelectVictim([]*types.CacheEntry{
		entry("a", 5*time.Second, 10*time.Second, 0),
		entry("b", 2*time.Second, 10*time.Second, 0),
	})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestLFUPicksLowestCount(t *testing.T) {
	victim, ok := policy(t, eviction.LFU).SelectVictim([]*types.CacheEntry{
		entry("a", 0, 5*time.Second, 7),
		entry("b", 0, 9*time.Second, 2),
		entry("c", 0, 1*time.Second, 4),
	})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestLFUTieBreaksByRecency(t *testing.T) {
	// Equal counts: the one idle longest loses, even though it is not the
	// oldest insertion.
	victim, ok := policy(t, eviction.LFU).SelectVictim([]*types.CacheEntry{
		entry("a", 0, 20*time.Second, 3),
		entry("b", 10*time.Second, 12*time.Second, 3),
	})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestFIFOPicksOldestInsertion(t *testing.T) {
	// The oldest insertion has the newest access and the highest count, and
	// loses anyway: FIFO only looks at creation.
	victim, ok := policy(t, eviction.FIFO).SelectVictim([]*types.CacheEntry{
		entry("a", 1*time.Second, 60*time.Second, 99),
		entry("b", 30*time.Second, 31*time.Second, 0),
		entry("c", 20*time.Second, 21*time.Second, 0),
	})
	require.True(t, ok)
	assert.Equal(t, "a", victim)
}

func TestFullTiesFallBackToSmallestKey(t *testing.T) {
	// Identical bookkeeping everywhere: only the key distinguishes entries.
	same := func(keys ...string) []*types.CacheEntry {
		out := make([]*types.CacheEntry, 0, len(keys))
		for _, k := range keys {
			out = append(out, entry(k, time.Second, 2*time.Second, 1))
		}
		return out
	}

	for _, pt := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO} {
		victim, ok := policy(t, pt).SelectVictim(same("delta", "alpha", "charlie"))
		require.True(t, ok)
		assert.Equal(t, "alpha", victim, "%s must fall back to the smallest key", pt)
	}
}

func TestSelectionIsDeterministic(t *testing.T) {
	entries := []*types.CacheEntry{
		entry("d", 4*time.Second, 8*time.Second, 2),
		entry("a", 1*time.Second, 9*time.Second, 2),
		entry("c", 3*time.Second, 8*time.Second, 2),
		entry("b", 2*time.Second, 8*time.Second, 5),
	}

	for _, pt := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO} {
		p := policy(t, pt)
		first, ok := p.SelectVictim(entries)
		require.True(t, ok)
		for i := 0; i < 50; i++ {
			again, ok := p.SelectVictim(entries)
			require.True(t, ok)
			assert.Equal(t, first, again, "%s flip-flopped between victims", pt)
		}
	}
}

func TestSelectionIgnoresSliceOrder(t *testing.T) {
	forward := []*types.CacheEntry{
		entry("a", 0, 10*time.Second, 1),
		entry("b", 0, 20*time.Second, 1),
		entry("c", 0, 30*time.Second, 1),
	}
	reversed := []*types.CacheEntry{forward[2], forward[1], forward[0]}

	p := policy(t, eviction.LRU)
	v1, _ := p.SelectVictim(forward)
	v2, _ := p.SelectVictim(reversed)
	assert.Equal(t, v1, v2, "victim must depend on bookkeeping, not slice order")
	assert.Equal(t, "a", v1)
}
