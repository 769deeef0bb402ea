package eviction

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

import (
	"fmt"

	"github.com/memocache/memocache/types"
)

/*
Policy is the interface that all eviction strategies must follow.

A policy here is a stateless, pure function over the entries' bookkeeping
fields (creation time, last access time, access count). It keeps no mirror of
the store, so there is no second data structure that can drift out of sync
with it, and given identical store contents every policy always returns the
same victim. No randomness, no hidden state: eviction decisions are
reproducible in tests.

The engine does NOT care how a victim is chosen. It only calls SelectVictim
when the store is full and a key that is not already present must be inserted,
then removes whatever key comes back.
*/
type Policy interface {

	// SelectVictim picks the key to evict. ok is false only when entries is
	// empty, which the engine never lets happen for a full cache.
	SelectVictim(entries []*types.CacheEntry) (key string, ok bool)
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the key that has NOT been read for the
	// longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): evicts the key that has been read the
	// fewest times. This works well when:
	// - Some keys are consistently hot
	// - Some keys are rarely used
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): evicts the oldest inserted key, regardless of
	// access patterns.
	FIFO PolicyType = "FIFO"
)

// New is a small factory function. Given a PolicyType, it creates the correct
// eviction policy. Unknown types are a configuration error, reported at
// construction time rather than at the first eviction.
func New(t PolicyType) (Policy, error) {
	switch t {
	case LRU:
		return lruPolicy{}, nil
	case LFU:
		return lfuPolicy{}, nil
	case FIFO:
		return fifoPolicy{}, nil
	default:
		return nil, fmt.Errorf("eviction: unknown policy %q", t)
	}
}

// selectBy scans entries and returns the key of the minimum entry according
// to less. All three policies are "find the minimum" under a different
// ordering, so they share the scan.
func selectBy(entries []*types.CacheEntry, less func(a, b *types.CacheEntry) bool) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	victim := entries[0]
	for _, ent := range entries[1:] {
		if less(ent, victim) {
			victim = ent
		}
	}
	return victim.Key, true
}
