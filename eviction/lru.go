// This file implements LRU eviction.

package eviction

import "github.com/memocache/memocache/types"

/*
lruPolicy evicts the entry with the smallest LastAccessedAt: the one nobody has
read for the longest time.

Tie-breaks, in order:
1. Smallest CreatedAt. Among entries read at the same instant, the oldest loses.
2. Smallest key. This only matters when the clock stood still for both fields
   (coarse clocks, manual test clocks), but it keeps selection fully
   deterministic where map iteration order is not.
*/
type lruPolicy struct{}

func (lruPolicy) SelectVictim(entries []*types.CacheEntry) (string, bool) {
	return selectBy(entries, func(a, b *types.CacheEntry) bool {
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.Before(b.LastAccessedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Key < b.Key
	})
}
