// This file implements FIFO eviction.

package eviction

import "github.com/memocache/memocache/types"

/*
fifoPolicy evicts the entry with the smallest CreatedAt: the oldest insertion.
Reads are ignored completely, so even the hottest key gets evicted once it is
the oldest one standing.

Entries can only tie on CreatedAt when the clock's resolution is coarser than
the insertion rate; the smallest key loses then, which is arbitrary but
deterministic.
*/
type fifoPolicy struct{}

func (fifoPolicy) SelectVictim(entries []*types.CacheEntry) (string, bool) {
	return selectBy(entries, func(a, b *types.CacheEntry) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Key < b.Key
	})
}
