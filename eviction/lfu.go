// This file implements LFU eviction.

package eviction

import "github.com/memocache/memocache/types"

/*
lfuPolicy evicts the entry with the smallest AccessCount. A brand new entry has
count zero, so fresh entries lose to anything that was ever read; the policy
favors keys with a proven record over keys that merely arrived recently.

Tie-breaks: least recently read among the equally infrequent, then smallest
key as the deterministic last resort.
*/
type lfuPolicy struct{}

func (lfuPolicy) SelectVictim(entries []*types.CacheEntry) (string, bool) {
	return selectBy(entries, func(a, b *types.CacheEntry) bool {
		if a.AccessCount != b.AccessCount {
			return a.AccessCount < b.AccessCount
		}
		if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
			return a.LastAccessedAt.Before(b.LastAccessedAt)
		}
		return a.Key < b.Key
	})
}
