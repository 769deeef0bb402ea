package types

import "time"

// CacheEntry is the unit of storage. The value is immutable once stored;
// the bookkeeping fields change on access, and only under the engine lock.
type CacheEntry struct {
	Key            string
	Value          any
	CreatedAt      time.Time // set at insertion, never mutated afterwards
	LastAccessedAt time.Time
	AccessCount    int64
}

// Touch records a hit: the entry was just read.
func (e *CacheEntry) Touch(now time.Time) {
	e.LastAccessedAt = now
	e.AccessCount++
}
