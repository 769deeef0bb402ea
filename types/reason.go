package types

// EvictReason explains why the cache removed an entry on its own.
// Manual removal (Invalidate, Clear, Close) never carries a reason because it
// is the caller's decision, not the cache's.
type EvictReason int

const (
	// ReasonExpired: the entry outlived the configured TTL.
	ReasonExpired EvictReason = iota

	// ReasonCapacity: the cache was full and the eviction policy chose this
	// entry as the victim to make room for a new key.
	ReasonCapacity
)

func (r EvictReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}
