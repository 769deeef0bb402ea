// Package memocache is a bounded, policy-driven memoization cache.
//
// It remembers the results of expensive computations, keyed by the inputs
// that produced them, so repeating a call with equal inputs returns the
// stored result instead of recomputing. The cache holds at most a fixed
// number of entries, evicts by a pluggable policy (LRU, LFU, FIFO) when full,
// and optionally expires entries by age.
package memocache

import (
	"context"

	"github.com/memocache/memocache/types"
)

// ComputeFunc produces the value for a cache miss. See types.ComputeFunc.
type ComputeFunc = types.ComputeFunc

/*
Cache defines the PUBLIC API of the memoization cache.
This is a contract that guarantees certain behaviors without exposing
internals. All of the details (key derivation, eviction, expiration,
concurrency, notification delivery) are hidden behind this interface.

Both implementations satisfy it: MemoCache, the single-store cache with exact
global eviction, and ShardedCache, which trades exactness for less lock
contention.
*/
type Cache interface {

	/*
		GetOrCompute returns the value for the given input sequence.

		BEHAVIOR:
		---------
		1. If the inputs map to a live entry:
		   - Return the stored value immediately (cache hit)
		   - compute is NOT called

		2. If the inputs map to nothing, or only to an expired entry:
		   - Run compute (cache miss)
		   - Store the result, evicting one victim first if the cache is full
		   - Return the result

		Errors from key derivation and from compute come back unchanged, and
		neither stores anything: a failed computation is never served from
		cache.
	*/
	GetOrCompute(ctx context.Context, inputs []any, compute ComputeFunc) (any, error)

	/*
		Contains reports whether the inputs currently map to a live entry.

		This is a pure peek: it does not count as an access, so probing does
		not distort LRU or LFU decisions, and it removes nothing. Inputs that
		cannot be derived into a key report false.
	*/
	Contains(inputs []any) bool

	// Size returns the number of stored entries. Expired entries still count
	// until a lookup or sweep removes them.
	Size() int

	// Stats returns a snapshot of the activity counters.
	Stats() Stats

	/*
		Invalidate removes the entry for the inputs immediately.

		USE CASES:
		----------
		- The underlying data changed and the memoized result is now wrong
		- Administrative cleanup

		This operation is idempotent: invalidating an absent entry is safe and
		reports false. Manual removal is not an eviction, so no eviction
		notification fires.
	*/
	Invalidate(inputs []any) bool

	// Clear removes every entry at once, without notifications.
	Clear()

	/*
		Close gracefully shuts the cache down.

		BEHAVIOR:
		---------
		- Stops background goroutines (janitor, async notification worker)
		- Flushes queued eviction notifications
		- Drops all entries silently

		WHEN TO CALL:
		-------------
		- Application shutdown
		- Tests cleanup

		The cache must not be used after Close. Close is idempotent.
	*/
	Close()
}
