package notify

import "github.com/memocache/memocache/types"

/*
This file defines how eviction notifications travel from the engine to the
application's observer.

Deciding WHAT to evict and telling someone ABOUT it are different concerns
with different performance profiles, so delivery is pluggable:

- Sync calls the observer inline. Ordering is exact: the observer sees the
  victim before the replacement entry is stored. This is the default.
- Async (see async.go) hands events to a background worker, for observers too
  slow for the hot path. Ordering relative to store writes is no longer
  guaranteed, and events are dropped when the buffer fills.
*/

// Event describes one removal the cache decided on its own.
type Event struct {
	Key    string
	Value  any
	Reason types.EvictReason
}

// Sink consumes delivered events. The cache wires this to the user's OnEvict
// hook.
type Sink func(Event)

// Dispatcher moves events from the engine to the sink.
type Dispatcher interface {
	Dispatch(Event)

	// Close stops delivery. Implementations with a queue flush what is
	// already queued before returning.
	Close()
}

/*
Sync delivers inline, on the goroutine that evicted the entry. The engine
invokes Dispatch while holding its lock, so the sink inherits the "be fast,
never reenter the cache" rule from hooks.Hooks.
*/
type Sync struct {
	sink Sink
}

func NewSync(sink Sink) *Sync {
	return &Sync{sink: sink}
}

func (s *Sync) Dispatch(ev Event) {
	if s.sink != nil {
		s.sink(ev)
	}
}

// Close is required by the Dispatcher interface. Sync delivery has no queue
// and no worker, so there is nothing to clean up.
func (s *Sync) Close() {}
