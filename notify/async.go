package notify

import "sync"

// This file implements asynchronous notification delivery.

/*
Async delivers events through a buffered channel and one background worker.

Buffering is important:
- Bursts of evictions do not stall the engine waiting on the observer
- A slow observer only delays other notifications, never cache operations

If the buffer is full the event is DROPPED rather than queued unboundedly or
blocking. This means:
- The cache stays fast no matter what the observer does
- The observer may miss some events under sustained pressure

Applications that must see every single eviction use synchronous delivery.
*/
type Async struct {
	sink Sink
	ch   chan Event
	wg   sync.WaitGroup
}

// NewAsync starts the delivery worker. buffer must be positive.
func NewAsync(sink Sink, buffer int) *Async {
	a := &Async{
		sink: sink,
		ch:   make(chan Event, buffer),
	}
	a.wg.Add(1)
	go a.worker()
	return a
}

// Dispatch queues the event, or drops it when the buffer is full.
func (a *Async) Dispatch(ev Event) {
	select {
	case a.ch <- ev:
		// queued successfully
	default:
		// intentional drop under pressure
	}
}

// worker runs in the background and hands queued events to the sink, one at a
// time and in dispatch order.
func (a *Async) worker() {
	defer a.wg.Done()
	for ev := range a.ch {
		if a.sink != nil {
			a.sink(ev)
		}
	}
}

/*
Close shuts delivery down gracefully:
1. Close the channel (no more events accepted)
2. Wait for the worker to finish delivering what was already queued

Without the second step, notifications still sitting in the buffer would be
lost on shutdown.
*/
func (a *Async) Close() {
	close(a.ch)
	a.wg.Wait()
}
