package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache calls these
methods whenever something happens; implementations forward the events to
whatever backend the application uses (Prometheus, expvar, plain counters).
*/
type Metrics interface {

	// Hit is called when a lookup finds a live entry and returns its value.
	Hit()

	// Miss is called when a lookup finds nothing usable and a computation starts.
	Miss()

	// Eviction is called when an entry is removed because the cache is full
	// and needs space for a new key.
	Eviction()

	// Expire is called when an entry is removed because it outlived its TTL.
	Expire()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache
to implement metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation
that simply ignores all metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
