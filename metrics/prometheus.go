/*
Package metrics exports cache activity to Prometheus.

The cache core only knows the small types.Metrics interface; this package is
the adapter that turns those events into Prometheus counters. Keeping it in
its own package means programs that do not scrape metrics do not pull the
Prometheus client into their build.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/memocache/memocache/types"
)

// Prometheus implements types.Metrics with Prometheus counters.
type Prometheus struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	evictions   prometheus.Counter
	expirations prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the cache counters and registers them on reg (the
// default registerer when reg is nil). Namespace and subsystem become the
// metric name prefix, so two caches in one process can register side by side.
func NewPrometheus(reg prometheus.Registerer, namespace, subsystem string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hits_total",
			Help:      "Number of lookups served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misses_total",
			Help:      "Number of lookups that had to compute.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evictions_total",
			Help:      "Number of entries evicted to make room.",
		}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "expirations_total",
			Help:      "Number of entries removed because they outlived their TTL.",
		}),
	}
	reg.MustRegister(p.hits, p.misses, p.evictions, p.expirations)
	return p
}

func (p *Prometheus) Hit()      { p.hits.Inc() }
func (p *Prometheus) Miss()     { p.misses.Inc() }
func (p *Prometheus) Eviction() { p.evictions.Inc() }
func (p *Prometheus) Expire()   { p.expirations.Inc() }
