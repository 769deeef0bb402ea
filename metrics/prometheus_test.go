package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersTrackEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "memocache", "test")

	p.Hit()
	p.Hit()
	p.Hit()
	p.Miss()
	p.Miss()
	p.Eviction()
	p.Expire()

	assert.Equal(t, float64(3), testutil.ToFloat64(p.hits))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.misses))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.evictions))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.expirations))
}

func TestMetricNamesCarryNamespaceAndSubsystem(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "memocache", "api")
	p.Hit()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"memocache_api_hits_total",
		"memocache_api_misses_total",
		"memocache_api_evictions_total",
		"memocache_api_expirations_total",
	} {
		assert.True(t, names[want], "missing metric family %s", want)
	}
}

func TestTwoCachesRegisterSideBySide(t *testing.T) {
	reg := prometheus.NewRegistry()

	// Different subsystems keep the metric names distinct, so one registry
	// can serve several caches.
	a := NewPrometheus(reg, "memocache", "sessions")
	b := NewPrometheus(reg, "memocache", "profiles")

	a.Hit()
	b.Miss()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 8)
}
