package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Checkout("placed")
	m.Checkout("placed")
	m.Checkout("rejected")
	m.LeadSync("config_missing")
	m.Artifact("pdf", true)
	m.Artifact("pdf", false)
	m.CoverFallback()
	m.PlanGenerated("premium")
	m.ObserveHTTP("GET", "/api/v1/cart", 200, 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.checkouts.WithLabelValues("placed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.checkouts.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.leadSync.WithLabelValues("config_missing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.artifacts.WithLabelValues("pdf", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.coverFallbacks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.planGenerations.WithLabelValues("premium")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Checkout("placed")
		m.LeadSync("ok")
		m.Artifact("text", true)
		m.CoverFallback()
		m.PlanGenerated("basic")
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
}
