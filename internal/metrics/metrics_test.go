package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordSimulation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SimulationsTotal.WithLabelValues("quick", "success"))

	RecordSimulation("quick", "success", 0.002)

	assert.Equal(t, before+1, testutil.ToFloat64(SimulationsTotal.WithLabelValues("quick", "success")))
}

func TestRecordRetirement(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		kind string
	}{
		{name: "mechanical", kind: "mechanical"},
		{name: "racing", kind: "racing"},
		{name: "other", kind: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RetirementsTotal.WithLabelValues(tt.kind))
			RecordRetirement(tt.kind)
			assert.Equal(t, before+1, testutil.ToFloat64(RetirementsTotal.WithLabelValues(tt.kind)))
		})
	}
}

func TestRecordMonteCarlo(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(MonteCarloRunsTotal.WithLabelValues("monza"))

	RecordMonteCarlo("monza", 250, 1.2)

	assert.Equal(t, before+250, testutil.ToFloat64(MonteCarloRunsTotal.WithLabelValues("monza")))
}

func TestRecordDataFetchAndCache(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordDataFetch("ergast", "results", "failure", 0.3)
	})

	hits := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss"))
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("miss")))
}

func TestStreamGauge(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(ActiveStreams)

	StreamOpened()
	StreamOpened()
	StreamClosed()

	assert.Equal(t, before+1, testutil.ToFloat64(ActiveStreams))
	StreamClosed()
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordAPIRequest("/health", "200", 0.001)
	RecordPredictionStored()
	RecordScheduledJob("data_refresh", "success")

	handler := Handler()
	require.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pitwall_api_requests_total")
	assert.Contains(t, rec.Body.String(), "pitwall_predictions_stored_total")
}
