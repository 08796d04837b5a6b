package catalog

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"ensemble/pkg/system"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, recorder.Code)
	return recorder.Body.String()
}

func TestMetricsObserverCountsLifecycleEvents(t *testing.T) {
	m, err := NewMetrics("metrics", nil)
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background(), nil))

	observer := m.Observer()
	observer(system.Event{Reason: system.ReasonComponentStarted, Key: "db"})
	observer(system.Event{Reason: system.ReasonComponentStarted, Key: "api"})
	observer(system.Event{Reason: system.ReasonComponentStopped, Key: "api"})
	observer(system.Event{Reason: system.ReasonComponentStartFailed, Key: "cache", Err: errors.New("boom")})
	observer(system.Event{Reason: system.ReasonComponentStopFailed, Key: "db", Err: errors.New("boom")})
	// System-level events do not touch the counters.
	observer(system.Event{Reason: system.ReasonSystemStarted})

	body := scrape(t, m)
	assert.Contains(t, body, "ensemble_component_starts_total 2")
	assert.Contains(t, body, "ensemble_component_stops_total 1")
	assert.Contains(t, body, `ensemble_component_failures_total{op="start"} 1`)
	assert.Contains(t, body, `ensemble_component_failures_total{op="stop"} 1`)
}

func TestMetricsUptimeGauge(t *testing.T) {
	m, err := NewMetrics("metrics", nil)
	require.NoError(t, err)

	assert.Contains(t, scrape(t, m), "ensemble_uptime_seconds 0")

	require.NoError(t, m.Start(context.Background(), nil))
	assert.Contains(t, scrape(t, m), "ensemble_uptime_seconds")

	require.NoError(t, m.Stop(context.Background()))
	assert.Contains(t, scrape(t, m), "ensemble_uptime_seconds 0")
}
