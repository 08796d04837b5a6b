package catalog

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"ensemble/pkg/component"
	"ensemble/pkg/system"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a component exposing prometheus metrics about the system it
// lives in. It owns its own registry, so several systems in one process do
// not collide; an httpserver component that depends on it mounts Handler
// under /metrics.
type Metrics struct {
	component.Base

	name     string
	registry *prometheus.Registry

	componentStarts prometheus.Counter
	componentStops  prometheus.Counter
	failures        *prometheus.CounterVec

	startedAt atomic.Int64 // unix nanos; zero while not started
}

// NewMetrics builds a metrics component. It takes no args.
func NewMetrics(name string, args map[string]interface{}) (*Metrics, error) {
	m := &Metrics{
		name:     name,
		registry: prometheus.NewRegistry(),
		componentStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ensemble_component_starts_total",
			Help: "Number of successful component starts observed.",
		}),
		componentStops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ensemble_component_stops_total",
			Help: "Number of successful component stops observed.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ensemble_component_failures_total",
			Help: "Number of failed component lifecycle transitions observed.",
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.componentStarts, m.componentStops, m.failures)
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ensemble_uptime_seconds",
		Help: "Seconds since the metrics component started.",
	}, func() float64 {
		started := m.startedAt.Load()
		if started == 0 {
			return 0
		}
		return time.Since(time.Unix(0, started)).Seconds()
	}))
	return m, nil
}

func (m *Metrics) Start(ctx context.Context, sys component.Lookup) error {
	m.startedAt.Store(time.Now().UnixNano())
	return nil
}

func (m *Metrics) Stop(ctx context.Context) error {
	m.startedAt.Store(0)
	return nil
}

// Observer returns a lifecycle observer that feeds the counters. Register it
// with system.WithObserver when constructing the system.
func (m *Metrics) Observer() system.Observer {
	return func(e system.Event) {
		switch e.Reason {
		case system.ReasonComponentStarted:
			m.componentStarts.Inc()
		case system.ReasonComponentStopped:
			m.componentStops.Inc()
		case system.ReasonComponentStartFailed:
			m.failures.WithLabelValues("start").Inc()
		case system.ReasonComponentStopFailed:
			m.failures.WithLabelValues("stop").Inc()
		}
	}
}

// Handler serves the component's registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
