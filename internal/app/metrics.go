package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "stoicquote"

// Refresh and copy outcomes used as the "result" label.
const (
	resultSuccess  = "success"
	resultError    = "error"
	resultRejected = "rejected"
)

// Metrics holds the controller's Prometheus collectors.
type Metrics struct {
	refreshTotal  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	inFlight      prometheus.Gauge
	copyTotal     *prometheus.CounterVec
}

// NewMetrics creates the controller collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered by
// another controller on the same registry are shared.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refresh_total",
			Help:      "Refresh requests by outcome: success, error or rejected while a fetch was in flight.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent waiting on the upstream quote API.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_in_flight",
			Help:      "Quote fetches outstanding across controllers sharing the registry.",
		}),
		copyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "copy_total",
			Help:      "Clipboard copy attempts by outcome.",
		}, []string{"result"}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.refreshTotal, err = register(reg, m.refreshTotal); err != nil {
		return nil, err
	}
	if m.fetchDuration, err = register(reg, m.fetchDuration); err != nil {
		return nil, err
	}
	if m.inFlight, err = register(reg, m.inFlight); err != nil {
		return nil, err
	}
	if m.copyTotal, err = register(reg, m.copyTotal); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}
