// Package metrics exports training and persistence counters to prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operations recorded by Metrics.Record.
const (
	OpWrite = "write"
	OpRead  = "read"
)

// Observer is the process-wide metrics sink. It is not registered until
// Register is called.
var Observer = New()

// Metrics records training and persistence events.
type Metrics struct {
	prometheus Prometheus
}

// New creates a Metrics with its own unregistered collectors.
func New() *Metrics {
	return &Metrics{prometheus: NewPrometheusMetrics()}
}

// Register registers every collector with reg. Collectors already
// registered with reg are not an error.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.prometheus.collectors() {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// Update records one training example and whether it was predicted correctly.
func (m *Metrics) Update(variant string, correct bool) {
	m.prometheus.Updates.WithLabelValues(variant).Inc()
	if !correct {
		m.prometheus.Mistakes.WithLabelValues(variant).Inc()
	}
}

// Epoch records a completed pass over the training data.
func (m *Metrics) Epoch(variant string) {
	m.prometheus.Epochs.WithLabelValues(variant).Inc()
}

// Record records one model record of n bytes moving in direction op.
func (m *Metrics) Record(op, modelType string, n int) {
	m.prometheus.Records.WithLabelValues(op, modelType).Inc()
	m.prometheus.Bytes.WithLabelValues(op).Add(float64(n))
}

// Handler returns an HTTP handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
