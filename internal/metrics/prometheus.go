package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "perceptronix"

// Prometheus holds the collectors exported by perceptronix.
type Prometheus struct {
	Updates  *prometheus.CounterVec
	Mistakes *prometheus.CounterVec
	Epochs   *prometheus.CounterVec
	Records  *prometheus.CounterVec
	Bytes    *prometheus.CounterVec
}

// NewPrometheusMetrics creates unregistered collectors.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "train",
				Name:      "updates_total",
				Help:      "Training examples seen, by model variant.",
			}, []string{"variant"}),
		Mistakes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "train",
				Name:      "mistakes_total",
				Help:      "Training examples predicted wrongly, by model variant.",
			}, []string{"variant"}),
		Epochs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "train",
				Name:      "epochs_total",
				Help:      "Completed training epochs, by model variant.",
			}, []string{"variant"}),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "records_total",
				Help:      "Model records written or read, by operation and model type.",
			}, []string{"op", "model_type"}),
		Bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "bytes_total",
				Help:      "Encoded model bytes written or read, by operation.",
			}, []string{"op"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Updates, p.Mistakes, p.Epochs, p.Records, p.Bytes}
}
