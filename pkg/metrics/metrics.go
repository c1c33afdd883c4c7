// Package metrics records counters for a corpus upgrade run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clse_upgrade"

// Metrics holds the run's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead             *prometheus.CounterVec
	RowsWritten          prometheus.Counter
	AttributesParsed     prometheus.Counter
	AttributesDiscovered prometheus.Gauge
	Duration             *prometheus.GaugeVec
	LastSuccess          prometheus.Gauge
}

// New creates and registers the run collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Corpus rows read, by pass.",
		}, []string{"pass"}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to the output table.",
		}),
		AttributesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attributes_parsed_total",
			Help:      "Attribute values parsed from signatures during discovery.",
		}),
		AttributesDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attributes_discovered",
			Help:      "Size of the attribute vocabulary.",
		}),
		Duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per stage.",
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	m.Registry.MustRegister(
		m.RowsRead,
		m.RowsWritten,
		m.AttributesParsed,
		m.AttributesDiscovered,
		m.Duration,
		m.LastSuccess,
	)
	return m
}

// ObserveStage records how long stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.Duration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// MarkSuccess stamps the completion time.
func (m *Metrics) MarkSuccess() {
	m.LastSuccess.SetToCurrentTime()
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
