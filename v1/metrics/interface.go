package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the contract implemented by *Metrics.
//
// Its first three methods line up with the observer interfaces declared by the
// database package, so a *Metrics can be handed to database.Options directly.
type MetricsCollector interface {
	// RecordConnectionUsage observes how long a pooled connection was borrowed.
	RecordConnectionUsage(ctx context.Context, target string, elapsed time.Duration)

	// RecordStatement counts a statement and observes its duration.
	RecordStatement(kind string, start time.Time, err error)

	// SetConnected sets the db_up gauge for a target.
	SetConnected(target string, connected bool)

	// CreateCounter creates a new CounterVec metric and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a new HistogramVec metric and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a new GaugeVec metric and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
