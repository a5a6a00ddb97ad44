package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordConnectionUsage observes the time a connection from target's pool was borrowed.
func (m *Metrics) RecordConnectionUsage(_ context.Context, target string, elapsed time.Duration) {
	m.connectionBorrowed.WithLabelValues(target).Observe(elapsed.Seconds())
}

// RecordStatement counts a statement of the given kind ("execute", "query")
// and records its duration.
// Example: defer func() { m.RecordStatement("query", start, err) }()
func (m *Metrics) RecordStatement(kind string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.statementsTotal.WithLabelValues(kind, status).Inc()
	m.statementDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// SetConnected sets db_up for target to 1 or 0.
func (m *Metrics) SetConnected(target string, connected bool) {
	value := 0.0
	if connected {
		value = 1
	}
	m.databaseUp.WithLabelValues(target).Set(value)
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}

func createGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}
