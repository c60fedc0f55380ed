// Package metrics records conversion metrics. The Metrics interface keeps
// handlers independent of the backing system; PrometheusMetrics is the
// implementation used by the server.
//
// Usage:
//
//	m := metrics.NewPrometheusMetrics(prometheus.NewRegistry())
//	metrics.RegisterConversionMetrics(m)
//	metrics.ObserveConversion(m, metrics.OutcomeOK, time.Since(start))
package metrics

import "time"

type Metrics interface {
	Register(name, metricType, help string)
	Record(name string, value float64)
	RegisterWithLabels(name, metricType, help string, labels []string)
	RecordWithLabels(name string, value float64, labelValues ...string)
}

const (
	ConversionsTotal   = "amount2words_conversions_total"
	ConversionDuration = "amount2words_conversion_duration_seconds"
)

// Conversion outcomes, used as the "outcome" label value.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid_amount"
	OutcomeTooLarge = "amount_too_large"
)

// ConversionBuckets are the histogram buckets for ConversionDuration.
// A conversion is pure CPU work and normally finishes in microseconds.
var ConversionBuckets = []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2}

// RegisterConversionMetrics registers the conversion counter and duration
// histogram on m.
func RegisterConversionMetrics(m Metrics) {
	if p, ok := m.(*PrometheusMetrics); ok {
		p.SetCustomBuckets(ConversionDuration, ConversionBuckets)
	}
	m.RegisterWithLabels(ConversionsTotal, "Counter", "Amount conversions by outcome", []string{"outcome"})
	m.Register(ConversionDuration, "Histogram", "Time spent converting an amount to words")
}

// ObserveConversion counts one conversion with the given outcome and records
// its duration. A nil m is a no-op.
func ObserveConversion(m Metrics, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RecordWithLabels(ConversionsTotal, 1, outcome)
	m.Record(ConversionDuration, d.Seconds())
}
