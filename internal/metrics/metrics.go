// Package metrics exposes validation counters through a Prometheus registry.
//
// There is no HTTP endpoint; the CLI writes the registry to a node_exporter
// style textfile when asked.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"workforce/internal/domain"
)

const namespace = "workforce"

// Recorder collects counters for classification and validation runs
type Recorder struct {
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	fallbacks       prometheus.Counter
	runs            *prometheus.CounterVec
	inconsistencies prometheus.Counter
	mismatches      prometheus.Counter
	lastValid       *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Positions classified, by resulting classification.",
		}, []string{"classification"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_classifications_total",
			Help:      "Positions classified by the heuristic fallback.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_runs_total",
			Help:      "Validation runs, by kind and outcome.",
		}, []string{"kind", "result"}),
		inconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inconsistencies_total",
			Help:      "Cross-page classification inconsistencies found.",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_mismatches_total",
			Help:      "Aggregation page mismatches found.",
		}),
		lastValid: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_valid",
			Help:      "1 if the last run of this kind was valid, else 0.",
		}, []string{"kind"}),
	}

	r.registry.MustRegister(
		r.classifications,
		r.fallbacks,
		r.runs,
		r.inconsistencies,
		r.mismatches,
		r.lastValid,
	)
	return r
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveClassification counts one classified position
func (r *Recorder) ObserveClassification(class domain.Classification, usedFallback bool) {
	if r == nil {
		return
	}
	r.classifications.WithLabelValues(string(class)).Inc()
	if usedFallback {
		r.fallbacks.Inc()
	}
}

// ObserveConsistency records a consistency run
func (r *Recorder) ObserveConsistency(report *domain.ValidationReport) {
	if r == nil || report == nil {
		return
	}
	r.observeRun("consistency", report.IsValid)
	r.inconsistencies.Add(float64(len(report.Inconsistencies)))
}

// ObserveAggregation records an aggregation run
func (r *Recorder) ObserveAggregation(result *domain.AggregationValidationResult) {
	if r == nil || result == nil {
		return
	}
	r.observeRun("aggregation", result.IsValid)
	r.mismatches.Add(float64(len(result.Mismatches)))
}

func (r *Recorder) observeRun(kind string, valid bool) {
	outcome, gauge := "invalid", 0.0
	if valid {
		outcome, gauge = "valid", 1.0
	}
	r.runs.WithLabelValues(kind, outcome).Inc()
	r.lastValid.WithLabelValues(kind).Set(gauge)
}

// WriteTextfile writes the registry in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
