package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ergebnis-Labels für verarbeitete Records.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeProcessingError = "processing_error"
	OutcomeDropped         = "dropped"
)

// Metrics bündelt die Prometheus-Metriken des Dienstes.
type Metrics struct {
	Records       *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	TermsLoaded   prometheus.Gauge
	TermReloads   *prometheus.CounterVec
}

// NewMetrics erstellt die Metriken und registriert sie bei reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skill_records_processed_total",
				Help: "Total number of records processed, by skill and outcome.",
			},
			[]string{"skill", "outcome"},
		),
		BatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skill_batch_duration_seconds",
				Help:    "Time spent processing one batch, by skill.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"skill"},
		),
		TermsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reference_terms_loaded",
				Help: "Number of reference terms in the active term index.",
			},
		),
		TermReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reference_terms_reloads_total",
				Help: "Total number of term index reloads, by result.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Records, m.BatchDuration, m.TermsLoaded, m.TermReloads)
	return m
}
