// Package metrics exposes the Prometheus counters and histograms that
// track the admission and OCR pipelines (spec §4.F, §4.H). Each Metrics
// instance owns a private registry so constructing more than one in the
// same process - as the workflow package's tests do, one per test - never
// trips Prometheus's duplicate-registration panic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the workflow layer increments.
type Metrics struct {
	registry *prometheus.Registry

	AdmissionVerifications *prometheus.CounterVec
	AdmissionApprovals     *prometheus.CounterVec
	OCRJobs                *prometheus.CounterVec
	OCRConfidence          prometheus.Histogram
}

// New builds a Metrics bound to a fresh, private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AdmissionVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "olympiadqr_admission_verifications_total",
			Help: "Admission token verifications, labeled by outcome (allow, deny, error).",
		}, []string{"outcome"}),
		AdmissionApprovals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "olympiadqr_admission_approvals_total",
			Help: "Admission approvals, labeled by outcome (success, error).",
		}, []string{"outcome"}),
		OCRJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "olympiadqr_ocr_jobs_total",
			Help: "OCR scan jobs processed, labeled by outcome (auto_applied, needs_review, error).",
		}, []string{"outcome"}),
		OCRConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "olympiadqr_ocr_confidence",
			Help:    "Confidence score reported by the OCR engine for recognized score fields.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// Handler serves this instance's registry in the Prometheus exposition
// format, for mounting at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
