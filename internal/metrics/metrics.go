// Package metrics holds the Prometheus collectors for the verification
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeEligible   = "eligible"
	OutcomeIneligible = "ineligible"
	OutcomeError      = "error"

	MRZDecoded       = "decoded"
	MRZNotRecognized = "not_recognized"
)

// Metrics provides observability for verification requests. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Verification outcomes: eligible, ineligible or error
	Verifications *prometheus.CounterVec

	// Latency of the OCR collaborator
	OCRLatency prometheus.Histogram

	// Distribution of overall confidence scores
	OverallConfidence prometheus.Histogram

	// Whether a TD3 MRZ could be decoded
	MRZDetected *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docverify_verifications_total",
			Help: "Total verification requests by outcome",
		}, []string{"outcome"}),

		OCRLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "docverify_ocr_duration_seconds",
			Help:    "Duration of text recognition calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		OverallConfidence: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "docverify_overall_confidence",
			Help:    "Overall confidence of completed verifications",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),

		MRZDetected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "docverify_mrz_detected_total",
			Help: "Verifications by MRZ decode result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Verifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveOCRLatency(d time.Duration) {
	if m != nil {
		m.OCRLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveConfidence(v int) {
	if m != nil {
		m.OverallConfidence.Observe(float64(v))
	}
}

// IncrementMRZ records whether the MRZ path was taken.
func (m *Metrics) IncrementMRZ(decoded bool) {
	if m == nil {
		return
	}
	result := MRZNotRecognized
	if decoded {
		result = MRZDecoded
	}
	m.MRZDetected.WithLabelValues(result).Inc()
}
