package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification service.
// Tracks case lifecycle counts and per-operation durations.
type Metrics struct {
	CasesCreated      *prometheus.CounterVec
	CasesSubmitted    prometheus.Counter
	CasesDecided      *prometheus.CounterVec
	DocumentsUploaded *prometheus.CounterVec
	SubmitRejected    prometheus.Counter
	OperationDuration *prometheus.HistogramVec
}

// New registers the verification metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CasesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyflow_cases_created_total",
			Help: "Total number of cases created, by case type",
		}, []string{"case_type"}),
		CasesSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "verifyflow_cases_submitted_total",
			Help: "Total number of cases submitted for review",
		}),
		CasesDecided: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyflow_cases_decided_total",
			Help: "Total number of reviewer decisions, by decision",
		}, []string{"decision"}),
		DocumentsUploaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verifyflow_documents_uploaded_total",
			Help: "Total number of accepted document uploads, by document type",
		}, []string{"document_type"}),
		SubmitRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "verifyflow_submissions_rejected_total",
			Help: "Submissions refused because the case failed validation",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verifyflow_case_operation_duration_seconds",
			Help:    "Duration of verification service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementCreated(caseType string) {
	m.CasesCreated.WithLabelValues(caseType).Inc()
}

func (m *Metrics) IncrementSubmitted() {
	m.CasesSubmitted.Inc()
}

func (m *Metrics) IncrementSubmitRejected() {
	m.SubmitRejected.Inc()
}

func (m *Metrics) IncrementDecided(decision string) {
	m.CasesDecided.WithLabelValues(decision).Inc()
}

func (m *Metrics) IncrementUploaded(documentType string) {
	m.DocumentsUploaded.WithLabelValues(documentType).Inc()
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
