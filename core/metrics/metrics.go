package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"route-publisher/core/publish"
	"route-publisher/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "route_publisher"

// Recorder publishes Prometheus metrics for publishes, diagnoses and route
// store reads. It satisfies publish.Observer, reconcile.Observer and
// routestore.ReadObserver. A nil *Recorder is a no-op.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	publishAttempts *prometheus.CounterVec
	publishResults  *prometheus.CounterVec
	publishTries    prometheus.Histogram

	diagnoses *prometheus.CounterVec
	repairs   *prometheus.CounterVec

	storeReadFailures *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a dedicated
// registry is created so multiple recorders can coexist without conflicting with
// the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	publishAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "attempts_total",
		Help:      "Route write+verify attempts by outcome.",
	}, []string{"outcome"})

	publishResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "results_total",
		Help:      "Finished route publishes by result.",
	}, []string{"result"})

	publishTries := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "attempts_per_publish",
		Help:      "Attempts needed by each finished route publish.",
		Buckets:   []float64{1, 2, 3, 4, 5, 8},
	})

	diagnoses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routes",
		Name:      "diagnoses_total",
		Help:      "Route consistency diagnoses by code.",
	}, []string{"code"})

	repairs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routes",
		Name:      "repairs_total",
		Help:      "Route repairs by result.",
	}, []string{"result"})

	storeReadFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routestore",
		Name:      "read_failures_total",
		Help:      "Route store reads absorbed as cache misses.",
	}, []string{"op"})

	reg.MustRegister(publishAttempts, publishResults, publishTries, diagnoses, repairs, storeReadFailures)

	return &Recorder{
		gatherer:          reg,
		handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		publishAttempts:   publishAttempts,
		publishResults:    publishResults,
		publishTries:      publishTries,
		diagnoses:         diagnoses,
		repairs:           repairs,
		storeReadFailures: storeReadFailures,
	}
}

// Handler exposes the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Gatherer returns the underlying Prometheus gatherer for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// PublishAttempt counts one write+verify attempt.
func (r *Recorder) PublishAttempt(outcome publish.AttemptOutcome) {
	if r == nil {
		return
	}
	r.publishAttempts.WithLabelValues(normalizeLabel(string(outcome))).Inc()
}

// PublishFinished counts a finished publish and the attempts it took.
func (r *Recorder) PublishFinished(verified bool, attempts int) {
	if r == nil {
		return
	}
	result := "exhausted"
	if verified {
		result = "success"
	}
	r.publishResults.WithLabelValues(result).Inc()
	r.publishTries.Observe(float64(attempts))
}

// Diagnosed counts a diagnosis code.
func (r *Recorder) Diagnosed(code reconcile.DiagnosisCode) {
	if r == nil {
		return
	}
	r.diagnoses.WithLabelValues(normalizeLabel(string(code))).Inc()
}

// Repaired counts a finished repair.
func (r *Recorder) Repaired(success bool) {
	if r == nil {
		return
	}
	r.repairs.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// StoreReadFailed counts a route store read that was absorbed.
func (r *Recorder) StoreReadFailed(op string) {
	if r == nil {
		return
	}
	r.storeReadFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
