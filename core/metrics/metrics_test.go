package metrics

import (
	"net/http/httptest"
	"testing"

	"route-publisher/core/publish"
	"route-publisher/core/reconcile"
	"route-publisher/core/routestore"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ publish.Observer        = (*Recorder)(nil)
	_ reconcile.Observer      = (*Recorder)(nil)
	_ routestore.ReadObserver = (*Recorder)(nil)
)

func TestRecorder_Publish(t *testing.T) {
	rec := NewRecorder(nil)
	rec.PublishAttempt(publish.AttemptMismatch)
	rec.PublishAttempt(publish.AttemptVerified)
	rec.PublishFinished(true, 2)

	families := gather(t, rec,
		"route_publisher_publish_attempts_total",
		"route_publisher_publish_results_total",
		"route_publisher_publish_attempts_per_publish",
	)

	for _, outcome := range []string{"mismatch", "verified"} {
		metric := findMetric(t, families["route_publisher_publish_attempts_total"], map[string]string{"outcome": outcome})
		assert.Equal(t, 1.0, metric.GetCounter().GetValue(), outcome)
	}
	success := findMetric(t, families["route_publisher_publish_results_total"], map[string]string{"result": "success"})
	assert.Equal(t, 1.0, success.GetCounter().GetValue())

	hist := families["route_publisher_publish_attempts_per_publish"][0].GetHistogram()
	require.NotNil(t, hist)
	assert.Equal(t, uint64(1), hist.GetSampleCount())
	assert.Equal(t, 2.0, hist.GetSampleSum())
}

func TestRecorder_Diagnoses(t *testing.T) {
	rec := NewRecorder(nil)
	rec.Diagnosed(reconcile.DiagnosisStaleVersion)
	rec.Diagnosed(reconcile.DiagnosisStaleVersion)
	rec.Diagnosed(reconcile.DiagnosisMatch)
	rec.Repaired(true)
	rec.Repaired(false)

	families := gather(t, rec, "route_publisher_routes_diagnoses_total", "route_publisher_routes_repairs_total")

	stale := findMetric(t, families["route_publisher_routes_diagnoses_total"], map[string]string{"code": "KV_STALE_VERSION"})
	assert.Equal(t, 2.0, stale.GetCounter().GetValue())
	match := findMetric(t, families["route_publisher_routes_diagnoses_total"], map[string]string{"code": "MATCH"})
	assert.Equal(t, 1.0, match.GetCounter().GetValue())

	failed := findMetric(t, families["route_publisher_routes_repairs_total"], map[string]string{"result": "false"})
	assert.Equal(t, 1.0, failed.GetCounter().GetValue())
}

func TestRecorder_StoreReadFailed(t *testing.T) {
	rec := NewRecorder(nil)
	rec.StoreReadFailed("get")
	rec.StoreReadFailed(" ")

	families := gather(t, rec, "route_publisher_routestore_read_failures_total")
	for _, op := range []string{"get", "unknown"} {
		metric := findMetric(t, families["route_publisher_routestore_read_failures_total"], map[string]string{"op": op})
		assert.Equal(t, 1.0, metric.GetCounter().GetValue(), op)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.PublishAttempt(publish.AttemptWriteError)
		rec.PublishFinished(false, 3)
		rec.Diagnosed(reconcile.DiagnosisMatch)
		rec.Repaired(true)
		rec.StoreReadFailed("exists")
	})

	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 503, rr.Code)
}

func TestRecorder_Handler(t *testing.T) {
	rec := NewRecorder(nil)
	rec.PublishFinished(false, 3)

	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rr.Code)
	assert.Contains(t, rr.Body.String(), `route_publisher_publish_results_total{result="exhausted"} 1`)
}

func gather(t *testing.T, rec *Recorder, names ...string) map[string][]*dto.Metric {
	t.Helper()
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)

	collected := make(map[string][]*dto.Metric, len(names))
	for _, mf := range families {
		if wanted[mf.GetName()] {
			collected[mf.GetName()] = append(collected[mf.GetName()], mf.GetMetric()...)
		}
	}
	for _, name := range names {
		require.NotEmpty(t, collected[name], "metric %q not collected", name)
	}
	return collected
}

func findMetric(t *testing.T, metrics []*dto.Metric, labels map[string]string) *dto.Metric {
	t.Helper()
	for _, metric := range metrics {
		if matchLabels(metric, labels) {
			return metric
		}
	}
	t.Fatalf("metric with labels %v not found", labels)
	return nil
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	for key, expected := range labels {
		found := false
		for _, label := range metric.GetLabel() {
			if label.GetName() == key && label.GetValue() == expected {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
