package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/history", 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/history", 200, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{endpoint="/api/history",method="GET",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{endpoint="unmatched",method="GET",status="404"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_count{endpoint="/api/history",method="GET"} 2`)
}

func TestObserveJob(t *testing.T) {
	m := New()
	m.ObserveJob("record_result", nil)
	m.ObserveJob("record_result", errors.New("boom"))

	body := scrape(t, m)
	assert.Contains(t, body, `worker_jobs_processed_total{job="record_result",result="ok"} 1`)
	assert.Contains(t, body, `worker_jobs_processed_total{job="record_result",result="error"} 1`)
}

func TestTrackQueueDepth(t *testing.T) {
	m := New()
	depth := 4
	m.TrackQueueDepth("results", func() int { return depth })

	assert.Contains(t, scrape(t, m), `worker_queue_depth{pool="results"} 4`)
	depth = 1
	assert.Contains(t, scrape(t, m), `worker_queue_depth{pool="results"} 1`)
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.SessionsStarted.WithLabelValues("tutor").Inc()
	m.ActiveSessions.Set(2)

	body := scrape(t, m)
	assert.Contains(t, body, `practice_sessions_started_total{mode="tutor"} 1`)
	assert.Contains(t, body, "practice_sessions_active 2")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ActiveSessions.Set(3)
	assert.Contains(t, scrape(t, b), "practice_sessions_active 0")
}
