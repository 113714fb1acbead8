package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesBookkeepingCounters(t *testing.T) {
	m := NewMetrics()
	m.EntryPosted()
	m.EntryPosted()
	m.EntryReversed()
	m.ValidationFailed()
	m.IdempotentReplay()

	body := scrape(t, m)
	assert.Contains(t, body, "ledger_entries_posted_total 2")
	assert.Contains(t, body, "ledger_entries_reversed_total 1")
	assert.Contains(t, body, "ledger_entry_validation_failures_total 1")
	assert.Contains(t, body, "ledger_idempotent_replays_total 1")
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/accounts/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/accounts/abc", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `ledger_http_requests_total{code="418",method="GET",route="/accounts/:id"} 1`)
	assert.Contains(t, body, `ledger_http_request_duration_seconds_bucket{route="/accounts/:id"`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.EntryPosted()
	m.IdempotentReplay()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
