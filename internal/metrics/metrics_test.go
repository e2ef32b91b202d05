package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/mikey2020/docs-cabinet-cp2/internal/metrics"
)

func TestObserveDecision(t *testing.T) {
	before := testutil.ToFloat64(metrics.Decisions.WithLabelValues("read", "deny"))
	metrics.ObserveDecision("read", "deny")
	metrics.ObserveDecision("read", "deny")
	after := testutil.ToFloat64(metrics.Decisions.WithLabelValues("read", "deny"))
	require.Equal(t, before+2, after)
}

func TestHandler_ExposesCounters(t *testing.T) {
	e := echo.New()
	e.Use(metrics.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/metrics", metrics.Handler())

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	metrics.ObserveDecision("delete", "allow")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `docs_access_decisions_total{operation="delete",outcome="allow"}`)
	require.Contains(t, body, `docs_http_requests_total{method="GET",path="/ping",status_code="204"}`)
}
