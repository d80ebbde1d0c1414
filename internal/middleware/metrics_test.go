package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"laine/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Metrics)
	e.GET("/things/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/broken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})

	ok := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/things/:id", "204")
	broken := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/broken", "418")
	okBefore, brokenBefore := testutil.ToFloat64(ok), testutil.ToFloat64(broken)

	for _, target := range []string{"/things/1", "/things/2", "/broken"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, brokenBefore+1, testutil.ToFloat64(broken))
}
