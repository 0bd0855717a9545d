package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/neos/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/neos/:id", "GET", "200"))

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/neos/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/neos/:id", "GET", "200"))
	if after-before != 3 {
		t.Errorf("Expected 3 requests under one label, got %v", after-before)
	}
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wp-admin", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("other", "GET", "404"))
	if after-before != 1 {
		t.Errorf("Expected unmatched path counted as other, got %v", after-before)
	}
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("feed", OutcomeRateLimit))
	ObserveUpstream("feed", OutcomeRateLimit, 120*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("feed", OutcomeRateLimit))
	if after-before != 1 {
		t.Errorf("Expected counter to increase by 1, got %v", after-before)
	}
}

func TestGauges(t *testing.T) {
	SetActiveDashboards(4)
	if v := testutil.ToFloat64(activeDashboards); v != 4 {
		t.Errorf("Expected 4 active dashboards, got %v", v)
	}

	before := testutil.ToFloat64(staleResultsTotal)
	IncStaleResults()
	if v := testutil.ToFloat64(staleResultsTotal); v-before != 1 {
		t.Errorf("Expected stale counter to increase by 1, got %v", v-before)
	}
}
