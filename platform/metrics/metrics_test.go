package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/properties/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/properties/:id", "204"))
	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/properties/:id", "204"))

	if after-before != 2 {
		t.Fatalf("expected 2 requests recorded under the route template, got %v", after-before)
	}
}

func TestObserveLeadTransition(t *testing.T) {
	counter := leadTransitions.WithLabelValues("agent", "Hot")
	before := testutil.ToFloat64(counter)
	ObserveLeadTransition("agent", "Hot")
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("expected one transition, got %v", got)
	}
}
