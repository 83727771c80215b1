package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/things/:id", "204"))
	if got != 1 {
		t.Fatalf("expected 1 request recorded, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.QuotaRejected()
	m.AppointmentCreated("client")
	m.Notification("sent")
	m.SubscriptionSynced("active")
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	m := New()
	m.QuotaRejected()
	m.Notification("dropped")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{"schedule_quota_rejections_total 1", `notifications_total{outcome="dropped"} 1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
