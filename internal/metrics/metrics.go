package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter           *prometheus.CounterVec
	RequestDurationHistogram *prometheus.HistogramVec

	QuotaRejections     prometheus.Counter
	AppointmentsCreated *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
	SubscriptionSyncs   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		QuotaRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_quota_rejections_total",
			Help: "Schedule blocks rejected by the free weekly quota",
		}),
		AppointmentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointments_created_total",
				Help: "Appointments created, by booking path",
			},
			[]string{"path"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notifications by outcome (sent, failed, dropped)",
			},
			[]string{"outcome"},
		),
		SubscriptionSyncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_sync_total",
				Help: "Subscription links reconciled, by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDurationHistogram,
		m.QuotaRejections,
		m.AppointmentsCreated,
		m.Notifications,
		m.SubscriptionSyncs,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) QuotaRejected() {
	if m == nil {
		return
	}
	m.QuotaRejections.Inc()
}

func (m *Metrics) AppointmentCreated(path string) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(path).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SubscriptionSynced(result string) {
	if m == nil {
		return
	}
	m.SubscriptionSyncs.WithLabelValues(result).Inc()
}

// Middleware records request count and latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		m.RequestCounter.WithLabelValues(method, path, status).Inc()
		m.RequestDurationHistogram.WithLabelValues(method, path, status).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
