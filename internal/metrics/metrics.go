// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/outbox"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Values of the stage label of order_events_failed_total.
const (
	StagePublish = "publish"
	StageDelete  = "delete"
)

// PublisherMetrics counts outbox handoffs by event type.
type PublisherMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewPublisherMetrics creates the publisher counters and registers them with reg.
func NewPublisherMetrics(reg prometheus.Registerer) (*PublisherMetrics, error) {
	m := &PublisherMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "Total number of order events accepted by the transport",
		}, []string{"event_type"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_events_failed_total",
			Help: "Total number of order events the transport rejected (stage=publish) or that stayed in the outbox after publishing (stage=delete)",
		}, []string{"event_type", "stage"}),
	}

	for _, c := range []prometheus.Collector{m.published, m.failed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *PublisherMetrics) EventPublished(eventType outbox.EventType) {
	m.published.WithLabelValues(eventType.String()).Inc()
}

func (m *PublisherMetrics) EventFailed(eventType outbox.EventType) {
	m.failed.WithLabelValues(eventType.String(), StagePublish).Inc()
}

func (m *PublisherMetrics) EventNotDeleted(eventType outbox.EventType) {
	m.failed.WithLabelValues(eventType.String(), StageDelete).Inc()
}

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates the HTTP collectors and registers them with reg.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Middleware observes every request. The route pattern is used as the path label to
// keep label cardinality bounded.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			m.requests.WithLabelValues(c.Request().Method, path, status).Inc()
			m.duration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
