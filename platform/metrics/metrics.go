// Package metrics exposes Prometheus collectors for the API and scheduler.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estate_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	catalogQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_catalog_queries_total",
		Help: "Catalog queries by evaluation mode and cache result",
	}, []string{"mode", "cache"})

	leadTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_lead_status_transitions_total",
		Help: "Lead status changes by vocabulary and target status",
	}, []string{"vocabulary", "status"})

	tourTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_tour_status_transitions_total",
		Help: "Tour status changes by target status",
	}, []string{"status"})

	tourReminders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_tour_reminders_total",
		Help: "Tour reminder tasks by outcome",
	}, []string{"result"})
)

// Cache results for ObserveCatalogQuery.
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheDisabled = "disabled"
)

// Results for ObserveTourReminder.
const (
	ReminderScheduled = "scheduled"
	ReminderSent      = "sent"
	ReminderSkipped   = "skipped"
	ReminderFailed    = "failed"
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// ObserveCatalogQuery counts a catalog search.
func ObserveCatalogQuery(mode, cache string) {
	catalogQueries.WithLabelValues(mode, cache).Inc()
}

// ObserveLeadTransition counts a lead status change.
func ObserveLeadTransition(vocabulary, status string) {
	leadTransitions.WithLabelValues(vocabulary, status).Inc()
}

// ObserveTourTransition counts a tour status change.
func ObserveTourTransition(status string) {
	tourTransitions.WithLabelValues(status).Inc()
}

// ObserveTourReminder counts a processed reminder task.
func ObserveTourReminder(result string) {
	tourReminders.WithLabelValues(result).Inc()
}

// Middleware records request count and latency labelled by the matched
// route template, so path parameters do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
