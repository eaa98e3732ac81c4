// Package metrics exposes Prometheus instrumentation for the HTTP layer, the
// page cache and background jobs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	namespace = "stratarent"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagecache",
			Name:      "lookups_total",
			Help:      "Page cache lookups by cache and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	revalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagecache",
			Name:      "revalidations_total",
			Help:      "Revalidation runs by outcome",
		},
		[]string{"outcome"},
	)

	jobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "runs_total",
			Help:      "Background job runs by job and outcome",
		},
		[]string{"job", "outcome"},
	)
)

// Middleware records request count and latency, labelled by chi route
// pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CacheHit counts a page cache hit.
func CacheHit(cache string) { cacheLookupsTotal.WithLabelValues(cache, "hit").Inc() }

// CacheMiss counts a page cache miss.
func CacheMiss(cache string) { cacheLookupsTotal.WithLabelValues(cache, "miss").Inc() }

// Revalidated counts a revalidation run.
func Revalidated(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	revalidationsTotal.WithLabelValues(outcome).Inc()
}

// JobRun counts one background job execution.
func JobRun(job string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	jobRunsTotal.WithLabelValues(job, outcome).Inc()
}
