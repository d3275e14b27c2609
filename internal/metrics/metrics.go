// Package metrics exposes the Prometheus collectors used by the HTTP layer
// and the lock workflow.
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

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "vigat_bahee",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route, method and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method", "status"})

var EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vigat_bahee",
	Subsystem: "ledger",
	Name:      "entries_created_total",
	Help:      "Ledger entries created, by category.",
}, []string{"category"})

var EntriesLocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "vigat_bahee",
	Subsystem: "ledger",
	Name:      "entries_locked_total",
	Help:      "Entries locked by a recorded return net.",
})

var LockRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vigat_bahee",
	Subsystem: "ledger",
	Name:      "lock_rejections_total",
	Help:      "Rejected writes against the lock workflow, by reason.",
}, []string{"reason"})

const (
	ReasonEntryLocked         = "entry_locked"
	ReasonAlreadyLocked       = "already_locked"
	ReasonMissingConfirmation = "missing_confirmation"
)

// Middleware records request latency. The route label is the chi pattern so
// ids in the path do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
