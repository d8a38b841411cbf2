package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request metrics published for scraping. The labels stay coarse so
// request parameters cannot blow up the series cardinality.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "web",
		Name:      "requests_total",
		Help:      "Number of requests processed, by method and status.",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "web",
		Name:      "request_duration_seconds",
		Help:      "Time taken to process a request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "web",
		Name:      "panics_total",
		Help:      "Number of panics recovered by the middleware.",
	})
)

// Metrics updates the request counters published at the metrics
// endpoint.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// If the context is missing this value, request the service
			// to be shutdown gracefully.
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			// Call the next handler.
			err = handler(ctx, w, r)

			requestsTotal.WithLabelValues(r.Method, strconv.Itoa(v.StatusCode)).Inc()
			requestDuration.WithLabelValues(r.Method).Observe(time.Since(v.Now).Seconds())

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
