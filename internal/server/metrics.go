package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woozymasta/geotext/internal/geo"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotext",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geotext",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	coordinatesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geotext",
		Subsystem: "analyzer",
		Name:      "coordinates_total",
		Help:      "Coordinates extracted, by format and validity",
	}, []string{"format", "valid"})

	analyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geotext",
		Subsystem: "analyzer",
		Name:      "duration_seconds",
		Help:      "Time spent analyzing one request text",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

// MetricsHandler serves the Prometheus exposition format.
func MetricsHandler() http.Handler { return promhttp.Handler() }

func observeRequest(method, path string, status int, elapsed time.Duration) {
	path = routeLabel(path)
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func observeAnalysis(set geo.Set, elapsed time.Duration) {
	analyzeDuration.Observe(elapsed.Seconds())
	for _, r := range set.Records {
		coordinatesFound.WithLabelValues(r.Format.String(), strconv.FormatBool(r.Valid)).Inc()
	}
}

// routeLabel keeps label cardinality bounded by folding unknown paths.
func routeLabel(path string) string {
	switch path {
	case "/", "/analyze", "/analyze/geojson", "/metrics":
		return path
	}
	return "other"
}
