// Package metrics các chỉ số Prometheus của resolver và HTTP API
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/address-resolver/internal/resolver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "addr_resolutions_total",
		Help: "Total address resolutions by outcome",
	}, []string{"outcome"})
	ResolutionDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "addr_resolution_duration_ms",
		Help:    "Resolution duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100},
	})
	SegmentsPerAddress = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "addr_segments_per_address",
		Help:    "Number of segments produced per address",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
	})
	AssignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "addr_assignments_total",
		Help: "Segment assignments by tier and method",
	}, []string{"tier", "method"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "addr_cache_hits_total",
		Help: "Result cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "addr_cache_misses_total",
		Help: "Result cache misses",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "addr_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "addr_http_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	BatchJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "addr_batch_jobs_total",
		Help: "Batch jobs by final status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(ResolutionDurationMs)
	prometheus.MustRegister(SegmentsPerAddress)
	prometheus.MustRegister(AssignmentsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(BatchJobsTotal)
}

// Handler expose các metric đã đăng ký tại /metrics
func Handler() http.Handler { return promhttp.Handler() }

// Observer ghi metric cho mỗi lần resolve
type Observer struct{}

// Outcome phân loại một kết quả: forced, full, partial
func Outcome(res resolver.Resolution) string {
	switch {
	case res.Forced:
		return "forced"
	case res.Parsed.Subdivision != "" || len(res.Parsed.SubSubdivision) > 0:
		return "full"
	case res.Parsed.Province != "":
		return "partial"
	default:
		return "empty"
	}
}

func (Observer) ObserveResolution(res resolver.Resolution, elapsed time.Duration) {
	ResolutionsTotal.WithLabelValues(Outcome(res)).Inc()
	ResolutionDurationMs.Observe(float64(elapsed.Microseconds()) / 1000)
	SegmentsPerAddress.Observe(float64(len(res.Segments)))
	for _, step := range res.Trace {
		AssignmentsTotal.WithLabelValues(string(step.Tier), string(step.Method)).Inc()
	}
}

// ObserveHTTP ghi một request HTTP
func ObserveHTTP(route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPDurationMs.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
}
