package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's collectors. Each server gets its own registry
// so tests can build several without duplicate registration.
type Metrics struct {
	Registry *prometheus.Registry

	requests    *prometheus.CounterVec
	solves      *prometheus.CounterVec
	noSolution  *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	solveTime   prometheus.Histogram
	cobwebSteps prometheus.Histogram
	panics      prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duopoly_http_requests_total",
			Help: "Total number of HTTP requests, partitioned by route and status.",
		}, []string{"route", "status"}),
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duopoly_solve_requests_total",
			Help: "Total number of solve requests, partitioned by scenario.",
		}, []string{"scenario"}),
		noSolution: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duopoly_no_equilibrium_total",
			Help: "Total number of solves that found no equilibrium, partitioned by scenario.",
		}, []string{"scenario"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duopoly_formula_fallbacks_total",
			Help: "Total number of submitted best-response formulas replaced by the default, partitioned by firm.",
		}, []string{"firm"}),
		solveTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "duopoly_solve_duration_seconds",
			Help:    "Time spent computing a frame.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		cobwebSteps: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "duopoly_cobweb_iterations",
			Help:    "Requested best-response iterations per cobweb request.",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		}),
		panics: f.NewCounter(prometheus.CounterOpts{
			Name: "duopoly_handler_panics_total",
			Help: "Total number of recovered handler panics.",
		}),
	}
}
