package obs

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics bundles the request-level Prometheus collectors.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// QuoteMetrics tracks pricing-domain counters.
type QuoteMetrics struct {
	Priced    *prometheus.CounterVec
	CacheHits prometheus.Counter
	CacheMiss prometheus.Counter
}

// NewHTTPMetrics registers the HTTP collectors on the registry.
func NewHTTPMetrics(reg prometheus.Registerer, buckets []float64) *HTTPMetrics {
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in milliseconds.",
			Buckets: buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = mustRegisterCounterVec(reg, m.ReqTotal)
	m.ReqDur = mustRegisterHistogramVec(reg, m.ReqDur)
	m.InFlight = mustRegisterGauge(reg, m.InFlight)
	return m
}

// NewQuoteMetrics registers the pricing collectors on the registry.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	m := &QuoteMetrics{
		Priced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotes_priced_total",
			Help: "Total quotes priced by tax policy.",
		}, []string{"tax_policy"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quote_cache_hits_total",
			Help: "Quote cache hits.",
		}),
		CacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quote_cache_misses_total",
			Help: "Quote cache misses.",
		}),
	}
	m.Priced = mustRegisterCounterVec(reg, m.Priced)
	m.CacheHits = mustRegisterCounter(reg, m.CacheHits)
	m.CacheMiss = mustRegisterCounter(reg, m.CacheMiss)
	return m
}

func mustRegisterCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return c
}

func mustRegisterHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(err)
	}
	return h
}

func mustRegisterGauge(reg prometheus.Registerer, g prometheus.Gauge) prometheus.Gauge {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Gauge)
		}
		panic(err)
	}
	return g
}

func mustRegisterCounter(reg prometheus.Registerer, c prometheus.Counter) prometheus.Counter {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

// DurationMillis converts a duration to float milliseconds for histograms.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ParseBucketsCSV parses a comma-separated list of histogram bucket bounds.
// Invalid entries are skipped.
func ParseBucketsCSV(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
