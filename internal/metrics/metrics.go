package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Pricing outcomes
const (
	PricingIssued    = "issued"
	PricingApplied   = "applied"
	PricingCancelled = "cancelled"
	PricingStale     = "stale"
	PricingFailed    = "failed"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	pricingRequests  *prometheus.CounterVec
	pricingLatency   prometheus.Histogram
	referenceFetches *prometheus.CounterVec
	submissions      *prometheus.CounterVec
	openPanels       prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pricingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "requests_total",
			Help:      "Rental pricing requests by outcome.",
		}, []string{"outcome"}),
		pricingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "request_duration_seconds",
			Help:      "Latency of completed rental pricing requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		referenceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "fetches_total",
			Help:      "Reference list fetches by list and result.",
		}, []string{"kind", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submissions",
			Name:      "delivery_total",
			Help:      "Booking submission delivery attempts by result.",
		}, []string{"result"}),
		openPanels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "panels",
			Name:      "open",
			Help:      "Booking panel sessions currently open.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.pricingRequests,
			m.pricingLatency,
			m.referenceFetches,
			m.submissions,
			m.openPanels,
			m.httpRequests,
			m.httpDuration,
		)
	}
	return m
}

func (m *Metrics) PricingRequest(outcome string) {
	if m == nil {
		return
	}
	m.pricingRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PricingLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.pricingLatency.Observe(d.Seconds())
}

func (m *Metrics) ReferenceFetch(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.referenceFetches.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SubmissionDelivery(delivered bool) {
	if m == nil {
		return
	}
	result := "delivered"
	if !delivered {
		result = "failed"
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) SetOpenPanels(n int) {
	if m == nil {
		return
	}
	m.openPanels.Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by mux route name
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil && cur.GetName() != "" {
			route = cur.GetName()
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
