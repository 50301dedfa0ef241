package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	m.PricingRequest(PricingIssued)
	m.PricingRequest(PricingIssued)
	m.PricingRequest(PricingApplied)
	m.ReferenceFetch("units", nil)
	m.ReferenceFetch("guests", errors.New("down"))
	m.SubmissionDelivery(true)
	m.SetOpenPanels(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pricingRequests.WithLabelValues(PricingIssued)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingRequests.WithLabelValues(PricingApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.referenceFetches.WithLabelValues("guests", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("delivered")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.openPanels))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PricingRequest(PricingFailed)
		m.ReferenceFetch("units", nil)
		m.SubmissionDelivery(false)
		m.SetOpenPanels(1)
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.Middleware(h))
}

func TestMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/thing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Name("thing")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thing", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("thing", http.MethodGet, "418")))
}
