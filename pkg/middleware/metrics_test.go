package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// serveWithChi wraps a handler in a chi router so RouteContext is available.
func serveWithChi(mw func(http.Handler) http.Handler, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/products/{code}", handler)
	return r
}

func TestPrometheusMetrics_RequestCounting(t *testing.T) {
	router := serveWithChi(PrometheusMetrics("count-svc"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/MUG", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	// Counters are labeled by the chi route pattern, not the raw path.
	counter := httpRequestsTotal.WithLabelValues("count-svc", "GET", "/products/{code}", "200")
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter), float64(3))
}

func TestPrometheusMetrics_StatusCodeCapture(t *testing.T) {
	router := serveWithChi(PrometheusMetrics("status-svc"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/MUG", nil))

	counter := httpRequestsTotal.WithLabelValues("status-svc", "GET", "/products/{code}", "502")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_DefaultStatusCode(t *testing.T) {
	router := serveWithChi(PrometheusMetrics("default-status-svc"), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/MUG", nil))

	counter := httpRequestsTotal.WithLabelValues("default-status-svc", "GET", "/products/{code}", "200")
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	inFlightSeen := float64(-1)
	router := serveWithChi(PrometheusMetrics("inflight-svc"), func(w http.ResponseWriter, r *http.Request) {
		inFlightSeen = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/MUG", nil))

	assert.GreaterOrEqual(t, inFlightSeen, float64(1))
	assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}

func TestPrometheusMetrics_DurationHistogram(t *testing.T) {
	router := serveWithChi(PrometheusMetrics("hist-svc"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/MUG", nil))

	assert.Positive(t, testutil.CollectAndCount(httpRequestDuration, "http_request_duration_seconds"))
}
