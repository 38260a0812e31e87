package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	pkgmetrics "notespy/pkg/metrics"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := pkgmetrics.NewWithRegistry(registry)

	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	req := httptest.NewRequest("POST", "/api/match", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/match", "429"))
	if count != 2 {
		t.Errorf("Expected 2 requests counted, got %v", count)
	}
}

func TestMiddlewareDefaultStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := pkgmetrics.NewWithRegistry(registry)

	// Handler writes a body without calling WriteHeader
	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	if count != 1 {
		t.Errorf("Expected implicit 200 counted, got %v", count)
	}
}
