package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/cart-engine/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics(registry, []float64{1, 10})
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestQuoteMetricsRegisterOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewQuoteMetrics(registry)
	second := obs.NewQuoteMetrics(registry)

	first.CacheHits.Inc()
	second.CacheHits.Inc()
	if got := testutil.ToFloat64(first.CacheHits); got != 2 {
		t.Fatalf("expected shared collector with value 2, got %v", got)
	}

	first.Priced.WithLabelValues("discount_first").Inc()
	if got := testutil.ToFloat64(second.Priced.WithLabelValues("discount_first")); got != 1 {
		t.Fatalf("expected shared priced counter, got %v", got)
	}
}

func TestStatusRecorderDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := obs.NewStatusRecorder(rr)
	if _, err := rec.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.Status() != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", rec.Status())
	}
	if rec.BytesWritten() != 2 {
		t.Fatalf("expected 2 bytes, got %d", rec.BytesWritten())
	}
}
