package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"city_weather/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "city_weather_http_requests_total") {
		t.Fatalf("expected city_weather_http_requests_total in output")
	}
}

func TestObservePipeline(t *testing.T) {
	ok := observability.PipelineItems.WithLabelValues("collect", "ok")
	skipped := observability.PipelineItems.WithLabelValues("collect", "skipped")
	okBefore, skippedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(skipped)

	observability.ObservePipeline("collect", true)
	observability.ObservePipeline("collect", false)
	observability.ObservePipeline("collect", false)

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Fatalf("ok delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(skipped) - skippedBefore; got != 2 {
		t.Fatalf("skipped delta = %v, want 2", got)
	}
}
