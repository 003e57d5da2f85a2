package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMeterCounter(t *testing.T) {
	m := NewPromMeter()
	m.Counter("test_requests_total", 1, Label{Key: "method", Value: "GET"})
	m.Counter("test_requests_total", 1, Label{Key: "method", Value: "GET"})
	m.Counter("test_requests_total", 1, Label{Key: "method", Value: "POST"})

	cv, ok := m.counters["test_requests_total"]
	if !ok {
		t.Fatalf("counter not created")
	}
	if got := testutil.ToFloat64(cv.WithLabelValues("GET")); got != 2 {
		t.Fatalf("GET = %v, want 2", got)
	}
	if got := testutil.ToFloat64(cv.WithLabelValues("POST")); got != 1 {
		t.Fatalf("POST = %v, want 1", got)
	}
}

func TestPromMeterHistogram(t *testing.T) {
	m := NewPromMeter()
	m.Histogram("test_duration_seconds", 0.01)
	m.Histogram("test_duration_seconds", 0.5)

	hv, ok := m.histograms["test_duration_seconds"]
	if !ok {
		t.Fatalf("histogram not created")
	}
	if got := testutil.CollectAndCount(hv); got != 1 {
		t.Fatalf("series = %v, want 1", got)
	}
}

func TestPromMeterHandler(t *testing.T) {
	m := NewPromMeter()
	m.Counter("test_events_total", 3)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %v", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "test_events_total 3") {
		t.Fatalf("exposition missing counter: %q", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("exposition missing go collector: %q", body)
	}
}

func TestNopMeterNoPanic(t *testing.T) {
	var m Meter = NopMeter{}
	m.Counter("x", 1)
	m.Histogram("y", 2, Label{Key: "k", Value: "v"})
}
