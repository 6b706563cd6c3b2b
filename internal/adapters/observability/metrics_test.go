package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_admin/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/hotels", "GET", 200, 12*time.Millisecond)
	observability.ObserveSync("rooms", "ok")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "hoteladmin_http_requests_total") {
		t.Fatalf("expected hoteladmin_http_requests_total in output")
	}
	if !strings.Contains(out, "hoteladmin_related_sync_total") {
		t.Fatalf("expected hoteladmin_related_sync_total in output")
	}
}
