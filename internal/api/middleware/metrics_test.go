package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestMetricsMiddlewareCountsRequestsAndErrors(t *testing.T) {
	var requestCount, errorCount atomic.Int64
	mc := NewMetricsCollector(&requestCount, &errorCount)

	status := http.StatusOK
	handler := mc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	status = http.StatusNotFound
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := requestCount.Load(); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}
	if got := errorCount.Load(); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
}
