package observability

import (
	"log/slog"
	"net/http/httptest"
	"testing"
)

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := NewMetrics(slog.Default())
	m.ObserveRequest("GET", "ok")
	m.ObserveRetry()
	m.ChannelOpened()
	m.AddBytesRead(128)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "ok")
	m.ObserveRetry()
	m.ObserveOutOfRetries()
	m.ChannelOpened()
	m.ChannelClosed()
	m.AddBytesRead(10)
	if m.Handler() == nil {
		t.Fatal("expected non-nil handler even for nil Metrics")
	}
}
