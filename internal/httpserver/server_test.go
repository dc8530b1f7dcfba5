package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cfgpkg "github.com/taoyao-code/lora-node/internal/config"
	appmetrics "github.com/taoyao-code/lora-node/internal/metrics"
	"github.com/taoyao-code/lora-node/internal/protocol/rylr"
	"github.com/taoyao-code/lora-node/internal/state"
)

func newTestServer(rec *state.Reception, ready bool) *Server {
	cfg := cfgpkg.HTTPConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}
	node := cfgpkg.NodeConfig{ID: "N2", Address: 2, NetworkID: 18, FrequencyMHz: 915}
	reg := appmetrics.NewRegistry()
	return New(cfg, node, rec, "/metrics", appmetrics.Handler(reg), func() bool { return ready })
}

func TestHealthzReadyzMetrics(t *testing.T) {
	srv := newTestServer(&state.Reception{}, true)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s code=%d", path, rr.Code)
		}
	}
}

func TestReadyzNotReady(t *testing.T) {
	srv := newTestServer(&state.Reception{}, false)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("/readyz not-ready code=%d", rr.Code)
	}
}

func TestStatus_BeforeAndAfterFirstMessage(t *testing.T) {
	rec := &state.Reception{}
	srv := newTestServer(rec, true)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	srv.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("/api/v1/status code=%d", rr.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if _, ok := resp["last"]; ok {
		t.Fatalf("last present before first message")
	}
	if resp["received"].(float64) != 0 {
		t.Fatalf("received=%v", resp["received"])
	}

	rec.Publish(rylr.Message{Seq: 5, Temperature: 27.1, Humidity: 56, GasResistance: 12345, RSSI: -42, SNR: 7})

	rr = httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, req)
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	last, ok := resp["last"].(map[string]any)
	if !ok {
		t.Fatalf("last missing after publish")
	}
	if last["seq"].(float64) != 5 || last["rssi"].(float64) != -42 {
		t.Fatalf("unexpected last: %v", last)
	}
	if resp["received"].(float64) != 1 {
		t.Fatalf("received=%v", resp["received"])
	}
}
