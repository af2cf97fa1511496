package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rook-computer/d3doverlay/internal/sim"
)

type fakeController struct {
	faults   sim.Faults
	resetHR  uintptr
	keys     []uintptr
	visible  bool
	shutdown int
}

func (c *fakeController) Status() Status {
	return Status{State: "ready", Visible: c.visible, Host: sim.HostStats{Presents: 3}}
}
func (c *fakeController) Faults() sim.Faults     { return c.faults }
func (c *fakeController) SetFaults(f sim.Faults) { c.faults = f }
func (c *fakeController) ResetDevice() uintptr   { return c.resetHR }
func (c *fakeController) Key(vk uintptr)         { c.keys = append(c.keys, vk) }
func (c *fakeController) SetVisible(v bool)      { c.visible = v }
func (c *fakeController) Shutdown()              { c.shutdown++ }

func (c *fakeController) WriteSnapshot(w io.Writer) error {
	_, err := io.WriteString(w, "\x89PNG")
	return err
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	h := NewMux(&fakeController{visible: true}, false)
	rec := do(t, h, http.MethodGet, "/api/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var got Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != "ready" || !got.Visible || got.Host.Presents != 3 {
		t.Errorf("status = %+v", got)
	}
}

func TestFaultsPatch(t *testing.T) {
	c := &fakeController{faults: sim.Faults{ResetFail: true}}
	h := NewMux(c, false)

	rec := do(t, h, http.MethodPost, "/api/v1/faults", `{"probeFailures": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d: %s", rec.Code, rec.Body)
	}
	want := sim.Faults{ProbeFailures: 4, ResetFail: true}
	if c.faults != want {
		t.Errorf("faults = %+v, want %+v", c.faults, want)
	}

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"negative", `{"probeFailures": -1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, "/api/v1/faults", tt.body); rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
		})
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/faults", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE code = %d", rec.Code)
	}
}

func TestResetReportsHostResult(t *testing.T) {
	c := &fakeController{resetHR: sim.ErrDeviceLost}
	rec := do(t, NewMux(c, false), http.MethodPost, "/api/v1/reset", "")
	var got resetResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OK || got.Result != "0x88760868" {
		t.Errorf("reset response = %+v", got)
	}
}

func TestKeyAndVisible(t *testing.T) {
	c := &fakeController{}
	h := NewMux(c, false)

	if rec := do(t, h, http.MethodPost, "/api/v1/key", `{"vk": 45}`); rec.Code != http.StatusOK {
		t.Fatalf("key code = %d", rec.Code)
	}
	if len(c.keys) != 1 || c.keys[0] != 45 {
		t.Errorf("keys = %v", c.keys)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/key", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing vk code = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/visible", `{"visible": true}`); rec.Code != http.StatusOK || !c.visible {
		t.Errorf("visible code = %d visible %v", rec.Code, c.visible)
	}
}

func TestSnapshotAndShutdown(t *testing.T) {
	c := &fakeController{}
	h := NewMux(c, false)

	rec := do(t, h, http.MethodGet, "/api/v1/snapshot.png", "")
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/shutdown", ""); rec.Code != http.StatusOK || c.shutdown != 1 {
		t.Errorf("shutdown code = %d calls %d", rec.Code, c.shutdown)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/shutdown", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET shutdown code = %d", rec.Code)
	}
}

func TestDevCORS(t *testing.T) {
	h := NewMux(&fakeController{}, true)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight code = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestHTTPServerLifecycle(t *testing.T) {
	s := NewHTTPServer(ServerConfig{ListenAddr: "127.0.0.1:0"}, NewMux(&fakeController{}, false))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	resp, err := http.Get("http://" + s.Addr + "/api/v1/status")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status code = %d", resp.StatusCode)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("Start after Stop succeeded")
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "")
	t.Setenv(EnvDevMode, "nope")
	if _, err := DefaultServerConfigFromEnv(":8080"); err == nil {
		t.Error("invalid dev mode accepted")
	}
	t.Setenv(EnvDevMode, "true")
	cfg, err := DefaultServerConfigFromEnv(":8080")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" || !cfg.DevMode {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestControlPage(t *testing.T) {
	rec := do(t, NewMux(&fakeController{}, false), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/snapshot.png") {
		t.Error("control page does not reference the snapshot endpoint")
	}
}
