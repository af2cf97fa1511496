package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rook-computer/d3doverlay/internal/config"
	"github.com/rook-computer/d3doverlay/internal/overlay"
	"github.com/rook-computer/d3doverlay/internal/sim"
	"github.com/rook-computer/d3doverlay/internal/state"
	"github.com/rook-computer/d3doverlay/internal/ui"
)

const driver = `
local overlay = require("overlay")
function tick(n)
  overlay.begin_frame()
  if overlay.begin_window("App") then
    overlay.text("tick " .. n)
    overlay.end_window()
  end
  overlay.present_frame()
end
`

func newSimApp(t *testing.T, script string) (*App, *sim.Host, *sim.Renderer) {
	t.Helper()
	cfg := config.Default()
	cfg.ProbeInterval = time.Millisecond
	cfg.TickRate = 500
	if script != "" {
		cfg.ScriptPath = filepath.Join(t.TempDir(), "driver.lua")
		if err := os.WriteFile(cfg.ScriptPath, []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	host := sim.NewHost(320, 240)
	renderer := sim.NewRenderer(ui.DefaultStyle())
	a := New(cfg, host.Deps(renderer, nil), nil)
	t.Cleanup(func() { _ = a.Stop() })
	return a, host, renderer
}

func TestAppRunsScriptAgainstOverlay(t *testing.T) {
	a, host, renderer := newSimApp(t, driver)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for renderer.Stats().Frames == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no overlay frame drawn; state %v", a.Overlay.State())
		}
		host.Frame()
		time.Sleep(2 * time.Millisecond)
	}

	if err := a.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := a.Overlay.State(); got != state.Shutdown {
		t.Errorf("state = %v, want shutdown", got)
	}
	if s := host.Stats().Engine; s.Active != 0 || s.Init != s.Uninit {
		t.Errorf("engine stats after stop = %+v", s)
	}
}

func TestAppStartWithoutScript(t *testing.T) {
	a, _, _ := newSimApp(t, "")
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.Script != nil {
		t.Error("script runner created without a script")
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestAppStartBadScript(t *testing.T) {
	a, _, _ := newSimApp(t, "this is not lua")
	if err := a.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded with a broken script")
	}
}

func TestAppRunsInlineScript(t *testing.T) {
	a, host, renderer := newSimApp(t, "")
	a.ScriptSource = driver
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.Script == nil {
		t.Fatal("inline script not started")
	}
	deadline := time.Now().Add(2 * time.Second)
	for renderer.Stats().Frames == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no overlay frame drawn; ticks %d", a.Script.Ticks())
		}
		host.Frame()
		time.Sleep(2 * time.Millisecond)
	}
}

func TestProcessInitShutdown(t *testing.T) {
	t.Setenv(config.EnvLogPath, filepath.Join(t.TempDir(), "overlay.log"))
	t.Setenv(config.EnvProbeInterval, "1ms")
	t.Setenv(config.EnvScript, "")

	host := sim.NewHost(320, 240)
	builds := 0
	var seen config.Config
	p := NewProcess(filepath.Join(t.TempDir(), "missing.env"), func(cfg config.Config) (overlay.Deps, error) {
		builds++
		return host.Deps(sim.NewRenderer(ui.DefaultStyle()), nil), nil
	})
	p.OnConfig = func(cfg config.Config) { seen = cfg }
	t.Cleanup(p.Shutdown)

	if p.Overlay() != nil {
		t.Fatal("overlay before Init")
	}
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if builds != 1 {
		t.Errorf("deps built %d times, want 1", builds)
	}
	if seen.ProbeInterval != time.Millisecond {
		t.Errorf("OnConfig saw probe interval %v", seen.ProbeInterval)
	}
	ov := p.Overlay()
	if ov == nil {
		t.Fatal("no overlay after Init")
	}

	p.Shutdown()
	p.Shutdown()
	if got := ov.State(); got != state.Shutdown {
		t.Errorf("state = %v, want shutdown", got)
	}
	if p.Overlay() != nil {
		t.Error("overlay still reachable after Shutdown")
	}
}

func TestProcessInitDepsError(t *testing.T) {
	t.Setenv(config.EnvLogPath, filepath.Join(t.TempDir(), "overlay.log"))
	p := NewProcess("", func(config.Config) (overlay.Deps, error) {
		return overlay.Deps{}, errors.New("no device")
	})
	if err := p.Init(context.Background()); err == nil {
		t.Fatal("Init succeeded without deps")
	}
	if p.Overlay() != nil {
		t.Error("overlay left behind after failed Init")
	}
}
