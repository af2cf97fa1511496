package sim

import (
	"testing"
	"time"

	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/overlay"
	"github.com/rook-computer/d3doverlay/internal/state"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

func startOverlay(t *testing.T, h *Host) (*overlay.Overlay, *Renderer) {
	t.Helper()
	r := NewRenderer(ui.DefaultStyle())
	ov := overlay.New(h.Deps(r, nil), overlay.WithRetryInterval(time.Millisecond))
	t.Cleanup(ov.Shutdown)
	ov.Start()
	deadline := time.Now().Add(2 * time.Second)
	for ov.State() != state.Ready {
		if time.Now().After(deadline) {
			t.Fatalf("overlay not ready, state %v", ov.State())
		}
		time.Sleep(time.Millisecond)
	}
	return ov, r
}

func drawDemo(ov *overlay.Overlay) {
	ov.BeginFrame()
	c := ov.UI()
	if c.Begin("Sim") {
		c.Text("overlay on a simulated device")
		c.End()
	}
	ov.CompositeFrame()
}

func TestOverlayDrawsOnBackBuffer(t *testing.T) {
	h := NewHost(640, 480)
	ov, r := startOverlay(t, h)

	h.Frame()
	drawDemo(ov)
	h.Frame()

	snap := h.Device.Snapshot()
	if got := snap.RGBAAt(100, 30).B; got == 0x60 {
		t.Error("overlay window not composited")
	}
	if got := snap.RGBAAt(600, 450).B; got != 0x60 {
		t.Errorf("scene pixel B = %#x, want 0x60", got)
	}
	if s := r.Stats(); s.Frames != 1 || s.SRGBDuringDraw != 0 {
		t.Errorf("renderer stats = %+v", s)
	}
	if got := h.Device.RenderState(d3d9.RSSRGBWriteEnable); got != 1 {
		t.Errorf("sRGB write after present = %d, want 1", got)
	}
}

func TestProbeFaults(t *testing.T) {
	h := NewHost(320, 240)
	h.SetFaults(Faults{ProbeFailures: 2})
	startOverlay(t, h)
	if got := h.Stats().Probes; got != 3 {
		t.Errorf("probes = %d, want 3", got)
	}
	if got := h.Faults().ProbeFailures; got != 0 {
		t.Errorf("probe failures left = %d, want 0", got)
	}
}

func TestResetFault(t *testing.T) {
	h := NewHost(320, 240)
	_, r := startOverlay(t, h)
	h.Frame()

	h.SetFaults(Faults{ResetFail: true})
	if got := h.ResetDevice(); got != ErrDeviceLost {
		t.Errorf("reset = %#x, want device lost", got)
	}
	h.SetFaults(Faults{})
	if got := h.ResetDevice(); got != 0 {
		t.Errorf("reset = %#x, want 0", got)
	}
	if s := r.Stats(); s.Invalidates != 2 || s.Creates != 1 {
		t.Errorf("invalidates/creates = %d/%d, want 2/1", s.Invalidates, s.Creates)
	}
}

func TestToggleKeyThroughWindow(t *testing.T) {
	h := NewHost(320, 240)
	ov, _ := startOverlay(t, h)
	h.Frame()

	h.Key(winproc.VK_INSERT)
	if ov.IsVisible() {
		t.Error("INSERT did not hide the overlay")
	}
	before := h.Stats().HostMessages
	h.Mouse(10, 10, true)
	if got := h.Stats().HostMessages - before; got != 3 {
		t.Errorf("host saw %d messages while hidden, want 3", got)
	}
}

func TestShutdownRestoresHost(t *testing.T) {
	h := NewHost(320, 240)
	original, _ := h.Windows.ProcAddress(h.Hwnd)
	ov, r := startOverlay(t, h)
	h.Frame()
	ov.Shutdown()

	if addr, _ := h.Windows.ProcAddress(h.Hwnd); addr != original {
		t.Errorf("window procedure %#x, want %#x", addr, original)
	}
	if s := h.Stats().Engine; s.Active != 0 {
		t.Errorf("active hooks = %d, want 0", s.Active)
	}
	frames := r.Stats().Frames
	drawDemo(ov)
	h.Frame()
	if got := r.Stats().Frames; got != frames {
		t.Error("renderer drew after shutdown")
	}
}
