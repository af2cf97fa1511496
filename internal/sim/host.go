package sim

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/hook"
	"github.com/rook-computer/d3doverlay/internal/overlay"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

// D3DERR_DEVICELOST, returned by a reset the faults make fail.
const ErrDeviceLost = 0x88760868

// Faults are failures the host injects into the overlay's environment.
type Faults struct {
	// ProbeFailures is how many further probes fail before one succeeds.
	ProbeFailures  int  `json:"probeFailures"`
	ResetFail      bool `json:"resetFail"`
	EngineInitFail bool `json:"engineInitFail"`
}

// HostStats summarises what the host has seen.
type HostStats struct {
	Presents     uint64          `json:"presents"`
	Resets       uint64          `json:"resets"`
	HostMessages uint64          `json:"hostMessages"`
	Probes       uint64          `json:"probes"`
	Engine       hook.TableStats `json:"engine"`
}

// Host is a simulated game: it clears its back buffer and presents each
// frame through entry points the overlay can intercept.
type Host struct {
	Table   *hook.Table
	Windows *winproc.Registry
	Device  *Device
	Hwnd    uintptr

	presentAddr uintptr
	resetAddr   uintptr

	faults struct {
		mu sync.RWMutex
		v  Faults
	}

	presents     atomic.Uint64
	resets       atomic.Uint64
	hostMessages atomic.Uint64
	probes       atomic.Uint64
}

func NewHost(width, height int) *Host {
	h := &Host{
		Table:   hook.NewTable(),
		Windows: winproc.NewRegistry(),
	}
	h.Hwnd = h.Windows.CreateWindow(h.wndProc)
	h.Device = NewDevice(h.Hwnd, width, height)
	h.presentAddr = h.Table.Register(h.endScene)
	h.resetAddr = h.Table.Register(h.reset)
	return h
}

func (h *Host) wndProc(winproc.Message, uintptr) uintptr {
	h.hostMessages.Add(1)
	return 0
}

func (h *Host) endScene(args ...uintptr) uintptr {
	h.presents.Add(1)
	return 0
}

func (h *Host) reset(args ...uintptr) uintptr {
	h.resets.Add(1)
	if h.Faults().ResetFail {
		return ErrDeviceLost
	}
	w, hgt, _ := h.Device.Viewport()
	h.Device.Resize(w, hgt)
	return 0
}

// Addresses are the entry points a probe of this host finds.
func (h *Host) Addresses() d3d9.Addresses {
	return d3d9.Addresses{Present: h.presentAddr, Reset: h.resetAddr}
}

// Frame renders one host frame: the scene is cleared to a color that cycles
// with the frame number, then presented.
func (h *Host) Frame() uintptr {
	n := h.presents.Load()
	h.Device.Clear(color.RGBA{R: uint8(n), G: 0x30, B: 0x60, A: 0xFF})
	return h.Table.Invoke(h.presentAddr, h.Device.Ptr())
}

// ResetDevice resets the device the way a host does on a mode change.
func (h *Host) ResetDevice() uintptr {
	return h.Table.Invoke(h.resetAddr, h.Device.Ptr(), 0)
}

// Key sends a key press and release to the host window.
func (h *Host) Key(vk uintptr) {
	h.Windows.Send(h.Hwnd, winproc.WM_KEYDOWN, vk, 0)
	h.Windows.Send(h.Hwnd, winproc.WM_KEYUP, vk, 0)
}

// Mouse moves the pointer and optionally clicks the left button.
func (h *Host) Mouse(x, y int, click bool) {
	lp := winproc.MakeLParam(x, y)
	h.Windows.Send(h.Hwnd, winproc.WM_MOUSEMOVE, 0, lp)
	if click {
		h.Windows.Send(h.Hwnd, winproc.WM_LBUTTONDOWN, 0, lp)
		h.Windows.Send(h.Hwnd, winproc.WM_LBUTTONUP, 0, lp)
	}
}

func (h *Host) Faults() Faults {
	h.faults.mu.RLock()
	defer h.faults.mu.RUnlock()
	return h.faults.v
}

func (h *Host) SetFaults(v Faults) {
	h.faults.mu.Lock()
	h.faults.v = v
	h.faults.mu.Unlock()
	if v.EngineInitFail {
		h.Table.SetInitError(errors.New("sim: engine init fault"))
	} else {
		h.Table.SetInitError(nil)
	}
}

func (h *Host) Stats() HostStats {
	return HostStats{
		Presents:     h.presents.Load(),
		Resets:       h.resets.Load(),
		HostMessages: h.hostMessages.Load(),
		Probes:       h.probes.Load(),
		Engine:       h.Table.Stats(),
	}
}

// Probe implements overlay.Prober against this host.
func (h *Host) Probe() (d3d9.Addresses, error) {
	h.probes.Add(1)
	h.faults.mu.Lock()
	defer h.faults.mu.Unlock()
	if h.faults.v.ProbeFailures > 0 {
		h.faults.v.ProbeFailures--
		return d3d9.Addresses{}, fmt.Errorf("sim: probe fault (%d left)", h.faults.v.ProbeFailures)
	}
	return h.Addresses(), nil
}

// Deps wires an overlay to this host.
func (h *Host) Deps(renderer overlay.Renderer, ctx *ui.Context) overlay.Deps {
	return overlay.Deps{
		Engine:     h.Table,
		Prober:     h,
		Renderer:   renderer,
		Binder:     h.Windows,
		OpenDevice: func(uintptr) d3d9.Device { return h.Device },
		UI:         ctx,
	}
}
