// Package sim is a software Direct3D 9 host. It owns a device with an RGBA
// back buffer, a window, and present/reset entry points reachable through a
// hook.Table, so the overlay can be installed and driven without Windows.
package sim

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/rook-computer/d3doverlay/internal/d3d9"
)

const devicePtr = 0xD3D90000

// Device is the simulated device. Its back buffer is shared between the
// render loop and readers of Snapshot, so every access takes mu.
type Device struct {
	mu      sync.Mutex
	ptr     uintptr
	hwnd    uintptr
	back    *image.RGBA
	render  map[uint32]uint32
	sampler map[uint32]uint32
}

func NewDevice(hwnd uintptr, width, height int) *Device {
	return &Device{
		ptr:  devicePtr,
		hwnd: hwnd,
		back: image.NewRGBA(image.Rect(0, 0, width, height)),
		// Hosts commonly leave sRGB writes on.
		render:  map[uint32]uint32{d3d9.RSSRGBWriteEnable: 1},
		sampler: map[uint32]uint32{d3d9.SampSRGBTexture: 1},
	}
}

func (d *Device) Ptr() uintptr { return d.ptr }

func (d *Device) FocusWindow() (uintptr, error) { return d.hwnd, nil }

func (d *Device) Viewport() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := d.back.Bounds()
	return b.Dx(), b.Dy(), nil
}

func (d *Device) RenderState(state uint32) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.render[state]
}

func (d *Device) SetRenderState(state, value uint32) {
	d.mu.Lock()
	d.render[state] = value
	d.mu.Unlock()
}

func (d *Device) SamplerState(_, kind uint32) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sampler[kind]
}

func (d *Device) SetSamplerState(_, kind, value uint32) {
	d.mu.Lock()
	d.sampler[kind] = value
	d.mu.Unlock()
}

// Clear fills the back buffer, standing in for the host's scene.
func (d *Device) Clear(c color.RGBA) {
	d.mu.Lock()
	draw.Draw(d.back, d.back.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	d.mu.Unlock()
}

// Composite draws src over the back buffer.
func (d *Device) Composite(src image.Image) {
	d.mu.Lock()
	draw.Draw(d.back, d.back.Bounds(), src, image.Point{}, draw.Over)
	d.mu.Unlock()
}

// Resize replaces the back buffer, as a successful reset does.
func (d *Device) Resize(width, height int) {
	d.mu.Lock()
	d.back = image.NewRGBA(image.Rect(0, 0, width, height))
	d.mu.Unlock()
}

// Snapshot copies the back buffer.
func (d *Device) Snapshot() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := image.NewRGBA(d.back.Bounds())
	copy(out.Pix, d.back.Pix)
	return out
}
