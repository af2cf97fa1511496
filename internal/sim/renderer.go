package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/ui"
)

var ErrNotInitialized = errors.New("sim: renderer not initialized")

// RendererStats counts renderer calls.
type RendererStats struct {
	Inits       int `json:"inits"`
	Shutdowns   int `json:"shutdowns"`
	Invalidates int `json:"invalidates"`
	Creates     int `json:"creates"`
	Frames      int `json:"frames"`

	// SRGBDuringDraw is the sRGB write state the last draw saw.
	SRGBDuringDraw uint32 `json:"srgbDuringDraw"`
}

// Renderer rasterizes frames in software and composites them over a
// simulated device's back buffer.
type Renderer struct {
	style ui.Style

	mu     sync.Mutex
	raster *ui.Rasterizer
	valid  bool
	stats  RendererStats
}

func NewRenderer(style ui.Style) *Renderer {
	return &Renderer{style: style}
}

func (r *Renderer) Init(dev d3d9.Device) error {
	if _, ok := dev.(*Device); !ok {
		return fmt.Errorf("sim: cannot render on %T", dev)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raster = ui.NewRasterizer(r.style)
	r.valid = true
	r.stats.Inits++
	return nil
}

func (r *Renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raster = nil
	r.valid = false
	r.stats.Shutdowns++
}

func (r *Renderer) InvalidateDeviceObjects() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valid = false
	r.stats.Invalidates++
}

func (r *Renderer) CreateDeviceObjects(d3d9.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raster == nil {
		return ErrNotInitialized
	}
	r.valid = true
	r.stats.Creates++
	return nil
}

func (r *Renderer) RenderDrawData(dev d3d9.Device, dd *ui.DrawData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raster == nil || !r.valid {
		return ErrNotInitialized
	}
	target, ok := dev.(*Device)
	if !ok {
		return fmt.Errorf("sim: cannot render on %T", dev)
	}
	r.stats.SRGBDuringDraw = dev.RenderState(d3d9.RSSRGBWriteEnable)
	target.Composite(r.raster.Rasterize(dd))
	r.stats.Frames++
	return nil
}

func (r *Renderer) Stats() RendererStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
