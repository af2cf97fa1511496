package overlay

import (
	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/state"
	"github.com/rook-computer/d3doverlay/internal/ui"
)

// BeginFrame opens a UI frame for the driver. It does nothing until the
// overlay is ready and its UI is up, or while a frame is already open.
func (o *Overlay) BeginFrame() {
	if !o.lifecycle.Is(state.Ready) || !o.uiReady.Load() {
		return
	}
	if o.staleUI.Swap(false) {
		o.ui.Discard()
	}
	if !o.frame.Begin() {
		return
	}
	o.ui.NewFrame()
}

// CompositeFrame closes the open frame and stages it for the next present.
// A staged frame that was never drawn is replaced. No device work happens
// here.
func (o *Overlay) CompositeFrame() {
	if !o.frame.Close() {
		return
	}
	o.ui.EndFrame()
	dd := o.ui.Render()
	if dd == nil {
		dd = &ui.DrawData{Frame: o.ui.FrameCount(), DisplaySize: o.ui.DisplaySize()}
	}
	o.frame.Stage(dd)
}

func (o *Overlay) presentDetour(args ...uintptr) uintptr {
	return o.presentHook(args[0])
}

func (o *Overlay) resetDetour(args ...uintptr) uintptr {
	return o.resetHook(args[0], args[1])
}

// presentHook runs on the host's render thread in place of the present entry
// point. The host's call always goes through, and its result is returned
// as is.
func (o *Overlay) presentHook(dev uintptr) uintptr {
	if o.lifecycle.Is(state.Ready) {
		o.drawOverlay(dev)
	}
	return o.present.Call(dev)
}

func (o *Overlay) drawOverlay(ptr uintptr) {
	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	if !o.lifecycle.Is(state.Ready) {
		return
	}

	if o.device == nil || o.device.Ptr() != ptr {
		if o.uiReady.Load() {
			o.log.Infof("overlay", "device changed to %#x, rebinding", ptr)
			o.teardownUI()
		}
		o.device = o.deps.OpenDevice(ptr)
	}
	if !o.uiReady.Load() {
		if err := o.initUI(); err != nil {
			o.uiFailures++
			if o.uiFailures == 1 {
				o.log.Errorf("overlay", "ui bootstrap: %v", err)
			} else {
				o.log.Debugf("overlay", "ui bootstrap: %v", err)
			}
			return
		}
	}
	if w, h, err := o.device.Viewport(); err == nil {
		o.ui.SetDisplaySize(w, h)
	}

	dd := o.frame.Take()
	if dd == nil {
		return
	}
	dev := o.device
	srgbWrite := dev.RenderState(d3d9.RSSRGBWriteEnable)
	srgbTexture := dev.SamplerState(0, d3d9.SampSRGBTexture)
	dev.SetRenderState(d3d9.RSSRGBWriteEnable, 0)
	dev.SetSamplerState(0, d3d9.SampSRGBTexture, 0)

	if err := o.deps.Renderer.RenderDrawData(dev, dd); err != nil {
		o.log.Debugf("render", "frame %d: %v", dd.Frame, err)
	}

	dev.SetRenderState(d3d9.RSSRGBWriteEnable, srgbWrite)
	dev.SetSamplerState(0, d3d9.SampSRGBTexture, srgbTexture)
}

// initUI binds the UI to the device's window. On failure everything it set
// up is undone and the next present tries again.
func (o *Overlay) initUI() error {
	hwnd, err := o.device.FocusWindow()
	if err != nil {
		return err
	}
	if err := o.deps.Renderer.Init(o.device); err != nil {
		return err
	}
	orig, err := o.deps.Binder.Subclass(hwnd, o.route)
	if err != nil {
		o.deps.Renderer.Shutdown()
		return err
	}
	o.hwnd, o.origProc = hwnd, orig
	o.uiFailures = 0
	o.uiReady.Store(true)
	o.log.Infof("overlay", "ui bound to window %#x", hwnd)
	return nil
}

// teardownUI undoes initUI. Callers hold renderMu.
func (o *Overlay) teardownUI() {
	if !o.uiReady.Load() {
		return
	}
	o.uiReady.Store(false)
	if err := o.deps.Binder.Restore(o.hwnd, o.origProc); err != nil {
		o.log.Errorf("input", "restore window procedure: %v", err)
	}
	o.hwnd, o.origProc = 0, 0
	o.deps.Renderer.Shutdown()
	o.frame.Reset()
	o.staleUI.Store(true)
}

// resetHook runs on the host's render thread in place of the reset entry
// point. Device objects are released before the host's reset and recreated
// only if it succeeded; the host's result is returned as is.
func (o *Overlay) resetHook(dev, params uintptr) uintptr {
	if o.frame.Close() {
		o.staleUI.Store(true)
	}
	if !o.lifecycle.Is(state.Ready) {
		return o.reset.Call(dev, params)
	}

	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	ready := o.uiReady.Load()
	if ready {
		o.deps.Renderer.InvalidateDeviceObjects()
	}
	hr := o.reset.Call(dev, params)
	if ready && d3d9.Succeeded(hr) {
		if err := o.deps.Renderer.CreateDeviceObjects(o.device); err != nil {
			o.log.Errorf("render", "recreate device objects: %v", err)
		}
	}
	return hr
}
