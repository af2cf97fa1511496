//go:build windows

package d3d9

import (
	"fmt"
	"unsafe"
)

type creationParameters struct {
	AdapterOrdinal uint32
	DeviceType     uint32
	FocusWindow    uintptr
	BehaviorFlags  uint32
}

type viewport struct {
	X, Y          uint32
	Width, Height uint32
	MinZ, MaxZ    float32
}

// NativeDevice is a borrowed IDirect3DDevice9 pointer. It takes no reference
// and must not outlive the host's device.
type NativeDevice struct {
	ptr uintptr
}

// Open wraps the device pointer passed to an intercepted call.
func Open(ptr uintptr) Device { return &NativeDevice{ptr: ptr} }

func (d *NativeDevice) Ptr() uintptr { return d.ptr }

func (d *NativeDevice) FocusWindow() (uintptr, error) {
	var cp creationParameters
	if _, err := comCall(d.ptr, SlotGetCreationParameters, uintptr(unsafe.Pointer(&cp))); err != nil {
		return 0, fmt.Errorf("GetCreationParameters: %w", err)
	}
	if cp.FocusWindow == 0 {
		return 0, fmt.Errorf("device has no focus window")
	}
	return cp.FocusWindow, nil
}

func (d *NativeDevice) Viewport() (int, int, error) {
	var vp viewport
	if _, err := comCall(d.ptr, SlotGetViewport, uintptr(unsafe.Pointer(&vp))); err != nil {
		return 0, 0, fmt.Errorf("GetViewport: %w", err)
	}
	return int(vp.Width), int(vp.Height), nil
}

func (d *NativeDevice) RenderState(state uint32) uint32 {
	var v uint32
	comCallRaw(d.ptr, SlotGetRenderState, uintptr(state), uintptr(unsafe.Pointer(&v)))
	return v
}

func (d *NativeDevice) SetRenderState(state, value uint32) {
	comCallRaw(d.ptr, SlotSetRenderState, uintptr(state), uintptr(value))
}

func (d *NativeDevice) SamplerState(sampler, kind uint32) uint32 {
	var v uint32
	comCallRaw(d.ptr, SlotGetSamplerState, uintptr(sampler), uintptr(kind), uintptr(unsafe.Pointer(&v)))
	return v
}

func (d *NativeDevice) SetSamplerState(sampler, kind, value uint32) {
	comCallRaw(d.ptr, SlotSetSamplerState, uintptr(sampler), uintptr(kind), uintptr(value))
}
