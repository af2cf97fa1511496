// Package d3d9 locates and talks to Direct3D 9 devices: it finds the native
// entry points the overlay intercepts, wraps a host device behind a small
// interface and draws overlay frames with it.
package d3d9

import (
	"errors"
	"fmt"
)

var ErrUnsupported = errors.New("d3d9: not supported on this platform")

// IDirect3DDevice9 vtable slots.
const (
	SlotReset                 = 16
	SlotGetCreationParameters = 9
	SlotCreateTexture         = 23
	SlotBeginScene            = 41
	SlotEndScene              = 42
	SlotGetViewport           = 48
	SlotSetRenderState        = 57
	SlotGetRenderState        = 58
	SlotCreateStateBlock      = 59
	SlotSetTexture            = 65
	SlotSetTextureStageState  = 67
	SlotGetSamplerState       = 68
	SlotSetSamplerState       = 69
	SlotDrawPrimitiveUP       = 83
	SlotSetFVF                = 89
	SlotSetVertexShader       = 92
	SlotSetPixelShader        = 107
)

// Render and sampler states touched around overlay submission.
const (
	RSZEnable           = 7
	RSAlphaBlendEnable  = 27
	RSSrcBlend          = 19
	RSDestBlend         = 20
	RSCullMode          = 22
	RSLighting          = 137
	RSScissorTestEnable = 174
	RSSRGBWriteEnable   = 194

	SampSRGBTexture = 11
	SampMagFilter   = 5
	SampMinFilter   = 6
)

// Addresses are the two entry points the overlay intercepts.
type Addresses struct {
	Present uintptr
	Reset   uintptr
}

// Device is a live host device as seen by the overlay. Implementations do not
// own the device; the host does.
type Device interface {
	Ptr() uintptr
	// FocusWindow returns the window the device was created for.
	FocusWindow() (uintptr, error)
	// Viewport returns the size of the current render target region.
	Viewport() (width, height int, err error)
	RenderState(state uint32) uint32
	SetRenderState(state, value uint32)
	SamplerState(sampler, kind uint32) uint32
	SetSamplerState(sampler, kind, value uint32)
}

// HRESULT is a COM status code.
type HRESULT int32

func (hr HRESULT) Error() string { return fmt.Sprintf("HRESULT 0x%08X", uint32(hr)) }

// Succeeded mirrors the SUCCEEDED macro for a raw native return value.
func Succeeded(ret uintptr) bool { return int32(ret) >= 0 }

// D3DERR_INVALIDCALL, returned by Reset when the parameters are rejected.
const ErrInvalidCall HRESULT = -2005530516 // 0x8876086C
