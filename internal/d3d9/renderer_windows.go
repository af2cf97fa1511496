//go:build windows

package d3d9

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/rook-computer/d3doverlay/internal/ui"
)

const (
	fmtA8R8G8B8     = 21
	usageDynamic    = 0x200
	poolDefault     = 0
	lockDiscard     = 0x2000
	sbtAll          = 1
	ptTriangleStrip = 5
	fvfXYZRHW       = 0x004
	fvfTex1         = 0x100

	cullNone         = 1
	blendOne         = 2
	blendInvSrcAlpha = 6
	texFilterPoint   = 1

	tssColorOp   = 1
	tssColorArg1 = 2
	tssAlphaOp   = 4
	tssAlphaArg1 = 5

	topSelectArg1 = 2
	taTexture     = 2

	// IDirect3DTexture9
	slotLockRect   = 19
	slotUnlockRect = 20

	// IDirect3DStateBlock9
	slotApply = 5
)

type lockedRect struct {
	Pitch int32
	Bits  uintptr
}

type vertex struct {
	X, Y, Z, RHW float32
	U, V         float32
}

var errNotInitialized = errors.New("renderer not initialized")

// Renderer draws overlay frames on the host device: each frame is rasterized
// on the CPU, uploaded into one dynamic texture and drawn as a screen quad
// with the host's state saved and restored around it.
type Renderer struct {
	raster  *ui.Rasterizer
	dev     uintptr
	texture uintptr
	texW    int
	texH    int
}

func NewRenderer(style ui.Style) *Renderer {
	return &Renderer{raster: ui.NewRasterizer(style)}
}

func (r *Renderer) Init(dev Device) error {
	if dev == nil || dev.Ptr() == 0 {
		return fmt.Errorf("init renderer: null device")
	}
	r.dev = dev.Ptr()
	return nil
}

func (r *Renderer) Shutdown() {
	r.InvalidateDeviceObjects()
	r.dev = 0
}

// InvalidateDeviceObjects releases what lives in the default pool; it must
// run before the device is reset.
func (r *Renderer) InvalidateDeviceObjects() {
	comRelease(r.texture)
	r.texture = 0
	r.texW, r.texH = 0, 0
}

// CreateDeviceObjects re-arms the renderer after a reset. The texture is
// recreated on the next draw, sized to the viewport at that time.
func (r *Renderer) CreateDeviceObjects(dev Device) error {
	if dev == nil || dev.Ptr() == 0 {
		return errNotInitialized
	}
	r.dev = dev.Ptr()
	return nil
}

func (r *Renderer) RenderDrawData(dev Device, dd *ui.DrawData) error {
	if r.dev == 0 {
		return errNotInitialized
	}
	if dd.Empty() {
		return nil
	}
	img := r.raster.Rasterize(dd)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if err := r.ensureTexture(w, h); err != nil {
		return err
	}
	if err := r.upload(img.Pix, img.Stride, w, h); err != nil {
		return err
	}

	var sb uintptr
	if _, err := comCall(r.dev, SlotCreateStateBlock, sbtAll, uintptr(unsafe.Pointer(&sb))); err != nil {
		return fmt.Errorf("CreateStateBlock: %w", err)
	}
	defer comRelease(sb)
	defer comCallRaw(sb, slotApply)

	r.setupState()
	quad := [4]vertex{
		{X: -0.5, Y: -0.5, RHW: 1, U: 0, V: 0},
		{X: float32(w) - 0.5, Y: -0.5, RHW: 1, U: 1, V: 0},
		{X: -0.5, Y: float32(h) - 0.5, RHW: 1, U: 0, V: 1},
		{X: float32(w) - 0.5, Y: float32(h) - 0.5, RHW: 1, U: 1, V: 1},
	}
	if _, err := comCall(r.dev, SlotDrawPrimitiveUP, ptTriangleStrip, 2,
		uintptr(unsafe.Pointer(&quad[0])), unsafe.Sizeof(quad[0])); err != nil {
		return fmt.Errorf("DrawPrimitiveUP: %w", err)
	}
	return nil
}

func (r *Renderer) ensureTexture(w, h int) error {
	if r.texture != 0 && r.texW == w && r.texH == h {
		return nil
	}
	comRelease(r.texture)
	r.texture = 0
	var tex uintptr
	if _, err := comCall(r.dev, SlotCreateTexture, uintptr(w), uintptr(h), 1, usageDynamic,
		fmtA8R8G8B8, poolDefault, uintptr(unsafe.Pointer(&tex)), 0); err != nil {
		return fmt.Errorf("CreateTexture %dx%d: %w", w, h, err)
	}
	r.texture, r.texW, r.texH = tex, w, h
	return nil
}

// upload copies premultiplied RGBA rows into the BGRA texture.
func (r *Renderer) upload(pix []byte, stride, w, h int) error {
	var lr lockedRect
	if _, err := comCall(r.texture, slotLockRect, 0, uintptr(unsafe.Pointer(&lr)), 0, lockDiscard); err != nil {
		return fmt.Errorf("LockRect: %w", err)
	}
	for y := 0; y < h; y++ {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(lr.Bits+uintptr(y)*uintptr(lr.Pitch))), w*4)
		src := pix[y*stride : y*stride+w*4]
		for x := 0; x < w*4; x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = src[x+3]
		}
	}
	comCallRaw(r.texture, slotUnlockRect, 0)
	return nil
}

func (r *Renderer) setupState() {
	dev := r.dev
	comCallRaw(dev, SlotSetPixelShader, 0)
	comCallRaw(dev, SlotSetVertexShader, 0)
	comCallRaw(dev, SlotSetFVF, fvfXYZRHW|fvfTex1)

	for _, rs := range [][2]uintptr{
		{RSCullMode, cullNone},
		{RSLighting, 0},
		{RSZEnable, 0},
		{RSScissorTestEnable, 0},
		{RSAlphaBlendEnable, 1},
		{RSSrcBlend, blendOne},
		{RSDestBlend, blendInvSrcAlpha},
	} {
		comCallRaw(dev, SlotSetRenderState, rs[0], rs[1])
	}
	comCallRaw(dev, SlotSetTextureStageState, 0, tssColorOp, topSelectArg1)
	comCallRaw(dev, SlotSetTextureStageState, 0, tssColorArg1, taTexture)
	comCallRaw(dev, SlotSetTextureStageState, 0, tssAlphaOp, topSelectArg1)
	comCallRaw(dev, SlotSetTextureStageState, 0, tssAlphaArg1, taTexture)
	comCallRaw(dev, SlotSetSamplerState, 0, SampMinFilter, texFilterPoint)
	comCallRaw(dev, SlotSetSamplerState, 0, SampMagFilter, texFilterPoint)
	comCallRaw(dev, SlotSetTexture, 0, r.texture)
}
