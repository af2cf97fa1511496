//go:build windows

package d3d9

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	d3d9DLL              = windows.NewLazySystemDLL("d3d9.dll")
	procDirect3DCreate9  = d3d9DLL.NewProc("Direct3DCreate9")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procUnregisterClassW = user32.NewProc("UnregisterClassW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	sdkVersion = 32

	adapterDefault           = 0
	devTypeHAL               = 1
	createSoftwareVertexProc = 0x20
	createMultithreaded      = 0x4
	swapEffectDiscard        = 1

	wsOverlappedWindow = 0x00CF0000

	// IDirect3D9::CreateDevice
	slotD3DCreateDevice = 16

	probeClassName = "d3doverlay_probe"
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

// presentParameters matches D3DPRESENT_PARAMETERS.
type presentParameters struct {
	BackBufferWidth           uint32
	BackBufferHeight          uint32
	BackBufferFormat          uint32
	BackBufferCount           uint32
	MultiSampleType           uint32
	MultiSampleQuality        uint32
	SwapEffect                uint32
	DeviceWindow              uintptr
	Windowed                  int32
	EnableAutoDepthStencil    int32
	AutoDepthStencilFormat    uint32
	Flags                     uint32
	FullScreenRefreshRateInHz uint32
	PresentationInterval      uint32
}

// Prober finds the present and reset entry points by creating a throwaway
// device on a hidden window. Every object it creates is released before
// Probe returns, whatever the outcome.
type Prober struct{}

func NewProber() *Prober { return &Prober{} }

func (p *Prober) Probe() (Addresses, error) {
	className, err := windows.UTF16PtrFromString(probeClassName)
	if err != nil {
		return Addresses{}, err
	}
	instance, _, _ := procGetModuleHandleW.Call(0)

	wc := wndClassEx{
		WndProc:   procDefWindowProcW.Addr(),
		Instance:  instance,
		ClassName: className,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	// A class left registered by an earlier attempt still works, so the
	// result is not checked.
	_, _, _ = procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	defer procUnregisterClassW.Call(uintptr(unsafe.Pointer(className)), instance)

	hwnd, _, callErr := procCreateWindowExW.Call(
		0, uintptr(unsafe.Pointer(className)), uintptr(unsafe.Pointer(className)), wsOverlappedWindow,
		0, 0, 100, 100, 0, 0, instance, 0,
	)
	if hwnd == 0 {
		return Addresses{}, fmt.Errorf("CreateWindowExW failed: %w", callErr)
	}
	defer procDestroyWindow.Call(hwnd)

	d3d, _, _ := procDirect3DCreate9.Call(sdkVersion)
	if d3d == 0 {
		return Addresses{}, fmt.Errorf("Direct3DCreate9 returned null")
	}
	defer comRelease(d3d)

	pp := presentParameters{
		Windowed:     1,
		SwapEffect:   swapEffectDiscard,
		DeviceWindow: hwnd,
	}
	var dev uintptr
	_, err = comCall(d3d, slotD3DCreateDevice,
		adapterDefault, devTypeHAL, hwnd,
		createSoftwareVertexProc|createMultithreaded,
		uintptr(unsafe.Pointer(&pp)), uintptr(unsafe.Pointer(&dev)))
	if err != nil {
		return Addresses{}, fmt.Errorf("CreateDevice: %w", err)
	}
	if dev == 0 {
		return Addresses{}, fmt.Errorf("CreateDevice returned a null device")
	}
	defer comRelease(dev)

	return Addresses{
		Present: SlotAddress(dev, SlotEndScene),
		Reset:   SlotAddress(dev, SlotReset),
	}, nil
}
