// Package winproc models window messages and replaces a window's message
// procedure with a Go one while keeping the original reachable.
package winproc

import "errors"

var (
	ErrUnsupported = errors.New("winproc: window subclassing not supported on this platform")
	ErrNoWindow    = errors.New("winproc: no such window")
)

// Message is one window message as delivered to a window procedure.
type Message struct {
	Hwnd   uintptr
	Msg    uint32
	WParam uintptr
	LParam uintptr
}

// Proc is a window procedure. next is the procedure it replaced, to be passed
// to CallOriginal for messages it does not consume.
type Proc func(m Message, next uintptr) uintptr

// Binder swaps window procedures.
type Binder interface {
	// Subclass makes proc the procedure of hwnd and returns the procedure it
	// replaced.
	Subclass(hwnd uintptr, proc Proc) (original uintptr, err error)
	// Restore puts original back as the procedure of hwnd.
	Restore(hwnd, original uintptr) error
	// CallOriginal delivers m to a procedure returned by Subclass.
	CallOriginal(original uintptr, m Message) uintptr
}

// unboundTarget picks where a message goes when it reaches the shared
// subclass entry point for a window that is no longer bound: the window's
// current procedure, unless that is still the entry point itself. Zero means
// the default window procedure.
func unboundTarget(current, entry uintptr) uintptr {
	if current == 0 || current == entry {
		return 0
	}
	return current
}

// Window messages and virtual keys the overlay cares about.
const (
	WM_SETCURSOR   = 0x0020
	WM_KEYDOWN     = 0x0100
	WM_KEYUP       = 0x0101
	WM_CHAR        = 0x0102
	WM_SYSKEYDOWN  = 0x0104
	WM_SYSKEYUP    = 0x0105
	WM_MOUSEMOVE   = 0x0200
	WM_LBUTTONDOWN = 0x0201
	WM_LBUTTONUP   = 0x0202
	WM_RBUTTONDOWN = 0x0204
	WM_RBUTTONUP   = 0x0205
	WM_MBUTTONDOWN = 0x0207
	WM_MBUTTONUP   = 0x0208
	WM_MOUSEWHEEL  = 0x020A

	VK_TAB    = 0x09
	VK_RETURN = 0x0D
	VK_ESCAPE = 0x1B
	VK_SPACE  = 0x20
	VK_INSERT = 0x2D

	WHEEL_DELTA = 120
)

// IsMouse reports whether msg belongs to the mouse input class.
func IsMouse(msg uint32) bool {
	switch msg {
	case WM_MOUSEMOVE, WM_LBUTTONDOWN, WM_LBUTTONUP, WM_RBUTTONDOWN, WM_RBUTTONUP,
		WM_MBUTTONDOWN, WM_MBUTTONUP, WM_MOUSEWHEEL:
		return true
	}
	return false
}

// IsKeyboard reports whether msg belongs to the keyboard input class.
func IsKeyboard(msg uint32) bool {
	switch msg {
	case WM_KEYDOWN, WM_KEYUP, WM_CHAR, WM_SYSKEYDOWN, WM_SYSKEYUP:
		return true
	}
	return false
}

// PointFromLParam unpacks the signed client coordinates of a mouse message.
func PointFromLParam(lParam uintptr) (x, y int) {
	return int(int16(uint16(lParam))), int(int16(uint16(lParam >> 16)))
}

// MakeLParam packs client coordinates the way mouse messages carry them.
func MakeLParam(x, y int) uintptr {
	return uintptr(uint32(y)&0xFFFF)<<16 | uintptr(uint32(x)&0xFFFF)
}

// WheelDelta extracts the signed wheel rotation from a WM_MOUSEWHEEL wParam.
func WheelDelta(wParam uintptr) int {
	return int(int16(uint16(wParam >> 16)))
}
