//go:build windows

package winproc

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                = windows.NewLazySystemDLL("user32.dll")
	procSetWindowLongPtrW = user32.NewProc(setWindowLongName)
	procGetWindowLongPtrW = user32.NewProc(getWindowLongName)
	procCallWindowProcW   = user32.NewProc("CallWindowProcW")
	procIsWindow          = user32.NewProc("IsWindow")
	procDefWindowProcW    = user32.NewProc("DefWindowProcW")
)

const gwlpWndProc = ^uintptr(4 - 1) // GWLP_WNDPROC (-4)

// x86 user32 only exports the 32-bit names.
var (
	setWindowLongName = pick("SetWindowLongPtrW", "SetWindowLongW")
	getWindowLongName = pick("GetWindowLongPtrW", "GetWindowLongW")
)

func pick(name64, name32 string) string {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return name64
	}
	return name32
}

// NewCallback never releases what it creates, so all subclassed windows share
// one entry point that dispatches on hwnd.
var (
	dispatchOnce sync.Once
	dispatchAddr uintptr

	bindingsMu sync.RWMutex
	bindings   = map[uintptr]*binding{}
)

type binding struct {
	proc     Proc
	original uintptr
}

func dispatch(hwnd, msg, wParam, lParam uintptr) uintptr {
	bindingsMu.RLock()
	b := bindings[hwnd]
	bindingsMu.RUnlock()
	if b == nil {
		// Restored on another thread between the swap and the unbind.
		current, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlpWndProc)
		if next := unboundTarget(current, dispatchAddr); next != 0 {
			r, _, _ := syscall.SyscallN(procCallWindowProcW.Addr(), next, hwnd, msg, wParam, lParam)
			return r
		}
		r, _, _ := syscall.SyscallN(procDefWindowProcW.Addr(), hwnd, msg, wParam, lParam)
		return r
	}
	return b.proc(Message{Hwnd: hwnd, Msg: uint32(msg), WParam: wParam, LParam: lParam}, b.original)
}

// User32 subclasses real windows with SetWindowLongPtrW.
type User32 struct{}

func NewBinder() Binder { return User32{} }

func (User32) Subclass(hwnd uintptr, proc Proc) (uintptr, error) {
	if ok, _, _ := procIsWindow.Call(hwnd); ok == 0 {
		return 0, fmt.Errorf("%#x: %w", hwnd, ErrNoWindow)
	}
	dispatchOnce.Do(func() {
		dispatchAddr = windows.NewCallback(dispatch)
	})

	current, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlpWndProc)
	// Bind before swapping so the first message already finds the proc.
	bindingsMu.Lock()
	bindings[hwnd] = &binding{proc: proc, original: current}
	bindingsMu.Unlock()

	original, _, callErr := procSetWindowLongPtrW.Call(hwnd, gwlpWndProc, dispatchAddr)
	if original == 0 {
		bindingsMu.Lock()
		delete(bindings, hwnd)
		bindingsMu.Unlock()
		return 0, fmt.Errorf("SetWindowLongPtrW(%#x) failed: %w", hwnd, callErr)
	}
	return original, nil
}

func (User32) Restore(hwnd, original uintptr) error {
	prev, _, callErr := procSetWindowLongPtrW.Call(hwnd, gwlpWndProc, original)
	bindingsMu.Lock()
	delete(bindings, hwnd)
	bindingsMu.Unlock()
	if prev == 0 {
		return fmt.Errorf("SetWindowLongPtrW(%#x) restore failed: %w", hwnd, callErr)
	}
	return nil
}

func (User32) CallOriginal(original uintptr, m Message) uintptr {
	r, _, _ := syscall.SyscallN(procCallWindowProcW.Addr(), original, m.Hwnd, uintptr(m.Msg), m.WParam, m.LParam)
	return r
}
