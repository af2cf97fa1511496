package winproc

import (
	"fmt"
	"sync"
)

// Registry is an in-process window manager: windows are handles with a
// current procedure, and procedures live at synthetic addresses. The
// simulator's host window and the tests use it in place of user32.
type Registry struct {
	mu      sync.RWMutex
	procs   map[uintptr]procEntry
	windows map[uintptr]uintptr
	next    uintptr
}

type procEntry struct {
	proc Proc
	next uintptr
}

func NewRegistry() *Registry {
	return &Registry{
		procs:   make(map[uintptr]procEntry),
		windows: make(map[uintptr]uintptr),
		next:    0x1000,
	}
}

func (r *Registry) alloc() uintptr {
	r.next += 0x10
	return r.next
}

// CreateWindow makes a window whose procedure is proc.
func (r *Registry) CreateWindow(proc Proc) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr := r.alloc()
	r.procs[addr] = procEntry{proc: proc}
	hwnd := r.alloc()
	r.windows[hwnd] = addr
	return hwnd
}

// ProcAddress returns the address of the procedure currently bound to hwnd.
func (r *Registry) ProcAddress(hwnd uintptr) (uintptr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.windows[hwnd]
	return addr, ok
}

// Send delivers a message to the window's current procedure.
func (r *Registry) Send(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	r.mu.RLock()
	e, ok := r.procs[r.windows[hwnd]]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return e.proc(Message{Hwnd: hwnd, Msg: msg, WParam: wParam, LParam: lParam}, e.next)
}

func (r *Registry) Subclass(hwnd uintptr, proc Proc) (uintptr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	original, ok := r.windows[hwnd]
	if !ok {
		return 0, fmt.Errorf("%#x: %w", hwnd, ErrNoWindow)
	}
	addr := r.alloc()
	r.procs[addr] = procEntry{proc: proc, next: original}
	r.windows[hwnd] = addr
	return original, nil
}

func (r *Registry) Restore(hwnd, original uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[hwnd]; !ok {
		return fmt.Errorf("%#x: %w", hwnd, ErrNoWindow)
	}
	if _, ok := r.procs[original]; !ok {
		return fmt.Errorf("restore %#x: unknown procedure %#x", hwnd, original)
	}
	r.windows[hwnd] = original
	return nil
}

func (r *Registry) CallOriginal(original uintptr, m Message) uintptr {
	r.mu.RLock()
	e, ok := r.procs[original]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return e.proc(m, e.next)
}
