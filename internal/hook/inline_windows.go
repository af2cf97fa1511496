//go:build windows

package hook

import (
	"encoding/binary"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	mode64 = unsafe.Sizeof(uintptr(0)) == 8

	absJumpSize = 14 // jmp [rip+0]; dq target
	relJumpSize = 5  // jmp rel32
	scanWindow  = 32
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procFlushInstructionCache = kernel32.NewProc("FlushInstructionCache")
)

type inlineHook struct {
	target     uintptr
	trampoline uintptr
	stolen     []byte
	patch      []byte
	thunk      *thunk
	enabled    bool
}

// Inline is the native Engine. It overwrites the start of the target with a
// jump to a detour thunk and moves the displaced instructions into an
// executable trampoline that jumps back past the patch.
type Inline struct {
	mu          sync.Mutex
	initialized bool
	hooks       map[uintptr]*inlineHook
}

func NewInline() *Inline {
	return &Inline{hooks: make(map[uintptr]*inlineHook)}
}

// NewEngine returns the engine for this platform.
func NewEngine() Engine { return NewInline() }

func (e *Inline) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
	return nil
}

// Uninit restores every hook still installed.
func (e *Inline) Uninit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}
	var firstErr error
	for target, h := range e.hooks {
		if err := e.removeLocked(h); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.hooks, target)
	}
	e.initialized = false
	return firstErr
}

func patchSize() int {
	if mode64 {
		return absJumpSize
	}
	return relJumpSize
}

// jumpBytes encodes a jump placed at from that lands on to.
func jumpBytes(from, to uintptr) []byte {
	if mode64 {
		b := make([]byte, absJumpSize)
		copy(b, []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00})
		binary.LittleEndian.PutUint64(b[6:], uint64(to))
		return b
	}
	b := make([]byte, relJumpSize)
	b[0] = 0xE9
	binary.LittleEndian.PutUint32(b[1:], uint32(to-(from+relJumpSize)))
	return b
}

func (e *Inline) Create(target uintptr, arity int, detour Detour) (uintptr, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return 0, ErrNotInitialized
	}
	if target == 0 {
		return 0, fmt.Errorf("null target")
	}
	if _, ok := e.hooks[target]; ok {
		return 0, fmt.Errorf("%#x: %w", target, ErrAlreadyCreated)
	}

	code := unsafe.Slice((*byte)(unsafe.Pointer(target)), scanWindow)
	n, err := stolenLength(code, patchSize(), mode64)
	if err != nil {
		return 0, fmt.Errorf("decode prologue at %#x: %w", target, err)
	}

	th, err := acquireThunk(arity, detour)
	if err != nil {
		return 0, err
	}

	size := uintptr(n + absJumpSize)
	tramp, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		th.release()
		return 0, fmt.Errorf("VirtualAlloc for trampoline failed: %w", err)
	}

	h := &inlineHook{
		target:     target,
		trampoline: tramp,
		stolen:     append([]byte(nil), code[:n]...),
		thunk:      th,
	}
	body := unsafe.Slice((*byte)(unsafe.Pointer(tramp)), size)
	copy(body, h.stolen)
	copy(body[n:], jumpBytes(tramp+uintptr(n), target+uintptr(n)))
	flushInstructionCache(tramp, size)

	h.patch = jumpBytes(target, th.callback)
	th.original.Store(tramp)
	e.hooks[target] = h
	return tramp, nil
}

func (e *Inline) Enable(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.hooks[target]
	if !ok {
		return fmt.Errorf("%#x: %w", target, ErrNotHooked)
	}
	if h.enabled {
		return nil
	}
	if err := writeMemory(target, h.patch); err != nil {
		return err
	}
	h.enabled = true
	return nil
}

func (e *Inline) Disable(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.hooks[target]
	if !ok {
		return fmt.Errorf("%#x: %w", target, ErrNotHooked)
	}
	return e.disableLocked(h)
}

func (e *Inline) disableLocked(h *inlineHook) error {
	if !h.enabled {
		return nil
	}
	if err := writeMemory(h.target, h.stolen[:len(h.patch)]); err != nil {
		return err
	}
	h.enabled = false
	return nil
}

func (e *Inline) Remove(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.hooks[target]
	if !ok {
		return fmt.Errorf("%#x: %w", target, ErrNotHooked)
	}
	delete(e.hooks, target)
	return e.removeLocked(h)
}

// removeLocked restores the target and releases the thunk. Trampolines are
// never freed; a detour still running on another thread may call through one.
func (e *Inline) removeLocked(h *inlineHook) error {
	if err := e.disableLocked(h); err != nil {
		return err
	}
	h.thunk.release()
	return nil
}

func (e *Inline) Call(original uintptr, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(original, args...)
	return r
}

// writeMemory writes data over code at address.
func writeMemory(address uintptr, data []byte) error {
	var oldProtect uint32
	if err := windows.VirtualProtect(address, uintptr(len(data)), windows.PAGE_EXECUTE_READWRITE, &oldProtect); err != nil {
		return fmt.Errorf("VirtualProtect failed: %w", err)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(address)), len(data)), data)
	if err := windows.VirtualProtect(address, uintptr(len(data)), oldProtect, &oldProtect); err != nil {
		return fmt.Errorf("VirtualProtect failed to restore: %w", err)
	}
	flushInstructionCache(address, uintptr(len(data)))
	return nil
}

func flushInstructionCache(address, size uintptr) {
	_, _, _ = procFlushInstructionCache.Call(uintptr(windows.CurrentProcess()), address, size)
}
