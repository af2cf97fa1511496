// Package hook redirects calls aimed at a native function to a replacement
// while keeping the original callable.
//
// An Engine is the process-wide hooking subsystem. A Hook binds one target
// address to one detour through an Engine. Neither type serialises callers.
package hook

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrUnsupported    = errors.New("hook: engine not supported on this platform")
	ErrNotCreated     = errors.New("hook: not created")
	ErrAlreadyCreated = errors.New("hook: already created")
	ErrNotHooked      = errors.New("hook: target is not hooked")
	ErrNotInitialized = errors.New("hook: engine not initialized")
)

// Detour is the replacement for an intercepted function. It receives the raw
// native arguments of the call and returns the raw native result.
type Detour func(args ...uintptr) uintptr

// Engine is the global hooking subsystem.
type Engine interface {
	Init() error
	Uninit() error

	// Create installs an interception of target that will call detour once
	// enabled. arity is the number of pointer-sized arguments the target
	// takes. It returns the address that invokes the untouched target.
	Create(target uintptr, arity int, detour Detour) (original uintptr, err error)
	Enable(target uintptr) error
	Disable(target uintptr) error
	Remove(target uintptr) error

	// Call invokes a function address returned by Create.
	Call(original uintptr, args ...uintptr) uintptr
}

// Hook is the binding for a single intercepted entry point.
type Hook struct {
	Name  string
	Arity int

	engine   Engine
	target   uintptr
	original atomic.Uintptr
	created  bool
	enabled  bool
}

// Create installs the interception. On failure nothing is left installed for
// this hook.
func (h *Hook) Create(engine Engine, target uintptr, detour Detour) error {
	if h.created {
		return fmt.Errorf("%s: %w", h.Name, ErrAlreadyCreated)
	}
	original, err := engine.Create(target, h.Arity, detour)
	if err != nil {
		return fmt.Errorf("create %s hook at %#x: %w", h.Name, target, err)
	}
	h.engine = engine
	h.target = target
	h.original.Store(original)
	h.created = true
	return nil
}

func (h *Hook) Enable() error {
	if !h.created {
		return fmt.Errorf("%s: %w", h.Name, ErrNotCreated)
	}
	if h.enabled {
		return nil
	}
	if err := h.engine.Enable(h.target); err != nil {
		return fmt.Errorf("enable %s hook: %w", h.Name, err)
	}
	h.enabled = true
	return nil
}

func (h *Hook) Disable() error {
	if !h.created {
		return fmt.Errorf("%s: %w", h.Name, ErrNotCreated)
	}
	if !h.enabled {
		return nil
	}
	if err := h.engine.Disable(h.target); err != nil {
		return fmt.Errorf("disable %s hook: %w", h.Name, err)
	}
	h.enabled = false
	return nil
}

// Remove permanently restores the target. The binding can be created again
// afterwards.
func (h *Hook) Remove() error {
	if !h.created {
		return nil
	}
	err := h.engine.Remove(h.target)
	h.created = false
	h.enabled = false
	if err != nil {
		return fmt.Errorf("remove %s hook: %w", h.Name, err)
	}
	return nil
}

func (h *Hook) Created() bool   { return h.created }
func (h *Hook) Enabled() bool   { return h.enabled }
func (h *Hook) Target() uintptr { return h.target }

// Original returns the address that invokes the pristine target. It stays
// valid for detour calls already in flight when the hook is removed.
func (h *Hook) Original() uintptr { return h.original.Load() }

// Call forwards to the pristine target.
func (h *Hook) Call(args ...uintptr) uintptr {
	return h.engine.Call(h.original.Load(), args...)
}
