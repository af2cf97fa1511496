package hook

import (
	"fmt"
	"sync"
)

// Func is a function reachable through a Table.
type Func func(args ...uintptr) uintptr

// TableStats counts engine operations.
type TableStats struct {
	Init, Uninit                    int
	Create, Enable, Disable, Remove int
	Active                          int
}

type tableHook struct {
	detour  Detour
	enabled bool
}

// Table is a software Engine over an in-process dispatch table. Functions are
// registered under synthetic addresses and reached through Invoke, which is
// where redirection happens. It stands in for native code in the simulator
// and in tests.
type Table struct {
	mu          sync.RWMutex
	fns         map[uintptr]Func
	hooks       map[uintptr]*tableHook
	next        uintptr
	initialized bool
	stats       TableStats

	// originals holds one pass-through address per hooked target, reused
	// by later Creates on the same target.
	originals map[uintptr]uintptr

	initErr   error
	createErr func(target uintptr) error
	enableErr func(target uintptr) error
}

const tableBase = 0x10000

func NewTable() *Table {
	return &Table{
		fns:       make(map[uintptr]Func),
		hooks:     make(map[uintptr]*tableHook),
		originals: make(map[uintptr]uintptr),
		next:      tableBase,
	}
}

// Register makes fn callable at a new address.
func (t *Table) Register(fn Func) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registerLocked(fn)
}

func (t *Table) registerLocked(fn Func) uintptr {
	t.next += 0x10
	addr := t.next
	t.fns[addr] = fn
	return addr
}

// Invoke calls the function at addr the way a native caller would: if addr is
// hooked and enabled the detour runs instead.
func (t *Table) Invoke(addr uintptr, args ...uintptr) uintptr {
	t.mu.RLock()
	var detour Detour
	if h, ok := t.hooks[addr]; ok && h.enabled {
		detour = h.detour
	}
	fn := t.fns[addr]
	t.mu.RUnlock()

	if detour != nil {
		return detour(args...)
	}
	if fn == nil {
		panic(fmt.Sprintf("hook: call to unregistered address %#x", addr))
	}
	return fn(args...)
}

// SetInitError makes subsequent Init calls fail with err (nil clears it).
func (t *Table) SetInitError(err error) {
	t.mu.Lock()
	t.initErr = err
	t.mu.Unlock()
}

// SetCreateFault installs a hook consulted by Create; a non-nil result fails
// the call.
func (t *Table) SetCreateFault(fn func(target uintptr) error) {
	t.mu.Lock()
	t.createErr = fn
	t.mu.Unlock()
}

// SetEnableFault installs a hook consulted by Enable.
func (t *Table) SetEnableFault(fn func(target uintptr) error) {
	t.mu.Lock()
	t.enableErr = fn
	t.mu.Unlock()
}

func (t *Table) Stats() TableStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.stats
	s.Active = len(t.hooks)
	return s
}

func (t *Table) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initErr != nil {
		return t.initErr
	}
	t.stats.Init++
	t.initialized = true
	return nil
}

// Uninit removes every remaining hook.
func (t *Table) Uninit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized {
		return ErrNotInitialized
	}
	t.stats.Uninit++
	t.initialized = false
	for target := range t.hooks {
		delete(t.hooks, target)
	}
	return nil
}

func (t *Table) Create(target uintptr, arity int, detour Detour) (uintptr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized {
		return 0, ErrNotInitialized
	}
	if t.createErr != nil {
		if err := t.createErr(target); err != nil {
			return 0, err
		}
	}
	fn, ok := t.fns[target]
	if !ok {
		return 0, fmt.Errorf("no function at %#x", target)
	}
	if _, ok := t.hooks[target]; ok {
		return 0, fmt.Errorf("%#x: %w", target, ErrAlreadyCreated)
	}
	t.hooks[target] = &tableHook{detour: detour}
	t.stats.Create++
	original, ok := t.originals[target]
	if !ok {
		original = t.registerLocked(fn)
		t.originals[target] = original
	}
	return original, nil
}

func (t *Table) Enable(target uintptr) error {
	return t.toggle(target, true)
}

func (t *Table) Disable(target uintptr) error {
	return t.toggle(target, false)
}

func (t *Table) toggle(target uintptr, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.hooks[target]
	if !ok {
		return fmt.Errorf("%#x: %w", target, ErrNotHooked)
	}
	if on {
		if t.enableErr != nil {
			if err := t.enableErr(target); err != nil {
				return err
			}
		}
		t.stats.Enable++
	} else {
		t.stats.Disable++
	}
	h.enabled = on
	return nil
}

func (t *Table) Remove(target uintptr) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.hooks[target]; !ok {
		return fmt.Errorf("%#x: %w", target, ErrNotHooked)
	}
	delete(t.hooks, target)
	t.stats.Remove++
	return nil
}

// Call invokes original directly, bypassing any hook.
func (t *Table) Call(original uintptr, args ...uintptr) uintptr {
	t.mu.RLock()
	fn := t.fns[original]
	t.mu.RUnlock()
	if fn == nil {
		panic(fmt.Sprintf("hook: call to unregistered address %#x", original))
	}
	return fn(args...)
}
