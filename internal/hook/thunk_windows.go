//go:build windows

package hook

import (
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/windows"
)

// Callbacks created by windows.NewCallback are never released, and the
// runtime caps how many can exist. Detours therefore run through a small
// fixed pool of thunks, each created once and rebound to a Go closure when a
// hook claims it.

const (
	maxThunkArity  = 4
	thunksPerArity = 4
)

type thunk struct {
	arity    int
	callback uintptr
	inUse    bool

	detour   atomic.Pointer[Detour]
	original atomic.Uintptr
}

var (
	thunkMu sync.Mutex
	thunks  [maxThunkArity + 1][thunksPerArity]*thunk
)

func acquireThunk(arity int, detour Detour) (*thunk, error) {
	if arity < 1 || arity > maxThunkArity {
		return nil, fmt.Errorf("detour arity %d outside 1..%d", arity, maxThunkArity)
	}
	thunkMu.Lock()
	defer thunkMu.Unlock()
	for i := range thunks[arity] {
		t := thunks[arity][i]
		if t == nil {
			t = &thunk{arity: arity}
			t.callback = newThunkCallback(t)
			thunks[arity][i] = t
		}
		if t.inUse {
			continue
		}
		t.inUse = true
		t.detour.Store(&detour)
		return t, nil
	}
	return nil, fmt.Errorf("no free detour thunk for arity %d", arity)
}

func (t *thunk) release() {
	thunkMu.Lock()
	t.detour.Store(nil)
	t.inUse = false
	thunkMu.Unlock()
}

// invoke runs the bound detour. A call that races a release falls through to
// the original function.
func (t *thunk) invoke(args ...uintptr) uintptr {
	if d := t.detour.Load(); d != nil {
		return (*d)(args...)
	}
	if orig := t.original.Load(); orig != 0 {
		r, _, _ := syscall.SyscallN(orig, args...)
		return r
	}
	return 0
}

func newThunkCallback(t *thunk) uintptr {
	switch t.arity {
	case 1:
		return windows.NewCallback(func(a uintptr) uintptr { return t.invoke(a) })
	case 2:
		return windows.NewCallback(func(a, b uintptr) uintptr { return t.invoke(a, b) })
	case 3:
		return windows.NewCallback(func(a, b, c uintptr) uintptr { return t.invoke(a, b, c) })
	default:
		return windows.NewCallback(func(a, b, c, d uintptr) uintptr { return t.invoke(a, b, c, d) })
	}
}
