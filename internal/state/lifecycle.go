package state

import "sync/atomic"

// Lifecycle is the overlay's process-wide lifecycle state.
//
// Legal transitions:
//
//	Uninitialized -> Waiting
//	Waiting       -> Ready | Shutdown
//	Ready         -> Shutdown
//
// Shutdown is absorbing.
type Lifecycle int32

const (
	Uninitialized Lifecycle = iota
	Waiting
	Ready
	Shutdown
)

func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "uninitialized"
	case Waiting:
		return "waiting"
	case Ready:
		return "ready"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// CanTransition reports whether from -> to is in the legal transition table.
func CanTransition(from, to Lifecycle) bool {
	switch from {
	case Uninitialized:
		return to == Waiting
	case Waiting:
		return to == Ready || to == Shutdown
	case Ready:
		return to == Shutdown
	default:
		return false
	}
}

// Machine holds a Lifecycle value. All mutation goes through Transition or
// Shutdown; there is no lock.
type Machine struct {
	v atomic.Int32
}

func (m *Machine) Load() Lifecycle { return Lifecycle(m.v.Load()) }

func (m *Machine) Is(l Lifecycle) bool { return m.Load() == l }

// Transition moves the machine from -> to if the machine is currently in
// from and the transition is legal. It reports whether the move happened.
func (m *Machine) Transition(from, to Lifecycle) bool {
	if !CanTransition(from, to) {
		return false
	}
	return m.v.CompareAndSwap(int32(from), int32(to))
}

// Shutdown moves the machine to Shutdown from whichever state allows it and
// returns the state it left. changed is false when the machine was already in
// Shutdown, or was never started.
func (m *Machine) Shutdown() (prev Lifecycle, changed bool) {
	for {
		cur := m.Load()
		if !CanTransition(cur, Shutdown) {
			return cur, false
		}
		if m.v.CompareAndSwap(int32(cur), int32(Shutdown)) {
			return cur, true
		}
	}
}
