package state

import "sync/atomic"

// Frame is the two-phase handoff between the frame producer (begin and
// composite, driven by an external tick) and the consumer (the present hook).
//
// It is a single-slot mailbox: at most one composited frame is pending, and
// staging a new one overwrites any frame the consumer has not taken yet.
// Dropped frames are expected when the producer runs ahead of present.
type Frame[T any] struct {
	begun   atomic.Bool
	pending atomic.Pointer[T]
}

// Begin opens a frame. It returns false if one is already open.
func (f *Frame[T]) Begin() bool { return f.begun.CompareAndSwap(false, true) }

// Close closes the open frame. It returns false if none was open.
func (f *Frame[T]) Close() bool { return f.begun.CompareAndSwap(true, false) }

func (f *Frame[T]) Begun() bool { return f.begun.Load() }

// Stage publishes v as the pending frame, replacing any unconsumed one.
func (f *Frame[T]) Stage(v *T) { f.pending.Store(v) }

// Take removes and returns the pending frame, or nil if nothing is staged.
func (f *Frame[T]) Take() *T { return f.pending.Swap(nil) }

// Ready reports whether a composited frame is waiting to be drawn.
func (f *Frame[T]) Ready() bool { return f.pending.Load() != nil }

func (f *Frame[T]) Reset() {
	f.begun.Store(false)
	f.pending.Store(nil)
}
