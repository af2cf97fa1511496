//go:build !windows

package winproc

type unsupported struct{}

// NewBinder returns a binder whose Subclass always fails.
func NewBinder() Binder { return unsupported{} }

func (unsupported) Subclass(uintptr, Proc) (uintptr, error) { return 0, ErrUnsupported }
func (unsupported) Restore(uintptr, uintptr) error          { return ErrUnsupported }
func (unsupported) CallOriginal(uintptr, Message) uintptr   { return 0 }
