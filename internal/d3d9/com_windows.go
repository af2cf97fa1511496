//go:build windows

package d3d9

import (
	"fmt"
	"syscall"
	"unsafe"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// SlotAddress reads entry index of the vtable behind a COM object. It is the
// only place that walks a vtable by hand.
func SlotAddress(obj uintptr, index int) uintptr {
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtbl + uintptr(index)*ptrSize))
}

// comCall invokes vtable method index on obj and turns a failed HRESULT
// into an error.
func comCall(obj uintptr, index int, args ...uintptr) (uintptr, error) {
	ret := comCallRaw(obj, index, args...)
	if int32(ret) < 0 {
		return ret, fmt.Errorf("vtable[%d]: %w", index, HRESULT(int32(ret)))
	}
	return ret, nil
}

// comCallRaw invokes vtable method index on obj and returns what it returned.
func comCallRaw(obj uintptr, index int, args ...uintptr) uintptr {
	fn := SlotAddress(obj, index)
	var ret uintptr
	switch len(args) {
	case 0:
		ret, _, _ = syscall.SyscallN(fn, obj)
	case 1:
		ret, _, _ = syscall.SyscallN(fn, obj, args[0])
	case 2:
		ret, _, _ = syscall.SyscallN(fn, obj, args[0], args[1])
	case 3:
		ret, _, _ = syscall.SyscallN(fn, obj, args[0], args[1], args[2])
	default:
		all := make([]uintptr, 0, 1+len(args))
		all = append(all, obj)
		all = append(all, args...)
		ret, _, _ = syscall.SyscallN(fn, all...)
	}
	return ret
}

// comRelease calls IUnknown::Release.
func comRelease(obj uintptr) {
	if obj != 0 {
		comCallRaw(obj, 2)
	}
}
