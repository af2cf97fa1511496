package d3d9

import (
	"errors"
	"testing"
)

func TestSucceeded(t *testing.T) {
	tests := []struct {
		name string
		ret  uintptr
		want bool
	}{
		{"S_OK", 0, true},
		{"S_FALSE", 1, true},
		{"D3DERR_INVALIDCALL", uintptr(uint32(0x8876086C)), false},
		{"E_FAIL", uintptr(uint32(0x80004005)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Succeeded(tt.ret); got != tt.want {
				t.Errorf("Succeeded(%#x) = %v, want %v", tt.ret, got, tt.want)
			}
		})
	}
}

func TestHRESULTError(t *testing.T) {
	var err error = ErrInvalidCall
	if got := err.Error(); got != "HRESULT 0x8876086C" {
		t.Errorf("got %q", got)
	}
	var hr HRESULT
	if !errors.As(err, &hr) || hr != ErrInvalidCall {
		t.Errorf("errors.As did not recover the HRESULT")
	}
}
