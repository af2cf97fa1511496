//go:build !windows

package d3d9

import (
	"errors"
	"testing"
)

func TestProbeUnsupported(t *testing.T) {
	addrs, err := NewProber().Probe()
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Probe err = %v, want ErrUnsupported", err)
	}
	if addrs != (Addresses{}) {
		t.Errorf("Probe addresses = %+v, want zero", addrs)
	}
}
