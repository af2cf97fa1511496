//go:build !windows

package d3d9

// Prober always fails off Windows; there is no Direct3D runtime to probe.
type Prober struct{}

func NewProber() *Prober { return &Prober{} }

func (p *Prober) Probe() (Addresses, error) { return Addresses{}, ErrUnsupported }
