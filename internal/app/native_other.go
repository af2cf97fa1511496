//go:build !windows

package app

import (
	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/overlay"
)

// NativeDeps fails off Windows; use the simulator there.
func NativeDeps() (overlay.Deps, error) {
	return overlay.Deps{}, d3d9.ErrUnsupported
}
