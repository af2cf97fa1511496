//go:build windows

package app

import (
	"github.com/rook-computer/d3doverlay/internal/d3d9"
	"github.com/rook-computer/d3doverlay/internal/hook"
	"github.com/rook-computer/d3doverlay/internal/overlay"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

// NativeDeps returns the pieces that act on the real Direct3D 9 runtime and
// user32 of the current process.
func NativeDeps() (overlay.Deps, error) {
	style := ui.DefaultStyle()
	return overlay.Deps{
		Engine:     hook.NewEngine(),
		Prober:     d3d9.NewProber(),
		Renderer:   d3d9.NewRenderer(style),
		Binder:     winproc.NewBinder(),
		OpenDevice: d3d9.Open,
		UI:         ui.NewContext(ui.WithStyle(style), ui.WithKeyboardNav(true)),
	}, nil
}
