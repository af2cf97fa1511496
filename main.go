// Command d3doverlay builds as a c-shared library that a Direct3D 9 host
// loads. The exported entry points live in exports_windows.go.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rook-computer/d3doverlay/internal/app"
	"github.com/rook-computer/d3doverlay/internal/config"
	"github.com/rook-computer/d3doverlay/internal/overlay"
)

// envFile is looked up in the host's working directory.
const envFile = "d3doverlay.env"

var process = newProcess()

func newProcess() *app.Process {
	p := app.NewProcess(envFile, func(config.Config) (overlay.Deps, error) {
		return app.NativeDeps()
	})
	p.OnConfig = func(cfg config.Config) {
		// Best-effort: panics from the host thread otherwise vanish with
		// the host's console.
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
		}
	}
	return p
}

func initOverlay() bool {
	if err := process.Init(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "d3doverlay init error:", err)
		return false
	}
	return true
}

// withOverlay runs fn when an overlay is running. Calls made before init or
// after shutdown are dropped.
func withOverlay(fn func(*overlay.Overlay)) {
	if ov := process.Overlay(); ov != nil {
		fn(ov)
	}
}

func main() {}
