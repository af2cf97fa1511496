// Package assets embeds the simulator's default Lua driver and its control
// page.
package assets

import (
	"embed"
	"io/fs"
)

// DemoScript drives the overlay when no script is configured.
//
//go:embed demo.lua
var DemoScript string

//go:embed web
var webFS embed.FS

// WebUI is rooted at internal/assets/web and holds index.html.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}
