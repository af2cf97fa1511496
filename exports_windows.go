package main

import "C"

import "github.com/rook-computer/d3doverlay/internal/overlay"

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

//export OverlayInit
func OverlayInit() C.int { return cbool(initOverlay()) }

//export OverlayShutdown
func OverlayShutdown() { process.Shutdown() }

//export OverlayBeginFrame
func OverlayBeginFrame() { withOverlay((*overlay.Overlay).BeginFrame) }

//export OverlayPresentFrame
func OverlayPresentFrame() { withOverlay((*overlay.Overlay).CompositeFrame) }

//export OverlaySetVisible
func OverlaySetVisible(visible C.int) {
	withOverlay(func(ov *overlay.Overlay) { ov.SetVisible(visible != 0) })
}

//export OverlayIsVisible
func OverlayIsVisible() (v C.int) {
	withOverlay(func(ov *overlay.Overlay) { v = cbool(ov.IsVisible()) })
	return v
}

//export OverlayWantCaptureMouse
func OverlayWantCaptureMouse() (v C.int) {
	withOverlay(func(ov *overlay.Overlay) { v = cbool(ov.WantCaptureMouse()) })
	return v
}

//export OverlayWantCaptureKeyboard
func OverlayWantCaptureKeyboard() (v C.int) {
	withOverlay(func(ov *overlay.Overlay) { v = cbool(ov.WantCaptureKeyboard()) })
	return v
}
