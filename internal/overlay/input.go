package overlay

import "github.com/rook-computer/d3doverlay/internal/winproc"

// ToggleKey shows and hides the overlay.
const ToggleKey = winproc.VK_INSERT

func (o *Overlay) SetVisible(v bool) { o.visible.Store(v) }

func (o *Overlay) IsVisible() bool { return o.visible.Load() }

func (o *Overlay) toggleVisible() {
	for {
		v := o.visible.Load()
		if o.visible.CompareAndSwap(v, !v) {
			return
		}
	}
}

// WantCaptureMouse reports whether the overlay currently wants mouse input
// kept from the host.
func (o *Overlay) WantCaptureMouse() bool { return o.ui.WantCaptureMouse() }

// WantCaptureKeyboard reports whether the overlay currently wants keyboard
// input kept from the host.
func (o *Overlay) WantCaptureKeyboard() bool { return o.ui.WantCaptureKeyboard() }

// route is the window procedure installed on the host window. It runs on
// the window's thread.
func (o *Overlay) route(m winproc.Message, next uintptr) uintptr {
	if m.Msg == winproc.WM_KEYDOWN && m.WParam == ToggleKey {
		o.toggleVisible()
	}

	if o.visible.Load() {
		if o.ui.HandleMessage(m.Msg, m.WParam, m.LParam) {
			return 1
		}
		switch {
		case winproc.IsMouse(m.Msg) && o.ui.WantCaptureMouse():
			return 1
		case winproc.IsKeyboard(m.Msg) && o.ui.WantCaptureKeyboard():
			return 1
		}
	}
	return o.deps.Binder.CallOriginal(next, m)
}
