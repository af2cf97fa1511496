// Package script drives the overlay from Lua. Scripts require the "overlay"
// module, open and composite frames with it and declare widgets in between.
package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rook-computer/d3doverlay/internal/logging"
	"github.com/rook-computer/d3doverlay/internal/ui"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

const ModuleName = "overlay"

// Host is the overlay surface a script drives.
type Host interface {
	BeginFrame()
	CompositeFrame()
	SetVisible(v bool)
	IsVisible() bool
	WantCaptureMouse() bool
	WantCaptureKeyboard() bool
	UI() *ui.Context
}

type module struct {
	host Host
	log  logging.Logger
}

// Preload makes require("overlay") return the module bound to host.
func Preload(L *lua.LState, host Host, log logging.Logger) {
	if log == nil {
		log = logging.NoopLogger{}
	}
	m := &module{host: host, log: log}
	L.PreloadModule(ModuleName, m.loader)
}

func (m *module) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"begin_frame":           m.beginFrame,
		"present_frame":         m.presentFrame,
		"set_visible":           m.setVisible,
		"is_visible":            m.isVisible,
		"want_capture_mouse":    m.wantCaptureMouse,
		"want_capture_keyboard": m.wantCaptureKeyboard,
		"begin_window":          m.beginWindow,
		"end_window":            m.endWindow,
		"text":                  m.text,
		"button":                m.button,
		"checkbox":              m.checkbox,
		"separator":             m.separator,
		"qrcode":                m.qrcode,
		"log":                   m.logf,
	})
	L.SetField(mod, "toggle_key", lua.LNumber(winproc.VK_INSERT))
	L.Push(mod)
	return 1
}

func (m *module) beginFrame(L *lua.LState) int {
	m.host.BeginFrame()
	return 0
}

func (m *module) presentFrame(L *lua.LState) int {
	m.host.CompositeFrame()
	return 0
}

func (m *module) setVisible(L *lua.LState) int {
	m.host.SetVisible(L.ToBool(1))
	return 0
}

func (m *module) isVisible(L *lua.LState) int {
	L.Push(lua.LBool(m.host.IsVisible()))
	return 1
}

func (m *module) wantCaptureMouse(L *lua.LState) int {
	L.Push(lua.LBool(m.host.WantCaptureMouse()))
	return 1
}

func (m *module) wantCaptureKeyboard(L *lua.LState) int {
	L.Push(lua.LBool(m.host.WantCaptureKeyboard()))
	return 1
}

// begin_window(title) -> shown
func (m *module) beginWindow(L *lua.LState) int {
	title := L.CheckString(1)
	if title == "" {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(m.host.UI().Begin(title)))
	return 1
}

func (m *module) endWindow(L *lua.LState) int {
	m.host.UI().End()
	return 0
}

func (m *module) text(L *lua.LState) int {
	m.host.UI().Text("%s", L.CheckString(1))
	return 0
}

func (m *module) button(L *lua.LState) int {
	L.Push(lua.LBool(m.host.UI().Button(L.CheckString(1))))
	return 1
}

// checkbox(label, value) -> changed, value
func (m *module) checkbox(L *lua.LState) int {
	label := L.CheckString(1)
	v := L.ToBool(2)
	changed := m.host.UI().Checkbox(label, &v)
	L.Push(lua.LBool(changed))
	L.Push(lua.LBool(v))
	return 2
}

func (m *module) separator(L *lua.LState) int {
	m.host.UI().Separator()
	return 0
}

// qrcode(payload [, size]) -> ok, err
func (m *module) qrcode(L *lua.LState) int {
	payload := L.CheckString(1)
	size := L.OptInt(2, 0)
	if err := m.host.UI().QRCode(payload, size); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *module) logf(L *lua.LState) int {
	m.log.Infof("script", "%s", L.CheckString(1))
	return 0
}
