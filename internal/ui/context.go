// Package ui is a small immediate-mode UI: widgets are declared every frame
// between NewFrame and EndFrame, and Render returns the frame as DrawData.
//
// The frame methods and widgets belong to one driver goroutine. HandleMessage
// may be called from the window thread and the capture queries from anywhere.
package ui

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/d3doverlay/internal/winproc"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Option func(*Context)

// WithStyle replaces the default style.
func WithStyle(s Style) Option { return func(c *Context) { c.style = s } }

// WithKeyboardNav lets a focused window take keyboard input: Tab moves
// between widgets and Enter or Space activates the highlighted one.
func WithKeyboardNav(on bool) Option { return func(c *Context) { c.navKeyboard = on } }

type event struct {
	msg    uint32
	wParam uintptr
	lParam uintptr
}

type input struct {
	mouse    image.Point
	delta    image.Point
	down     bool
	pressed  bool
	released bool
	wheel    int
	keys     []uint32
}

func (in *input) keyPressed(vk uint32) bool {
	for _, k := range in.keys {
		if k == vk {
			return true
		}
	}
	return false
}

type Context struct {
	style       Style
	face        font.Face
	ascent      int
	lineHeight  int
	navKeyboard bool

	mu     sync.Mutex
	events []event

	wantMouse    atomic.Bool
	wantKeyboard atomic.Bool
	display      atomic.Uint64
	hits         atomic.Pointer[[]image.Rectangle]

	// Driver goroutine only.
	frame   uint64
	inFrame bool
	ended   bool
	in      input
	windows map[string]*window
	order   []*window
	current *window
	focused *window
	active  string
	cmds    []DrawCmd
	qr      qrCache
}

func NewContext(opts ...Option) *Context {
	c := &Context{
		style:   DefaultStyle(),
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.face = loadFace(c.style.FontSize)
	m := c.face.Metrics()
	c.ascent = m.Ascent.Ceil()
	c.lineHeight = m.Height.Ceil()
	if c.lineHeight <= 0 {
		c.lineHeight = c.ascent + m.Descent.Ceil()
	}
	return c
}

func loadFace(size float64) font.Face {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func (c *Context) Style() Style { return c.style }

// LineHeight is the height of one line of text in pixels.
func (c *Context) LineHeight() int { return c.lineHeight }

// SetDisplaySize records the size of the surface frames are drawn on.
func (c *Context) SetDisplaySize(width, height int) {
	c.display.Store(uint64(uint32(width))<<32 | uint64(uint32(height)))
}

func (c *Context) DisplaySize() image.Point {
	v := c.display.Load()
	return image.Pt(int(int32(v>>32)), int(int32(v)))
}

// WantCaptureMouse reports whether the last finished frame wants mouse input
// kept from the host.
func (c *Context) WantCaptureMouse() bool { return c.wantMouse.Load() }

// WantCaptureKeyboard reports whether the last finished frame wants keyboard
// input kept from the host.
func (c *Context) WantCaptureKeyboard() bool { return c.wantKeyboard.Load() }

func (c *Context) FrameCount() uint64 { return c.frame }

// HandleMessage queues an input message for the next frame. It returns true
// when the message is fully consumed by the UI and must not reach the host.
func (c *Context) HandleMessage(msg uint32, wParam, lParam uintptr) bool {
	switch {
	case winproc.IsMouse(msg), winproc.IsKeyboard(msg):
		c.mu.Lock()
		c.events = append(c.events, event{msg: msg, wParam: wParam, lParam: lParam})
		c.mu.Unlock()
		return false
	case msg == winproc.WM_SETCURSOR:
		return c.wantMouse.Load()
	}
	return false
}

// OverWindow reports whether p lies on a window of the last finished frame.
func (c *Context) OverWindow(p image.Point) bool {
	hits := c.hits.Load()
	if hits == nil {
		return false
	}
	for _, r := range *hits {
		if p.In(r) {
			return true
		}
	}
	return false
}

func (c *Context) drainEvents() []event {
	c.mu.Lock()
	defer c.mu.Unlock()
	evs := c.events
	c.events = nil
	return evs
}

// NewFrame starts a frame. Calling it again before EndFrame does nothing.
func (c *Context) NewFrame() {
	if c.inFrame {
		return
	}
	prev := c.in.mouse
	for _, ev := range c.drainEvents() {
		c.apply(ev)
	}
	c.in.delta = c.in.mouse.Sub(prev)

	c.frame++
	c.inFrame = true
	c.ended = false
	c.order = c.order[:0]
	c.current = nil
	c.cmds = make([]DrawCmd, 0, cap(c.cmds))

	if c.in.pressed && !c.OverWindow(c.in.mouse) {
		c.focused = nil
	}
}

// Discard drops an open frame without publishing it. Input applied to the
// frame is dropped with it; the capture flags keep their last values.
func (c *Context) Discard() {
	if !c.inFrame {
		return
	}
	c.inFrame = false
	c.ended = false
	c.order = c.order[:0]
	c.current = nil
	c.cmds = c.cmds[:0]
	c.in.pressed = false
	c.in.released = false
	c.in.wheel = 0
	c.in.keys = c.in.keys[:0]
}

func (c *Context) apply(ev event) {
	switch ev.msg {
	case winproc.WM_MOUSEMOVE:
		x, y := winproc.PointFromLParam(ev.lParam)
		c.in.mouse = image.Pt(x, y)
	case winproc.WM_LBUTTONDOWN:
		x, y := winproc.PointFromLParam(ev.lParam)
		c.in.mouse = image.Pt(x, y)
		c.in.down = true
		c.in.pressed = true
	case winproc.WM_LBUTTONUP:
		x, y := winproc.PointFromLParam(ev.lParam)
		c.in.mouse = image.Pt(x, y)
		c.in.down = false
		c.in.released = true
	case winproc.WM_MOUSEWHEEL:
		c.in.wheel += winproc.WheelDelta(ev.wParam) / winproc.WHEEL_DELTA
	case winproc.WM_KEYDOWN, winproc.WM_SYSKEYDOWN:
		c.in.keys = append(c.in.keys, uint32(ev.wParam))
	}
}

// EndFrame closes the frame and publishes the capture flags for it.
func (c *Context) EndFrame() {
	if !c.inFrame {
		return
	}
	if c.current != nil {
		c.End()
	}

	hits := make([]image.Rectangle, 0, len(c.order))
	overWindow := false
	for _, w := range c.order {
		hits = append(hits, w.rect)
		if c.in.mouse.In(w.rect) {
			overWindow = true
		}
	}
	c.hits.Store(&hits)
	c.wantMouse.Store(overWindow || c.active != "")

	focusedShown := false
	for _, w := range c.order {
		if w == c.focused {
			focusedShown = true
		}
	}
	if !focusedShown {
		c.focused = nil
	}
	c.wantKeyboard.Store(c.navKeyboard && c.focused != nil)

	if c.in.released {
		c.active = ""
	}
	c.in.pressed = false
	c.in.released = false
	c.in.wheel = 0
	c.in.keys = c.in.keys[:0]

	c.inFrame = false
	c.ended = true
}

// Render returns the frame closed by the last EndFrame, or nil when there is
// none. Each frame is returned once.
func (c *Context) Render() *DrawData {
	if !c.ended {
		return nil
	}
	c.ended = false
	dd := &DrawData{
		Frame:       c.frame,
		DisplaySize: c.DisplaySize(),
		Cmds:        c.cmds,
	}
	c.cmds = nil
	return dd
}

func (c *Context) emit(cmd DrawCmd) int {
	c.cmds = append(c.cmds, cmd)
	return len(c.cmds) - 1
}

func (c *Context) measure(text string) int {
	return font.MeasureString(c.face, text).Ceil()
}
