package ui

import (
	"fmt"
	"image"

	"github.com/rook-computer/d3doverlay/internal/ui/layout"
	"github.com/rook-computer/d3doverlay/internal/winproc"
)

// maxContentHeight bounds the open content area; End trims the window to
// what was placed.
const maxContentHeight = 1 << 14

type window struct {
	title    string
	pos      image.Point
	rect     image.Rectangle
	height   int
	bgCmd    int
	cursor   image.Point
	content  image.Rectangle
	items    int
	navItems int
	navIndex int
}

func (c *Context) titleHeight() int { return c.lineHeight + 2*c.style.FramePadding }

// Begin opens the window called title; widgets that follow are laid out in
// it until End. Windows keep their position across frames and can be dragged
// by the title bar.
func (c *Context) Begin(title string) bool {
	if !c.inFrame {
		return false
	}
	if c.current != nil {
		c.End()
	}
	w, ok := c.windows[title]
	if !ok {
		n := len(c.windows)
		w = &window{title: title, pos: image.Pt(20+30*n, 20+30*n), height: c.titleHeight()}
		c.windows[title] = w
	}
	w.items = 0
	c.current = w
	c.order = append(c.order, w)

	w.rect = image.Rect(w.pos.X, w.pos.Y, w.pos.X+c.style.WindowWidth, w.pos.Y+w.height)
	titleBar, body := layout.SplitHorizontal(w.rect, c.titleHeight())

	id := "drag:" + title
	if c.active == id && c.in.down {
		w.pos = w.pos.Add(c.in.delta)
		w.rect = w.rect.Add(c.in.delta)
		titleBar = titleBar.Add(c.in.delta)
		body = body.Add(c.in.delta)
	}
	if c.in.pressed && c.in.mouse.In(w.rect) {
		c.focused = w
		if c.in.mouse.In(titleBar) && c.active == "" {
			c.active = id
		}
	}

	if w == c.focused && c.navKeyboard && w.navItems > 0 && c.in.keyPressed(winproc.VK_TAB) {
		w.navIndex = (w.navIndex + 1) % w.navItems
	}

	w.bgCmd = c.emit(DrawCmd{Kind: CmdFill, Rect: w.rect, Color: c.style.WindowBg})
	titleColor := c.style.TitleBg
	if w == c.focused {
		titleColor = c.style.TitleBgActive
	}
	c.emit(DrawCmd{Kind: CmdFill, Rect: titleBar, Color: titleColor})
	c.emit(DrawCmd{Kind: CmdText, Rect: layout.Inset(titleBar, c.style.FramePadding), Color: c.style.Text, Text: title})

	w.content = image.Rect(body.Min.X+c.style.Padding, body.Min.Y+c.style.Padding, body.Max.X-c.style.Padding, body.Min.Y+maxContentHeight)
	w.cursor = w.content.Min
	return true
}

// End closes the current window and sizes it to its content.
func (c *Context) End() {
	w := c.current
	if w == nil {
		return
	}
	c.current = nil
	bottom := w.rect.Min.Y + c.titleHeight()
	if w.cursor.Y > w.content.Min.Y {
		bottom = w.cursor.Y - c.style.Spacing + c.style.Padding
	}
	w.height = bottom - w.rect.Min.Y
	w.rect.Max.Y = bottom
	w.navItems = w.items
	if w.navIndex >= w.navItems {
		w.navIndex = 0
	}
	c.cmds[w.bgCmd].Rect = w.rect
	c.emit(DrawCmd{Kind: CmdOutline, Rect: w.rect, Color: c.style.Border})
}

// place reserves a widthPx by heightPx box at the cursor and moves the cursor
// to the next line.
func (c *Context) place(widthPx, heightPx int) image.Rectangle {
	w := c.current
	r := layout.AnchorTopLeft(w.content.Add(w.cursor.Sub(w.content.Min)), widthPx, heightPx)
	w.cursor.Y += heightPx + c.style.Spacing
	return r
}

// interact runs the shared click logic for the next item. It reports whether
// the item is hovered and whether it was activated this frame.
func (c *Context) interact(id string, r image.Rectangle) (hovered, held, activated bool) {
	w := c.current
	index := w.items
	w.items++

	hovered = c.in.mouse.In(r)
	if hovered && c.in.pressed && c.active == "" {
		c.active = id
	}
	held = c.active == id && c.in.down
	if c.active == id && c.in.released && hovered {
		activated = true
	}

	if c.navKeyboard && w == c.focused && index == w.navIndex {
		c.emit(DrawCmd{Kind: CmdOutline, Rect: r.Inset(-1), Color: c.style.NavHighlight})
		if c.in.keyPressed(winproc.VK_RETURN) || c.in.keyPressed(winproc.VK_SPACE) {
			activated = true
		}
	}
	return hovered, held, activated
}

func (c *Context) itemID(label string) string {
	return c.current.title + "/" + label
}

// Text adds a line of formatted text.
func (c *Context) Text(format string, args ...any) {
	if c.current == nil {
		return
	}
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	r := c.place(c.measure(s), c.lineHeight)
	c.emit(DrawCmd{Kind: CmdText, Rect: r, Color: c.style.Text, Text: s})
}

// Button adds a push button and reports whether it was clicked.
func (c *Context) Button(label string) bool {
	if c.current == nil {
		return false
	}
	pad := c.style.FramePadding
	r := c.place(c.measure(label)+2*pad, c.lineHeight+2*pad)
	hovered, held, clicked := c.interact(c.itemID(label), r)

	col := c.style.Button
	switch {
	case held:
		col = c.style.ButtonActive
	case hovered:
		col = c.style.ButtonHovered
	}
	c.emit(DrawCmd{Kind: CmdFill, Rect: r, Color: col})
	c.emit(DrawCmd{Kind: CmdText, Rect: layout.Inset(r, pad), Color: c.style.Text, Text: label})
	return clicked
}

// Checkbox adds a labelled toggle bound to v and reports whether it changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	if c.current == nil {
		return false
	}
	pad := c.style.FramePadding
	box := c.lineHeight + 2*pad
	r := c.place(box+c.style.Spacing+c.measure(label), box)
	square, rest := layout.SplitVertical(r, box)
	hovered, _, toggled := c.interact(c.itemID(label), r)

	col := c.style.Button
	if hovered {
		col = c.style.ButtonHovered
	}
	c.emit(DrawCmd{Kind: CmdFill, Rect: square, Color: col})
	if toggled && v != nil {
		*v = !*v
	}
	if v != nil && *v {
		c.emit(DrawCmd{Kind: CmdFill, Rect: layout.Inset(square, pad+1), Color: c.style.CheckMark})
	}
	labelRect := image.Rect(rest.Min.X+c.style.Spacing, rest.Min.Y+pad, rest.Max.X, rest.Max.Y)
	c.emit(DrawCmd{Kind: CmdText, Rect: labelRect, Color: c.style.Text, Text: label})
	return toggled
}

// Separator draws a horizontal rule across the window.
func (c *Context) Separator() {
	if c.current == nil {
		return
	}
	r := c.place(c.current.content.Dx(), 1)
	c.emit(DrawCmd{Kind: CmdFill, Rect: r, Color: c.style.Border})
}

// QRCode adds a QR code for payload, at most sizePx wide.
func (c *Context) QRCode(payload string, sizePx int) error {
	if c.current == nil {
		return nil
	}
	img, err := c.qr.image(payload, sizePx)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	b := img.Bounds()
	r := layout.FitSquare(c.place(b.Dx(), b.Dy()))
	c.emit(DrawCmd{Kind: CmdImage, Rect: r, Image: img})
	return nil
}
