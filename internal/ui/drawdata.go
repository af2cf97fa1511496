package ui

import (
	"image"
	"image/color"
)

type CmdKind uint8

const (
	CmdFill CmdKind = iota
	CmdOutline
	CmdText
	CmdImage
)

func (k CmdKind) String() string {
	switch k {
	case CmdFill:
		return "fill"
	case CmdOutline:
		return "outline"
	case CmdText:
		return "text"
	case CmdImage:
		return "image"
	}
	return "unknown"
}

// DrawCmd is one primitive in display coordinates. Text is anchored at
// Rect.Min (top-left of the line box); images are scaled into Rect.
type DrawCmd struct {
	Kind  CmdKind
	Rect  image.Rectangle
	Color color.RGBA
	Text  string
	Image image.Image
}

// DrawData is the finished command list of one frame. It is never modified
// after Render returns it, so it can be handed to another goroutine.
type DrawData struct {
	Frame       uint64
	DisplaySize image.Point
	Cmds        []DrawCmd
}

func (d *DrawData) Empty() bool { return d == nil || len(d.Cmds) == 0 }
