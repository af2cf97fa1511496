package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	statusFg = color.RGBA{R: 0xFF, G: 0xDC, B: 0x00, A: 0xFF}
	statusBg = color.RGBA{A: 0xC0}
)

// Annotate returns a copy of frame with status written along its bottom
// edge. An empty status returns frame itself.
func Annotate(frame *image.RGBA, status string) *image.RGBA {
	if status == "" {
		return frame
	}
	out := image.NewRGBA(frame.Bounds())
	draw.Draw(out, out.Bounds(), frame, frame.Bounds().Min, draw.Src)

	face := basicfont.Face7x13
	b := out.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-face.Height-4, b.Max.X, b.Max.Y)
	draw.Draw(out, bar, &image.Uniform{C: statusBg}, image.Point{}, draw.Over)

	drawer := &font.Drawer{
		Dst:  out,
		Src:  &image.Uniform{C: statusFg},
		Face: face,
		Dot:  fixed.P(bar.Min.X+4, bar.Max.Y-face.Descent-2),
	}
	drawer.DrawString(status)
	return out
}

// WritePNG encodes frame, annotated with status, as PNG.
func WritePNG(w io.Writer, frame *image.RGBA, status string) error {
	return png.Encode(w, Annotate(frame, status))
}
