package ui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Rasterizer turns DrawData into premultiplied RGBA pixels. It reuses its
// canvas between frames of the same size and is not safe for concurrent use.
type Rasterizer struct {
	ft       *freetype.Context
	ascent   int
	fallback font.Face
	canvas   *image.RGBA
}

func NewRasterizer(style Style) *Rasterizer {
	r := &Rasterizer{}
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		r.fallback = basicfont.Face7x13
		r.ascent = basicfont.Face7x13.Ascent
		return r
	}
	r.ft = freetype.NewContext()
	r.ft.SetDPI(72)
	r.ft.SetFont(tt)
	r.ft.SetFontSize(style.FontSize)
	r.ft.SetHinting(font.HintingFull)
	face := truetype.NewFace(tt, &truetype.Options{Size: style.FontSize, DPI: 72})
	r.ascent = face.Metrics().Ascent.Ceil()
	return r
}

// Rasterize draws dd onto a transparent canvas of dd.DisplaySize. The
// returned image is overwritten by the next call.
func (r *Rasterizer) Rasterize(dd *DrawData) *image.RGBA {
	size := dd.DisplaySize
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(1, 1)
	}
	if r.canvas == nil || r.canvas.Bounds().Size() != size {
		r.canvas = image.NewRGBA(image.Rectangle{Max: size})
	} else {
		draw.Draw(r.canvas, r.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
	for _, cmd := range dd.Cmds {
		r.draw(cmd)
	}
	return r.canvas
}

func (r *Rasterizer) draw(cmd DrawCmd) {
	switch cmd.Kind {
	case CmdFill:
		draw.Draw(r.canvas, cmd.Rect, image.NewUniform(cmd.Color), image.Point{}, draw.Over)
	case CmdOutline:
		src := image.NewUniform(cmd.Color)
		b := cmd.Rect
		for _, edge := range []image.Rectangle{
			image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1),
			image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y),
			image.Rect(b.Min.X, b.Min.Y+1, b.Min.X+1, b.Max.Y-1),
			image.Rect(b.Max.X-1, b.Min.Y+1, b.Max.X, b.Max.Y-1),
		} {
			draw.Draw(r.canvas, edge, src, image.Point{}, draw.Over)
		}
	case CmdText:
		r.drawText(cmd.Text, cmd.Rect, cmd.Color)
	case CmdImage:
		if cmd.Image == nil || cmd.Rect.Empty() {
			return
		}
		xdraw.NearestNeighbor.Scale(r.canvas, cmd.Rect, cmd.Image, cmd.Image.Bounds(), xdraw.Over, nil)
	}
}

func (r *Rasterizer) drawText(text string, rect image.Rectangle, col color.RGBA) {
	baseline := rect.Min.Y + r.ascent
	if r.ft == nil {
		d := &font.Drawer{Dst: r.canvas, Src: image.NewUniform(col), Face: r.fallback}
		d.Dot = fixed.P(rect.Min.X, baseline)
		d.DrawString(text)
		return
	}
	r.ft.SetDst(r.canvas)
	r.ft.SetClip(r.canvas.Bounds())
	r.ft.SetSrc(image.NewUniform(col))
	_, _ = r.ft.DrawString(text, freetype.Pt(rect.Min.X, baseline))
}
