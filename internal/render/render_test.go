package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestBlitScales(t *testing.T) {
	src := solid(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 0x80})
	src.SetRGBA(3, 3, color.RGBA{R: 200, A: 0xFF})
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))

	blit(dst, src)

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 0xFF}) {
		t.Errorf("top-left = %v", got)
	}
	if got := dst.RGBAAt(7, 7); got.R != 200 {
		t.Errorf("bottom-right = %v, want the scaled corner pixel", got)
	}
}

func TestAnnotateCopies(t *testing.T) {
	frame := solid(200, 60, color.RGBA{B: 0xFF, A: 0xFF})
	out := Annotate(frame, "ready")
	if out == frame {
		t.Fatal("Annotate modified the frame in place")
	}
	if got := frame.RGBAAt(5, 55); got.B != 0xFF {
		t.Errorf("source frame changed: %v", got)
	}
	if got := out.RGBAAt(1, 58); got.B == 0xFF {
		t.Errorf("status bar not drawn: %v", got)
	}
	if Annotate(frame, "") != frame {
		t.Error("empty status should return the frame")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, solid(32, 32, color.RGBA{G: 0xFF, A: 0xFF}), "ok"); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("bounds = %v", b)
	}
}
