package ui

import (
	"image"
	"image/color"
	"testing"
)

func TestRasterizeDrawsCommands(t *testing.T) {
	r := NewRasterizer(DefaultStyle())
	red := color.RGBA{R: 0xFF, A: 0xFF}
	dd := &DrawData{
		DisplaySize: image.Pt(64, 32),
		Cmds: []DrawCmd{
			{Kind: CmdFill, Rect: image.Rect(0, 0, 10, 10), Color: red},
			{Kind: CmdOutline, Rect: image.Rect(20, 0, 30, 10), Color: red},
			{Kind: CmdText, Rect: image.Rect(32, 8, 64, 30), Color: red, Text: "Hi"},
		},
	}
	img := r.Rasterize(dd)
	if img.Bounds().Size() != dd.DisplaySize {
		t.Fatalf("canvas size %v, want %v", img.Bounds().Size(), dd.DisplaySize)
	}
	if got := img.RGBAAt(5, 5); got != red {
		t.Errorf("fill pixel = %v, want %v", got, red)
	}
	if got := img.RGBAAt(20, 5); got != red {
		t.Errorf("outline edge = %v, want %v", got, red)
	}
	if got := img.RGBAAt(25, 5); got.A != 0 {
		t.Errorf("outline interior = %v, want transparent", got)
	}
	if got := img.RGBAAt(50, 0); got.A != 0 {
		t.Errorf("untouched pixel = %v, want transparent", got)
	}

	inked := false
	for y := 8; y < 30 && !inked; y++ {
		for x := 32; x < 64; x++ {
			if img.RGBAAt(x, y).A != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("text command left no ink")
	}
}

func TestRasterizeClearsBetweenFrames(t *testing.T) {
	r := NewRasterizer(DefaultStyle())
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	r.Rasterize(&DrawData{DisplaySize: image.Pt(8, 8), Cmds: []DrawCmd{{Kind: CmdFill, Rect: image.Rect(0, 0, 8, 8), Color: white}}})
	img := r.Rasterize(&DrawData{DisplaySize: image.Pt(8, 8)})
	if got := img.RGBAAt(3, 3); got.A != 0 {
		t.Errorf("pixel kept from previous frame: %v", got)
	}
}
