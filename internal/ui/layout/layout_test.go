package layout

import (
	"image"
	"testing"
)

func TestInset(t *testing.T) {
	got := Inset(image.Rect(0, 0, 100, 50), 8)
	if want := image.Rect(8, 8, 92, 42); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := Inset(image.Rect(0, 0, 10, 10), 0); got != image.Rect(0, 0, 10, 10) {
		t.Errorf("zero padding changed rect: %v", got)
	}
}

func TestSplits(t *testing.T) {
	r := image.Rect(10, 10, 110, 60)
	top, bottom := SplitHorizontal(r, 20)
	if top != image.Rect(10, 10, 110, 30) || bottom != image.Rect(10, 30, 110, 60) {
		t.Errorf("SplitHorizontal = %v %v", top, bottom)
	}
	left, right := SplitVertical(r, 500)
	if left != r || right.Dx() != 0 {
		t.Errorf("SplitVertical clamp = %v %v", left, right)
	}
}

func TestAnchorAndFitSquare(t *testing.T) {
	r := image.Rect(0, 0, 80, 30)
	if got := AnchorTopLeft(r, 100, -1); got != image.Rect(0, 0, 80, 0) {
		t.Errorf("AnchorTopLeft = %v", got)
	}
	if got := FitSquare(r); got != image.Rect(0, 0, 30, 30) {
		t.Errorf("FitSquare = %v", got)
	}
}
