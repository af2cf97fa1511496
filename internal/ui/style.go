package ui

import "image/color"

// Style holds the metrics and colors widgets are drawn with.
type Style struct {
	FontSize     float64
	WindowWidth  int
	Padding      int
	Spacing      int
	FramePadding int

	WindowBg      color.RGBA
	TitleBg       color.RGBA
	TitleBgActive color.RGBA
	Border        color.RGBA
	Text          color.RGBA
	Button        color.RGBA
	ButtonHovered color.RGBA
	ButtonActive  color.RGBA
	CheckMark     color.RGBA
	NavHighlight  color.RGBA
}

// DefaultStyle is a dark translucent theme.
func DefaultStyle() Style {
	return Style{
		FontSize:     14,
		WindowWidth:  320,
		Padding:      8,
		Spacing:      4,
		FramePadding: 3,

		WindowBg:      color.RGBA{R: 0x0F, G: 0x0F, B: 0x0F, A: 0xF0},
		TitleBg:       color.RGBA{R: 0x0A, G: 0x0A, B: 0x0A, A: 0xFF},
		TitleBgActive: color.RGBA{R: 0x29, G: 0x4A, B: 0x7A, A: 0xFF},
		Border:        color.RGBA{R: 0x6E, G: 0x6E, B: 0x80, A: 0x80},
		Text:          color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Button:        color.RGBA{R: 0x42, G: 0x96, B: 0xFA, A: 0x66},
		ButtonHovered: color.RGBA{R: 0x42, G: 0x96, B: 0xFA, A: 0xFF},
		ButtonActive:  color.RGBA{R: 0x0F, G: 0x87, B: 0xFA, A: 0xFF},
		CheckMark:     color.RGBA{R: 0x42, G: 0x96, B: 0xFA, A: 0xFF},
		NavHighlight:  color.RGBA{R: 0x42, G: 0x96, B: 0xFA, A: 0xFF},
	}
}
