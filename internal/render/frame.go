package render

import (
	"fmt"
	"image"
)

type Mode string

const (
	ModeBlocks  Mode = "blocks"
	ModeBraille Mode = "braille"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBlocks, "":
		return ModeBlocks, nil
	case ModeBraille:
		return ModeBraille, nil
	}
	return "", fmt.Errorf("render: unknown mode %q (available: blocks, braille)", s)
}

// PixelSize returns the pixel grid that fills cols x rows cells in mode.
func (m Mode) PixelSize(cols, rows int) (int, int) {
	if m == ModeBraille {
		return cols * 2, rows * 4
	}
	return cols, rows * 2
}

// Encode draws img using mode.
func (m Mode) Encode(img image.Image) string {
	if m == ModeBraille {
		return Braille(img)
	}
	return HalfBlocks(img)
}

// Frame fits src into cols x rows cells, applies contrast and encodes it.
func Frame(src image.Image, cols, rows int, mode Mode, contrast float64) string {
	w, h := mode.PixelSize(cols, rows)
	return mode.Encode(Contrast(Fit(src, w, h), contrast))
}
