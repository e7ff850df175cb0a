package render

import (
	"image"
	"image/draw"
	"math"
)

// LUT maps an 8-bit channel through the contrast filter at percent.
func LUT(percent float64) [256]uint8 {
	var t [256]uint8
	c := math.Max(0, percent) / 100
	for i := range t {
		v := (float64(i)/255-0.5)*c + 0.5
		t[i] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return t
}

// Contrast returns a copy of src with the contrast filter applied to
// unpremultiplied color. Alpha is left untouched.
func Contrast(src image.Image, percent float64) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	if percent == 100 {
		return dst
	}
	lut := LUT(percent)
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = lut[dst.Pix[i]]
		dst.Pix[i+1] = lut[dst.Pix[i+1]]
		dst.Pix[i+2] = lut[dst.Pix[i+2]]
	}
	return dst
}
