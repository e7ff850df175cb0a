package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Fit scales src to fit within w x h pixels, preserving aspect ratio.
func Fit(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	if w <= 0 || h <= 0 || b.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	sw, sh := b.Dx(), b.Dy()
	dw, dh := w, sh*w/sw
	if dh > h {
		dw, dh = sw*h/sh, h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Lens describes the magnifier: a square of Size pixels showing the source
// at Zoom times its displayed size.
type Lens struct {
	Size int
	Zoom float64
}

var DefaultLens = Lens{Size: 160, Zoom: 2}

// Magnify returns the lens view centred on (cx, cy) in src coordinates.
// The sampled window is clamped to the image bounds.
func Magnify(src image.Image, cx, cy int, lens Lens) *image.RGBA {
	if lens.Size <= 0 {
		lens = DefaultLens
	}
	if lens.Zoom < 1 {
		lens.Zoom = 1
	}
	b := src.Bounds()
	win := int(float64(lens.Size) / lens.Zoom)
	if win < 1 {
		win = 1
	}
	if win > b.Dx() {
		win = b.Dx()
	}
	winH := win
	if winH > b.Dy() {
		winH = b.Dy()
	}

	x0 := clamp(b.Min.X+cx-win/2, b.Min.X, b.Max.X-win)
	y0 := clamp(b.Min.Y+cy-winH/2, b.Min.Y, b.Max.Y-winH)
	sr := image.Rect(x0, y0, x0+win, y0+winH)

	dst := image.NewRGBA(image.Rect(0, 0, lens.Size, lens.Size))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, sr, xdraw.Src, nil)
	return dst
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
