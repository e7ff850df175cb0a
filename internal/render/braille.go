package render

import (
	"image"
	"image/color"
	"strings"
)

// Braille dot bits for a 2x4 cell:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// 2x4 ordered dither thresholds, scaled to 0..255.
var bayer = [4][2]uint8{
	{16, 144},
	{208, 80},
	{48, 176},
	{240, 112},
}

// Canvas is a grid of braille cells addressed in sub-pixel coordinates,
// two dots wide and four tall per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set raises the dot at sub-pixel (x, y). Out-of-range points are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for i, row := range c.Grid {
		sb.WriteString(string(row))
		if i < len(c.Grid)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Braille dithers img to dots: bright pixels are raised.
func Braille(img image.Image) string {
	b := img.Bounds()
	c := NewCanvas((b.Dx()+1)/2, (b.Dy()+3)/4)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if luma(img.At(b.Min.X+x, b.Min.Y+y)) > bayer[y%4][x%2] {
				c.Set(x, y)
			}
		}
	}
	return c.String()
}

func luma(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}
