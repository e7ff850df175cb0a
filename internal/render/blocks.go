package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const upperHalf = "▀"

// HalfBlocks encodes img as rows of upper-half-block cells, two pixel rows
// per text line. Runs of identical cells share one style.
func HalfBlocks(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var run strings.Builder
		var runStyle lipgloss.Style
		var runKey string

		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}

		for x := b.Min.X; x < b.Max.X; x++ {
			top := hex(img.At(x, y))
			bottom := "#000000"
			if y+1 < b.Max.Y {
				bottom = hex(img.At(x, y+1))
			}
			key := top + bottom
			if key != runKey {
				flush()
				runKey = key
				runStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom))
			}
			run.WriteString(upperHalf)
		}
		flush()
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
