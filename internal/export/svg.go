package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/contrastanim/internal/oscillator"
	"github.com/san-kum/contrastanim/internal/trace"
)

// TraceSVG draws the value curve of a trace over time. The vertical axis
// always spans the oscillator bounds so runs are comparable.
func TraceSVG(samples []trace.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	t0 := samples[0].Time
	span := samples[len(samples)-1].Time - t0
	if span == 0 {
		span = 1
	}
	yRange := oscillator.Max - oscillator.Min

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333" stroke-dasharray="4 4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height,
		float64(height)/2, width, float64(height)/2,
		strokeColor))

	for i, s := range samples {
		x := (s.Time - t0) / span * float64(width)
		y := float64(height) - (s.Value-oscillator.Min)/yRange*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
