// Package export renders trajectories as standalone SVG line plots.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/trajsim/internal/analysis"
)

// Palette is used for lines that do not set their own stroke.
var Palette = []string{"#00ccff", "#ff00ff", "#ffcc00", "#00ff88"}

type Line struct {
	Points []analysis.Point
	Stroke string
}

// SeriesLine pairs values with their sample times.
func SeriesLine(times, values []float64) Line {
	n := min(len(times), len(values))
	pts := make([]analysis.Point, n)
	for i := 0; i < n; i++ {
		pts[i] = analysis.Point{X: times[i], Y: values[i]}
	}
	return Line{Points: pts}
}

func PortraitLine(p *analysis.PhasePortrait2D) Line {
	if p == nil {
		return Line{}
	}
	return Line{Points: p.Points}
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func finite(p analysis.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// boundsOf spans every finite point of every line, padded by 10%. ok is
// false when there is no finite point.
func boundsOf(lines []Line) (b bounds, ok bool) {
	for _, l := range lines {
		for _, p := range l.Points {
			if !finite(p) {
				continue
			}
			if !ok {
				b = bounds{p.X, p.X, p.Y, p.Y}
				ok = true
				continue
			}
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
		}
	}
	if !ok {
		return b, false
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b, true
}

// SVG draws every line on one shared scale. Non-finite points break the
// path instead of being drawn. It returns "" when nothing is drawable.
func SVG(lines []Line, width, height int) string {
	b, ok := boundsOf(lines)
	if !ok {
		return ""
	}
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, l := range lines {
		stroke := l.Stroke
		if stroke == "" {
			stroke = Palette[i%len(Palette)]
		}

		var d strings.Builder
		move := true
		for _, p := range l.Points {
			if !finite(p) {
				move = true
				continue
			}
			x := (p.X - b.minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)
			if move {
				fmt.Fprintf(&d, "M%.1f,%.1f", x, y)
				move = false
			} else {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			}
		}
		if d.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", stroke, d.String())
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
