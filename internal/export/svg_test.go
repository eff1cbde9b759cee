package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/trajsim/internal/analysis"
)

func TestSVG(t *testing.T) {
	line := SeriesLine([]float64{0, 1, 2}, []float64{0, 1, 0})
	out := SVG([]Line{line}, 200, 100)

	if !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("missing xml header: %q", out)
	}
	if strings.Count(out, "<path") != 1 {
		t.Errorf("expected one path, got %d", strings.Count(out, "<path"))
	}
	if !strings.Contains(out, Palette[0]) {
		t.Error("default stroke not applied")
	}
}

func TestSVG_BreaksOnNonFinite(t *testing.T) {
	line := SeriesLine([]float64{0, 1, 2, 3}, []float64{0, math.NaN(), 1, 2})
	out := SVG([]Line{line}, 200, 100)

	if strings.Count(out, "M") != 2 {
		t.Errorf("expected the path to restart after NaN: %s", out)
	}
	if strings.Contains(out, "NaN") {
		t.Error("NaN leaked into the path")
	}
}

func TestSVG_Empty(t *testing.T) {
	if SVG(nil, 10, 10) != "" {
		t.Error("no lines should render nothing")
	}
	nan := Line{Points: []analysis.Point{{X: math.NaN(), Y: 0}}}
	if SVG([]Line{nan}, 10, 10) != "" {
		t.Error("only non-finite points should render nothing")
	}
}

func TestPortraitLine(t *testing.T) {
	if len(PortraitLine(nil).Points) != 0 {
		t.Error("nil portrait should give an empty line")
	}
	p := &analysis.PhasePortrait2D{Points: []analysis.Point{{X: 1, Y: 2}}}
	if got := PortraitLine(p).Points[0]; got.X != 1 || got.Y != 2 {
		t.Errorf("got %+v", got)
	}
}
