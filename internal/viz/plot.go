package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trajsim/internal/recorder"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 12
)

// Plot renders one series with a caption.
func Plot(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(DefaultPlotHeight),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several equally long series, each with its own colour
// and legend entry.
func PlotMany(data [][]float64, legends []string, caption string) string {
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green}
	series := make([]asciigraph.AnsiColor, len(data))
	for i := range data {
		series[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(DefaultPlotHeight),
		asciigraph.Width(DefaultPlotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(series...),
		asciigraph.SeriesLegends(legends...),
	)
}

// PlotSeries renders |x| and |v| of a run as two separate graphs; their
// scales usually differ by orders of magnitude.
func PlotSeries(s recorder.Series) (position, velocity string) {
	return Plot(s.Position, "|x| vs time"), Plot(s.Velocity, "|v| vs time")
}
