package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Series is one named line of a time plot.
type Series struct {
	Name   string
	Values []float64
	Color  asciigraph.AnsiColor
}

// TimePlot draws one or more series sharing a y axis. Series are resampled
// to width so long runs stay readable.
func TimePlot(caption string, width, height int, series ...Series) string {
	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	names := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		data = append(data, Resample(s.Values, width))
		colors = append(colors, s.Color)
		names = append(names, s.Name)
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
	)
}

// Resample picks n evenly spaced samples from values, keeping both ends.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		idx := i * (len(values) - 1) / (n - 1)
		out[i] = values[idx]
	}
	return out
}
