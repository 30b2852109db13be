package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/pipeflow/internal/flow"
)

// Bounds is the visible data window of a chart.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// MoodyBounds frames the classic chart: Re 600..1e8, f 0.008..0.1.
var MoodyBounds = Bounds{XMin: 600, XMax: 1e8, YMin: 0.008, YMax: 0.1}

var moodyYTicks = []float64{0.008, 0.01, 0.015, 0.02, 0.03, 0.04, 0.05, 0.06, 0.08, 0.1}

const axisWidth = 8

// Mark is a single highlighted point drawn over the curves.
type Mark struct {
	Point  flow.Point
	Symbol rune
}

// MarksFor converts operating points into chart marks.
func MarksFor(ops []flow.OperatingPoint) []Mark {
	marks := make([]Mark, len(ops))
	for i, op := range ops {
		marks[i] = Mark{Point: op.Point(), Symbol: op.Marker.Symbol()}
	}
	return marks
}

// LogChart plots curves on log-log axes using a Braille canvas.
type LogChart struct {
	Width, Height int // plot area in cells
	Bounds        Bounds
	LabelWidth    int
}

func NewMoodyChart(width, height int) *LogChart {
	return &LogChart{Width: width, Height: height, Bounds: MoodyBounds, LabelWidth: 9}
}

// project maps data coordinates to unit coordinates, y pointing up.
func (lc *LogChart) project(x, y float64) (float64, float64) {
	b := lc.Bounds
	u := (math.Log10(x) - math.Log10(b.XMin)) / (math.Log10(b.XMax) - math.Log10(b.XMin))
	v := (math.Log10(y) - math.Log10(b.YMin)) / (math.Log10(b.YMax) - math.Log10(b.YMin))
	return u, v
}

func (lc *LogChart) toPixel(u, v float64) (int, int) {
	w := float64(lc.Width*2 - 1)
	h := float64(lc.Height*4 - 1)
	return int(math.Round(u * w)), int(math.Round((1 - v) * h))
}

func (lc *LogChart) Render(curves []flow.Curve, marks []Mark) string {
	c := NewCanvas(lc.Width, lc.Height)
	labels := make(map[int]string)

	for _, curve := range curves {
		dash := 0
		if curve.Style == flow.Dashed {
			dash = 2
		}
		lastRow := -1
		for i := 1; i < len(curve.Points); i++ {
			p0, p1 := curve.Points[i-1], curve.Points[i]
			if p0.Re <= 0 || p0.F <= 0 || p1.Re <= 0 || p1.F <= 0 {
				continue
			}
			u0, v0 := lc.project(p0.Re, p0.F)
			u1, v1 := lc.project(p1.Re, p1.F)
			u0, v0, u1, v1, ok := clipUnit(u0, v0, u1, v1)
			if !ok {
				continue
			}
			x0, y0 := lc.toPixel(u0, v0)
			x1, y1 := lc.toPixel(u1, v1)
			c.DrawLine(x0, y0, x1, y1, dash)
			lastRow = y1 / 4
		}
		if curve.Label != "" && lastRow >= 0 && curve.Style == flow.Solid && len(curve.Points) > 0 && curve.Points[0].Re >= flow.TurbulentLimit {
			if _, taken := labels[lastRow]; !taken {
				labels[lastRow] = curve.Label
			}
		}
	}

	for _, m := range marks {
		if m.Point.Re <= 0 || m.Point.F <= 0 {
			continue
		}
		u, v := lc.project(m.Point.Re, m.Point.F)
		if u < 0 || u > 1 || v < 0 || v > 1 {
			continue
		}
		x, y := lc.toPixel(u, v)
		c.Put(x/2, y/4, m.Symbol)
	}

	yLabels := make(map[int]string)
	for _, f := range moodyYTicks {
		if f < lc.Bounds.YMin || f > lc.Bounds.YMax {
			continue
		}
		_, v := lc.project(lc.Bounds.XMin, f)
		_, y := lc.toPixel(0, v)
		if _, taken := yLabels[y/4]; !taken {
			yLabels[y/4] = fmt.Sprintf("%.3f", f)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%*s\n", axisWidth, "f"))
	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	for r, row := range rows {
		if lbl, ok := yLabels[r]; ok {
			b.WriteString(fmt.Sprintf("%*s ┤", axisWidth-2, lbl))
		} else {
			b.WriteString(strings.Repeat(" ", axisWidth-1) + "│")
		}
		b.WriteString(row)
		if lbl, ok := labels[r]; ok {
			b.WriteString(" " + truncate(lbl, lc.LabelWidth))
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", axisWidth-1) + "└" + strings.Repeat("─", lc.Width) + "\n")
	b.WriteString(lc.xTicks() + "\n")
	return b.String()
}

func (lc *LogChart) xTicks() string {
	line := []rune(strings.Repeat(" ", axisWidth+lc.Width+4))
	next := 0
	for e := math.Ceil(math.Log10(lc.Bounds.XMin)); e <= math.Log10(lc.Bounds.XMax); e++ {
		u, _ := lc.project(math.Pow(10, e), lc.Bounds.YMin)
		x, _ := lc.toPixel(u, 0)
		pos := axisWidth + x/2
		lbl := fmt.Sprintf("1e%d", int(e))
		if pos < next || pos+len(lbl) > len(line) {
			continue
		}
		copy(line[pos:], []rune(lbl))
		next = pos + len(lbl) + 1
	}
	return strings.TrimRight(string(line), " ") + "  Re"
}

// clipUnit clips a segment to the unit square (Liang-Barsky).
func clipUnit(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	checks := [4][2]float64{{-dx, x0}, {dx, 1 - x0}, {-dy, y0}, {dy, 1 - y0}}
	for _, pq := range checks {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
