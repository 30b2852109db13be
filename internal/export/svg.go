// Package export renders Moody diagrams and valve trajectories as SVG.
package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/flow"
	"github.com/san-kum/pipeflow/internal/models"
	"github.com/san-kum/pipeflow/internal/viz"
)

const (
	marginLeft   = 70.0
	marginRight  = 90.0
	marginTop    = 40.0
	marginBottom = 50.0
)

var palette = []string{"#00ccff", "#ff4488", "#00ff88", "#ffaa00", "#cc88ff", "#ffffff"}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="11">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// MoodyToSVG draws the diagram on log-log axes within bounds. Operating
// points are drawn as circles, or triangles in the transitional regime.
func MoodyToSVG(d *flow.Diagram, ops []flow.OperatingPoint, bounds viz.Bounds, width, height int) string {
	if d == nil {
		return ""
	}

	pw := float64(width) - marginLeft - marginRight
	ph := float64(height) - marginTop - marginBottom
	lx0, lx1 := math.Log10(bounds.XMin), math.Log10(bounds.XMax)
	ly0, ly1 := math.Log10(bounds.YMin), math.Log10(bounds.YMax)

	px := func(re float64) float64 { return marginLeft + (math.Log10(re)-lx0)/(lx1-lx0)*pw }
	py := func(f float64) float64 { return marginTop + ph - (math.Log10(f)-ly0)/(ly1-ly0)*ph }
	inside := func(p flow.Point) bool {
		return p.Re >= bounds.XMin && p.Re <= bounds.XMax && p.F >= bounds.YMin && p.F <= bounds.YMax
	}

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<clipPath id="plot"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath>
`, marginLeft, marginTop, pw, ph))

	// grid
	sb.WriteString(`<g stroke="#222233" stroke-width="0.5">` + "\n")
	for e := math.Ceil(lx0); e <= lx1; e++ {
		for m := 1.0; m < 10; m++ {
			re := m * math.Pow(10, e)
			if re < bounds.XMin || re > bounds.XMax {
				continue
			}
			x := px(re)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x, marginTop, x, marginTop+ph))
		}
	}
	for _, f := range []float64{0.008, 0.009, 0.01, 0.015, 0.02, 0.025, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09, 0.1} {
		if f < bounds.YMin || f > bounds.YMax {
			continue
		}
		y := py(f)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", marginLeft, y, marginLeft+pw, y))
	}
	sb.WriteString("</g>\n")

	// axes and tick labels
	sb.WriteString(`<g fill="#888899">` + "\n")
	for e := math.Ceil(lx0); e <= lx1; e++ {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">1e%d</text>`+"\n", px(math.Pow(10, e)), marginTop+ph+16, int(e)))
	}
	for _, f := range []float64{0.008, 0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.08, 0.1} {
		if f < bounds.YMin || f > bounds.YMax {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end">%g</text>`+"\n", marginLeft-6, py(f)+4, f))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">Reynolds number</text>`+"\n", marginLeft+pw/2, float64(height)-12))
	sb.WriteString(fmt.Sprintf(`<text x="16" y="%.1f" text-anchor="middle" transform="rotate(-90 16 %.1f)">friction factor</text>`+"\n", marginTop+ph/2, marginTop+ph/2))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="24" text-anchor="middle" fill="#00ffff" font-size="14">Moody diagram</text>`+"\n", marginLeft+pw/2))
	sb.WriteString("</g>\n")
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466"/>`+"\n", marginLeft, marginTop, pw, ph))

	// curves
	sb.WriteString(`<g clip-path="url(#plot)" fill="none" stroke-width="1.2">` + "\n")
	for i, c := range d.Curves() {
		if len(c.Points) < 2 {
			continue
		}
		color := "#00ccff"
		if i < 2 {
			color = "#00ff88"
		}
		dash := ""
		if c.Style == flow.Dashed {
			dash = ` stroke-dasharray="6,4"`
		}
		sb.WriteString(fmt.Sprintf(`<path stroke="%s"%s d="`, color, dash))
		for j, p := range c.Points {
			cmd := " L"
			if j == 0 {
				cmd = "M"
			}
			sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, px(p.Re), py(p.F)))
		}
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</g>\n")

	// roughness labels at the right end of each turbulent curve
	sb.WriteString(`<g fill="#00ccff" font-size="9">` + "\n")
	for _, c := range d.Turbulent {
		if len(c.Points) == 0 {
			continue
		}
		last := c.Points[len(c.Points)-1]
		if !inside(last) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>`+"\n", px(last.Re)+4, py(last.F)+3, html.EscapeString(c.Label)))
	}
	sb.WriteString("</g>\n")

	// operating points
	for _, op := range ops {
		p := op.Point()
		if !inside(p) {
			continue
		}
		x, y := px(p.Re), py(p.F)
		if op.Marker == flow.MarkerTriangle {
			sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="#ffaa00"/>`+"\n", x, y-6, x-5, y+4, x+5, y+4))
		} else {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#ff4488"/>`+"\n", x, y))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Series is one named line of a trajectory panel.
type Series struct {
	Name   string
	Values []float64
}

// Panel is a titled plot area with its own y range.
type Panel struct {
	Title  string
	Series []Series
}

// ValvePanels splits piston-valve samples into a motion panel (x, xdot) and
// a pressure panel (p1, p2).
func ValvePanels(states []dynamo.State) []Panel {
	r := dynamo.Result{States: states}
	return []Panel{
		{Title: "piston motion", Series: []Series{
			{Name: "x [m]", Values: r.Column(models.IdxPosition)},
			{Name: "xdot [m/s]", Values: r.Column(models.IdxVelocity)},
		}},
		{Title: "chamber pressure", Series: []Series{
			{Name: "p1 [Pa]", Values: r.Column(models.IdxP1)},
			{Name: "p2 [Pa]", Values: r.Column(models.IdxP2)},
		}},
	}
}

// TrajectoryToSVG stacks the panels vertically against a shared time axis.
func TrajectoryToSVG(times []float64, panels []Panel, width, height int) string {
	if len(times) < 2 || len(panels) == 0 {
		return ""
	}

	pw := float64(width) - marginLeft - marginRight
	slot := (float64(height) - marginTop) / float64(len(panels))
	ph := slot - marginBottom
	t0, t1 := times[0], times[len(times)-1]
	if t1 == t0 {
		t1 = t0 + 1
	}

	var sb strings.Builder
	header(&sb, width, height)

	for k, panel := range panels {
		top := marginTop + float64(k)*slot
		minY, maxY := seriesRange(panel.Series)
		rangeY := maxY - minY
		if rangeY == 0 {
			rangeY = 1
		}
		minY -= rangeY * 0.1
		maxY += rangeY * 0.1
		rangeY = maxY - minY

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466"/>`+"\n", marginLeft, top, pw, ph))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#00ffff" text-anchor="middle">%s</text>`+"\n", marginLeft+pw/2, top-8, html.EscapeString(panel.Title)))
		sb.WriteString(fmt.Sprintf(`<g fill="#888899"><text x="%.1f" y="%.1f" text-anchor="end">%.3g</text><text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>`,
			marginLeft-6, top+10, maxY, marginLeft-6, top+ph, minY))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%.3g s</text><text x="%.1f" y="%.1f" text-anchor="end">%.3g s</text></g>`+"\n",
			marginLeft, top+ph+16, t0, marginLeft+pw, top+ph+16, t1))

		for i, s := range panel.Series {
			color := palette[i%len(palette)]
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
			n := len(s.Values)
			if n > len(times) {
				n = len(times)
			}
			for j := 0; j < n; j++ {
				x := marginLeft + (times[j]-t0)/(t1-t0)*pw
				y := top + ph - (s.Values[j]-minY)/rangeY*ph
				cmd := " L"
				if j == 0 {
					cmd = "M"
				}
				sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, x, y))
			}
			sb.WriteString(`"/>` + "\n")
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n", marginLeft+pw+6, top+14+float64(i)*14, color, html.EscapeString(s.Name)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func seriesRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}
