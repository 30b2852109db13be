package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pipeflow/internal/flow"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	regimeColors = map[flow.Regime]lipgloss.Color{
		flow.Laminar:      lipgloss.Color("#00ff88"),
		flow.Transitional: lipgloss.Color("#ffaa00"),
		flow.Turbulent:    lipgloss.Color("#ff4488"),
	}
)

// RegimeBadge renders the regime name in its color.
func RegimeBadge(r flow.Regime) string {
	return lipgloss.NewStyle().Bold(true).Foreground(regimeColors[r]).Render(r.String())
}

// OperatingPanel renders one operating point as a bordered panel.
func OperatingPanel(op flow.OperatingPoint) string {
	rows := [][2]string{
		{"velocity", fmt.Sprintf("%.5f ft/s", op.Velocity)},
		{"Re", fmt.Sprintf("%.2f", op.Reynolds)},
		{"rr", fmt.Sprintf("%.3g", op.RelativeRoughness)},
		{"f", fmt.Sprintf("%.5f", op.FrictionFactor)},
		{"head loss", fmt.Sprintf("%.5f ft/ft", op.HeadLossPerFoot)},
	}
	var b strings.Builder
	b.WriteString(string(op.Marker.Symbol()) + " " + RegimeBadge(op.Regime) + "\n")
	for _, r := range rows {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-10s", r[0])) + " " + MetricValue.Render(r[1]) + "\n")
	}
	return Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

// MetricsPanel renders named values sorted by name.
func MetricsPanel(title string, metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	width := 0
	for name := range metrics {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(Title.Render(title))
	for _, name := range names {
		b.WriteString("\n" + MetricLabel.Render(fmt.Sprintf("%-*s", width, name)) + "  " + MetricValue.Render(fmt.Sprintf("%.6g", metrics[name])))
	}
	return Panel.Render(b.String())
}

// Separator draws a decorated horizontal rule.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
