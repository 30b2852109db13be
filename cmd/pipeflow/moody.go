package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pipeflow/internal/export"
	"github.com/san-kum/pipeflow/internal/flow"
	"github.com/san-kum/pipeflow/internal/viz"
)

var (
	svgPath     string
	chartWidth  int
	chartHeight int
)

func newMoodyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moody",
		Short: "generate and draw the Moody diagram",
		Args:  cobra.NoArgs,
		RunE:  runMoody,
	}
	addChartFlags(cmd)
	return cmd
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the chart as SVG to this file")
	cmd.Flags().IntVar(&chartWidth, "width", 72, "chart width in cells")
	cmd.Flags().IntVar(&chartHeight, "height", 24, "chart height in cells")
}

func runMoody(cmd *cobra.Command, args []string) error {
	ev := flow.NewEvaluator(flow.WithSeed(cfg.Seed))
	d, err := ev.Moody(cfg.Moody)
	if err != nil {
		return err
	}
	logger.Info("moody diagram computed", zap.Int("curves", len(d.Curves())))

	return drawMoody(cmd, d, nil)
}

// drawMoody prints the terminal chart and writes the SVG when requested.
func drawMoody(cmd *cobra.Command, d *flow.Diagram, ops []flow.OperatingPoint) error {
	out := cmd.OutOrStdout()
	chart := viz.NewMoodyChart(chartWidth, chartHeight)
	fmt.Fprintln(out, viz.Title.Render("Moody diagram"))
	fmt.Fprint(out, chart.Render(d.Curves(), viz.MarksFor(ops)))

	if svgPath == "" {
		return nil
	}
	svg := export.MoodyToSVG(d, ops, viz.MoodyBounds, 1000, 700)
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", zap.String("path", svgPath))
	fmt.Fprintf(out, "svg: %s\n", svgPath)
	return nil
}
