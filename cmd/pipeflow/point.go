package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pipeflow/internal/config"
	"github.com/san-kum/pipeflow/internal/flow"
	"github.com/san-kum/pipeflow/internal/tui"
	"github.com/san-kum/pipeflow/internal/viz"
)

var (
	diameter   float64
	roughness  float64
	flowRate   float64
	pipePreset string
)

func newPointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "point",
		Short: "evaluate a pipe operating point (interactive without flags)",
		Args:  cobra.NoArgs,
		RunE:  runPoint,
	}
	cmd.Flags().Float64Var(&diameter, "diameter", 0, "pipe diameter (in)")
	cmd.Flags().Float64Var(&roughness, "roughness", 0, "absolute roughness (micro-in)")
	cmd.Flags().Float64Var(&flowRate, "flow", 0, "volumetric flow rate (gpm)")
	cmd.Flags().StringVar(&pipePreset, "pipe", "", "use a pipe preset")
	addChartFlags(cmd)
	return cmd
}

func runPoint(cmd *cobra.Command, args []string) error {
	if pipePreset != "" {
		if err := config.ApplyPreset(cfg, "pipe", pipePreset); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	spec := cfg.Pipe
	if flags.Changed("diameter") {
		spec.DiameterInches = diameter
	}
	if flags.Changed("roughness") {
		spec.RoughnessMicroInches = roughness
	}
	if flags.Changed("flow") {
		spec.FlowRateGPM = flowRate
	}

	ev := flow.NewEvaluator(flow.WithSeed(cfg.Seed))

	explicit := flags.Changed("diameter") && flags.Changed("roughness") && flags.Changed("flow")
	var ops []flow.OperatingPoint
	if explicit || pipePreset != "" || spec.Validate() == nil {
		op, err := ev.OperatingPoint(spec)
		if err != nil {
			return err
		}
		logger.Info("operating point",
			zap.Float64("re", op.Reynolds),
			zap.Stringer("regime", op.Regime),
			zap.Float64("f", op.FrictionFactor))
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, viz.OperatingPanel(op))
		fmt.Fprintln(out, tui.Summary(op))
		ops = append(ops, op)
	} else {
		points, err := tui.Run(ev, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		logger.Info("session finished", zap.Int("points", len(points)))
		ops = points
	}

	if len(ops) == 0 {
		return nil
	}
	d, err := ev.Moody(cfg.Moody)
	if err != nil {
		return err
	}
	return drawMoody(cmd, d, ops)
}
