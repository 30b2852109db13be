package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pipeflow/internal/config"
	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/export"
	"github.com/san-kum/pipeflow/internal/integrators"
	"github.com/san-kum/pipeflow/internal/metrics"
	"github.com/san-kum/pipeflow/internal/models"
	"github.com/san-kum/pipeflow/internal/storage"
	"github.com/san-kum/pipeflow/internal/tui"
	"github.com/san-kum/pipeflow/internal/viz"
)

var (
	valvePreset    string
	duration       float64
	numPoints      int
	tolerance      float64
	integratorName string
	adaptive       bool
	saveRun        bool
	showProgress   bool
	compareDt      float64
)

func newValveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "valve",
		Short: "integrate the piston-valve system",
		Args:  cobra.NoArgs,
		RunE:  runValve,
	}
	cmd.Flags().StringVar(&valvePreset, "preset", "", "use a valve preset")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time span (s)")
	cmd.Flags().IntVar(&numPoints, "points", config.DefaultPoints, "number of evaluation times")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "relative error tolerance")
	cmd.Flags().StringVar(&integratorName, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().BoolVar(&adaptive, "adaptive", true, "adaptive step size control")
	cmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the trajectories as SVG to this file")
	return cmd
}

func runValve(cmd *cobra.Command, args []string) error {
	if valvePreset != "" {
		if err := config.ApplyPreset(cfg, "valve", valvePreset); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Solver.Duration = duration
	}
	if flags.Changed("points") {
		cfg.Solver.Points = numPoints
	}
	if flags.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("integrator") {
		cfg.Solver.Integrator = integratorName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pv := models.NewPistonValve(cfg.Valve)
	integ, err := integrators.Get(cfg.Solver.Integrator)
	if err != nil {
		return err
	}

	s := dynamo.New(pv, integ)
	for _, m := range metrics.ForValve(cfg.Valve) {
		s.AddMetric(m)
	}
	var progress *tui.Progress
	if showProgress {
		progress = tui.NewProgress(cmd.ErrOrStderr(), cfg.Solver.Duration, 20)
		s.AddObserver(progress)
	}

	log := logger.With(
		zap.String("integrator", cfg.Solver.Integrator),
		zap.Float64("duration", cfg.Solver.Duration),
		zap.Int("points", cfg.Solver.Points))
	log.Info("solving piston valve")

	start := time.Now()
	result, err := s.Solve(cmd.Context(), pv.InitialState(), cfg.Solver.EvalTimes(), cfg.Solver.Dynamo(adaptive), false)
	if progress != nil {
		progress.Done()
	}
	if err != nil {
		log.Error("solve failed", zap.Error(err), zap.Int("steps", stepsOf(result)))
		return err
	}
	elapsed := time.Since(start)
	log.Info("solved",
		zap.Duration("elapsed", elapsed),
		zap.Int("steps", result.StepsTaken),
		zap.Int("rejected", result.Rejected))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %d steps (%d rejected) in %v\n\n",
		viz.Title.Render("piston valve"), result.StepsTaken, result.Rejected, elapsed.Round(time.Microsecond))
	printValvePlots(out, result.Times, result.States, pv.StateLabels())
	fmt.Fprintln(out, viz.MetricsPanel("metrics", result.Metrics))

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Model:      "piston_valve",
			Preset:     valvePreset,
			Seed:       cfg.Seed,
			Integrator: cfg.Solver.Integrator,
			Duration:   cfg.Solver.Duration,
			Points:     cfg.Solver.Points,
			Tolerance:  cfg.Solver.Tolerance,
			Constants:  cfg.Valve,
			Labels:     pv.StateLabels(),
		}, result)
		if err != nil {
			return err
		}
		log.Info("run saved", zap.String("run_id", runID), zap.String("dir", dataDir))
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	if svgPath != "" {
		svg := export.TrajectoryToSVG(result.Times, export.ValvePanels(result.States), 900, 700)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "svg: %s\n", svgPath)
	}
	return nil
}

func stepsOf(r *dynamo.Result) int {
	if r == nil {
		return 0
	}
	return r.StepsTaken
}

// printValvePlots draws x and xdot on their own axes and p1 with p2 together.
func printValvePlots(out io.Writer, times []float64, states []dynamo.State, labels []string) {
	r := dynamo.Result{States: states}
	label := func(i int) string {
		if i < len(labels) {
			return labels[i]
		}
		return fmt.Sprintf("x%d", i)
	}
	t1 := 0.0
	if len(times) > 0 {
		t1 = times[len(times)-1]
	}
	span := fmt.Sprintf(" vs time [0, %.3g s]", t1)

	fmt.Fprintln(out, viz.TimePlot(label(models.IdxPosition)+" [m]"+span, 72, 8,
		viz.Series{Name: label(models.IdxPosition), Values: r.Column(models.IdxPosition), Color: asciigraph.Green}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.TimePlot(label(models.IdxVelocity)+" [m/s]"+span, 72, 8,
		viz.Series{Name: label(models.IdxVelocity), Values: r.Column(models.IdxVelocity), Color: asciigraph.Cyan}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.TimePlot("pressure [Pa]"+span, 72, 10,
		viz.Series{Name: label(models.IdxP1), Values: r.Column(models.IdxP1), Color: asciigraph.Red},
		viz.Series{Name: label(models.IdxP2), Values: r.Column(models.IdxP2), Color: asciigraph.Blue}))
	fmt.Fprintln(out)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the piston-valve system",
		RunE:  compareIntegrators,
	}
	cmd.Flags().Float64Var(&compareDt, "dt", 1e-6, "fixed timestep for non-adaptive integrators")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time span (s)")
	return cmd
}

// compareIntegrators runs each integrator over the same span and reports the
// deviation of the final state from a tight-tolerance rk45 reference.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	if cmd.Flags().Changed("time") {
		cfg.Solver.Duration = duration
	}

	pv := models.NewPistonValve(cfg.Valve)
	span := []float64{0, cfg.Solver.Duration}

	refCfg := cfg.Solver.Dynamo(true)
	refCfg.Tolerance = 1e-10
	ref, err := dynamo.New(pv, integrators.NewRK45()).Solve(cmd.Context(), pv.InitialState(), span, refCfg, false)
	if err != nil {
		return fmt.Errorf("reference solve: %w", err)
	}
	xRef := ref.States[len(ref.States)-1]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators on piston valve (dt=%.2g, duration=%.3gs)\n\n", compareDt, cfg.Solver.Duration)
	fmt.Fprintf(out, "%-8s  %-8s  %8s  %12s  %12s  %12s  %9s\n", "integ", "mode", "steps", "final_x", "err_x", "err_p1", "time_ms")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			fmt.Fprintf(out, "%-8s  error: %v\n", name, err)
			continue
		}

		_, isAdaptive := integ.(dynamo.AdaptiveIntegrator)
		runCfg := cfg.Solver.Dynamo(isAdaptive)
		runCfg.Dt = compareDt
		mode := "fixed"
		if isAdaptive {
			mode = "adaptive"
		}

		start := time.Now()
		res, err := dynamo.New(pv, integ).Solve(cmd.Context(), pv.InitialState(), span, runCfg, false)
		elapsed := time.Since(start)
		if err != nil {
			logger.Warn("integrator failed", zap.String("integrator", name), zap.Error(err))
			fmt.Fprintf(out, "%-8s  error: %v\n", name, err)
			continue
		}

		x := res.States[len(res.States)-1]
		fmt.Fprintf(out, "%-8s  %-8s  %8d  %12.6g  %12.2e  %12.2e  %9.2f\n",
			name, mode, res.StepsTaken, x[models.IdxPosition],
			math.Abs(x[models.IdxPosition]-xRef[models.IdxPosition]),
			math.Abs(x[models.IdxP1]-xRef[models.IdxP1]),
			float64(elapsed.Microseconds())/1000)
	}
	return nil
}
