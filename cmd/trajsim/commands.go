package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/trajsim/internal/analysis"
	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/experiment"
	"github.com/san-kum/trajsim/internal/export"
	"github.com/san-kum/trajsim/internal/observability"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/recorder"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/san-kum/trajsim/internal/storage"
	"github.com/san-kum/trajsim/internal/viz"
)

// loadRunConfig builds the config for model from, in increasing priority:
// the model defaults, --preset, the fields set in --config and the
// explicitly set flags.
func loadRunConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg, err := config.ForModel(model)
	if err != nil {
		return nil, err
	}

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if configFile != "" {
		if err := config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("scheme") || configFile == "" {
		cfg.Scheme = scheme
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.TMax = duration
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]
	logger := observability.GetLogger()

	cfg, err := loadRunConfig(cmd, model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)

	fmt.Printf("running %s simulation (%s)...\n", model, cfg.Scheme)
	start := time.Now()

	result, runErr := exp.Run()
	if result == nil {
		return runErr
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Model:           model,
		Dt:              cfg.Dt,
		TMax:            cfg.TMax,
		Params:          exp.Params(),
		InitialPosition: cfg.InitialPosition,
		InitialVelocity: cfg.InitialVelocity,
	}, result)
	if err != nil {
		return err
	}
	logger.Debug("run stored", zap.String("run_id", runID), zap.String("dir", dataDir))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result)

	switch {
	case sim.IsSingular(runErr):
		fmt.Println(viz.ErrorText.Render("body reached the force law singularity: " + runErr.Error()))
	case runErr != nil:
		fmt.Println(viz.ErrorText.Render("run stopped producing finite values: " + runErr.Error()))
	}
	return runErr
}

func printMetrics(result *sim.Result) {
	fmt.Println(viz.Metric("energy drift", result.EnergyDrift))
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Println("  " + viz.Metric(name, result.Metrics[name]))
	}
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg, err := loadRunConfig(cmd, model)
	if err != nil {
		return err
	}

	results, err := experiment.Compare(cfg, schemes, observability.GetLogger())
	if len(results) == 0 {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: dt=%g t_max=%g", model, cfg.Dt, cfg.TMax)))
	fmt.Println()

	rows := make([][]string, 0, len(results))
	for _, s := range schemes {
		r, ok := results[s]
		if !ok {
			continue
		}
		last := r.Series.Len() - 1
		rows = append(rows, []string{
			s,
			fmt.Sprintf("%d", r.StepsTaken),
			fmt.Sprintf("%.6g", r.EnergyDrift),
			fmt.Sprintf("%.6g", r.Series.Position[last]),
			fmt.Sprintf("%.6g", r.Series.Velocity[last]),
		})
	}
	fmt.Println(viz.Table([]string{"SCHEME", "STEPS", "ENERGY DRIFT", "FINAL |x|", "FINAL |v|"}, rows))

	data := make([][]float64, 0, len(rows))
	legends := make([]string, 0, len(rows))
	for _, s := range schemes {
		if r, ok := results[s]; ok {
			data = append(data, r.Series.Position)
			legends = append(legends, s)
		}
	}
	fmt.Println(viz.PlotMany(data, legends, "|x| vs time"))
	fmt.Println()

	if model == config.ModelSpring {
		spring := physics.NewSpring(cfg.Spring.Mass, cfg.Spring.K)
		errs := make([][]float64, 0, len(legends))
		for _, s := range legends {
			r := results[s]
			exact := analysis.SpringExact(spring, cfg.InitialPosition[0], cfg.InitialVelocity[0], r.Series.Times)
			e := analysis.AbsoluteError(recorder.Component(r.Trajectory, 0, false), exact)
			errs = append(errs, e)
			fmt.Println(viz.Metric(s+" max error vs exact", analysis.MaxAbs(e)))
		}
		fmt.Println(viz.PlotMany(errs, legends, "absolute error vs closed form"))
	}

	if a, b := results[string(dynamo.SchemeEuler)], results[string(dynamo.SchemeVerlet)]; a != nil && b != nil {
		div, divErr := analysis.Divergence(a.Trajectory, b.Trajectory)
		if divErr == nil {
			fmt.Println()
			fmt.Println(viz.Plot(div, "|x_euler - x_verlet| vs time"))
		}
	}

	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Model,
			run.Scheme,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%g", run.Dt),
			fmt.Sprintf("%g", run.TMax),
			fmt.Sprintf("%d", run.Steps),
			fmt.Sprintf("%.4g", run.EnergyDrift),
		})
	}
	fmt.Print(viz.Table([]string{"ID", "MODEL", "SCHEME", "TIME", "DT", "T_MAX", "STEPS", "DRIFT"}, rows))
	return nil
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.Scheme)
	fmt.Printf("samples: %d\n\n", traj.Len())

	if len(traj.Position(0)) == 1 {
		fmt.Println(viz.Plot(recorder.Component(traj, 0, false), "x vs time"))
		fmt.Println()
		fmt.Println(viz.Plot(recorder.Component(traj, 0, true), "v vs time"))
		return nil
	}

	pos, vel := viz.PlotSeries(recorder.Record(traj))
	fmt.Println(pos)
	fmt.Println()
	fmt.Println(vel)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, traj)
}

func exportText(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteText(os.Stdout, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var lines []export.Line
	switch svgKind {
	case "position":
		times := traj.Times()
		for i := range traj.Position(0) {
			lines = append(lines, export.SeriesLine(times, recorder.Component(traj, i, false)))
		}
	case "phase":
		p := analysis.GeneratePhasePortrait(traj, analysis.Axis{Index: 0}, analysis.Axis{Index: 0, Velocity: true})
		lines = append(lines, export.PortraitLine(p))
	default:
		return fmt.Errorf("unknown plot kind %q (position, phase)", svgKind)
	}

	out := export.SVG(lines, 800, 400)
	if out == "" {
		return errors.New("nothing to draw")
	}
	if svgOut == "" {
		_, err = fmt.Print(out)
		return err
	}
	return os.WriteFile(svgOut, []byte(out), 0644)
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	rows := make([][]string, 0)
	for _, m := range registry.ListModels() {
		rows = append(rows, []string{m, fmt.Sprintf("%d", config.ModelDim(m)), fmt.Sprintf("%v", config.ListPresets(m))})
	}
	fmt.Print(viz.Table([]string{"MODEL", "DIM", "PRESETS"}, rows))
	fmt.Printf("\nschemes: %v\n", registry.ListSchemes())
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets(args[0])
	if len(names) == 0 {
		fmt.Printf("no presets for model: %s\n", args[0])
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(args[0], name)
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%g", p.Dt),
			fmt.Sprintf("%g", p.TMax),
			fmt.Sprintf("%v", p.InitialPosition),
			fmt.Sprintf("%v", p.InitialVelocity),
		})
	}
	fmt.Printf("presets for %s:\n", args[0])
	fmt.Print(viz.Table([]string{"NAME", "DT", "T_MAX", "X0", "V0"}, rows))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.ForModel(args[0])
	if err != nil {
		return err
	}
	if err := config.Save(args[1], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s config to %s\n", args[0], args[1])
	return nil
}

func plotErrors(cmd *cobra.Command, args []string) error {
	rows, err := storage.LoadColumns(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data in %s", args[0])
	}

	width := len(rows[0])
	fmt.Printf("%s: %d rows, %d columns\n\n", args[0], len(rows), width)

	for _, c := range columns {
		if c < 0 || c >= width {
			return fmt.Errorf("column %d out of range (table has %d)", c, width)
		}
		col := storage.Column(rows, c)
		fmt.Println(viz.Plot(col, fmt.Sprintf("column %d", c)))
		fmt.Println(viz.Metric(fmt.Sprintf("column %d max |value|", c), analysis.MaxAbs(col)))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if traj.FirstInvalid() >= 0 {
		return errors.New("run contains non-finite samples")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	data := recorder.Record(traj).Position
	caption := "power spectrum (|x|)"
	if len(traj.Position(0)) == 1 {
		data = recorder.Component(traj, 0, false)
		caption = "power spectrum (x)"
	}

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 0 {
		fmt.Println(viz.Plot(ps[:max(len(ps)/4, 1)], caption))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, meta.Dt)
	fmt.Println(viz.Metric("dominant frequency", freq))
	if freq > 0 {
		fmt.Println(viz.Metric("period", 1/freq))
	}

	if meta.Model == config.ModelSpring {
		w := physics.NewSpring(meta.Params["mass"], meta.Params["k"]).AngularFrequency()
		fmt.Println(viz.Metric("natural frequency", w/(2*math.Pi)))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	x := analysis.Axis{Index: xAxis, Velocity: xVel}
	y := analysis.Axis{Index: yAxis, Velocity: yVel}
	portrait := analysis.GeneratePhasePortrait(traj, x, y)
	if portrait == nil {
		return fmt.Errorf("axes out of range for %d-D run", len(traj.Position(0)))
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", axisLabel(x), axisLabel(y))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 25))
	return nil
}

func axisLabel(a analysis.Axis) string {
	if a.Velocity {
		return fmt.Sprintf("v%d", a.Index)
	}
	return fmt.Sprintf("x%d", a.Index)
}

func playbackRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.RunPlayback(fmt.Sprintf("%s (%s/%s)", meta.ID, meta.Model, meta.Scheme), traj)
}
