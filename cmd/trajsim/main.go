package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/observability"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	scheme   string
	dt       float64
	duration float64
	preset   string
	schemes  []string

	// phase plot axes
	xAxis int
	yAxis int
	xVel  bool
	yVel  bool

	columns []int

	svgKind string
	svgOut  string

	sweepParams  []string
	sweepMetric  string
	saveScenario bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "trajsim",
		Short:             "fixed-step trajectory integration for springs and orbits",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trajsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "run several schemes on the same initial condition",
		Args:  cobra.ExactArgs(1),
		RunE:  compareSchemes,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&schemes, "schemes", []string{"euler", "verlet"}, "schemes to compare")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "grid search config parameters for the best metric",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter grid, e.g. dt=0.1,0.05 (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to optimise: energy_drift, energy_drift_final, energy (minimised) or stability (maximised)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveScenario, "save", false, "store every step as a run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and velocity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportTextCmd := &cobra.Command{
		Use:   "export-text [run_id]",
		Short: "export \"t x v\" rows as plain text",
		Args:  cobra.ExactArgs(1),
		RunE:  exportText,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a position or phase plot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "position", "plot kind (position, phase)")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (stdout when empty)")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list force models and integration schemes",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [model] [path]",
		Short: "write the default config of a model to a yaml file",
		Args:  cobra.ExactArgs(2),
		RunE:  initConfig,
	}

	errorsCmd := &cobra.Command{
		Use:   "errors [file]",
		Short: "plot columns of an externally computed error table",
		Args:  cobra.ExactArgs(1),
		RunE:  plotErrors,
	}
	errorsCmd.Flags().IntSliceVar(&columns, "columns", []int{1}, "column indices to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "coordinate index for the x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 0, "coordinate index for the y-axis")
	phaseCmd.Flags().BoolVar(&xVel, "x-velocity", false, "use velocity instead of position on the x-axis")
	phaseCmd.Flags().BoolVar(&yVel, "y-velocity", true, "use velocity instead of position on the y-axis")

	playbackCmd := &cobra.Command{
		Use:   "playback [run_id]",
		Short: "step through a stored run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  playbackRun,
	}

	rootCmd.AddCommand(runCmd, compareCmd, sweepCmd, scenarioCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportTextCmd,
		exportSVGCmd, modelsCmd, presetsCmd, initCmd, errorsCmd, analyzeCmd, phaseCmd, playbackCmd)

	if err := rootCmd.Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scheme, "scheme", "euler", "integration scheme (euler, verlet)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (model default when unset)")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration t_max (model default when unset)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// setupLogging layers the logger config: defaults or the config file's
// logger section, then TRAJSIM_LOGGER_* env vars, then the --log-* flags.
func setupLogging(cmd *cobra.Command, _ []string) error {
	base := config.DefaultLoggerConfig()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		base = cfg.Logger
	}

	v := viper.New()
	v.SetEnvPrefix("TRAJSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logger.level", base.Level)
	v.SetDefault("logger.format", base.Format)
	v.SetDefault("logger.log_file", base.LogFile)
	v.SetDefault("logger.add_source", base.AddSource)

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"logger.level":    "log-level",
		"logger.format":   "log-format",
		"logger.log_file": "log-file",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}

	lc := base
	lc.Level = v.GetString("logger.level")
	lc.Format = v.GetString("logger.format")
	lc.LogFile = v.GetString("logger.log_file")
	lc.AddSource = v.GetBool("logger.add_source")

	observability.InitializeLogger(lc)
	return nil
}
