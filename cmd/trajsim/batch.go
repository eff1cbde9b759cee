package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/trajsim/internal/automation"
	"github.com/san-kum/trajsim/internal/experiment"
	"github.com/san-kum/trajsim/internal/observability"
	"github.com/san-kum/trajsim/internal/optim"
	"github.com/san-kum/trajsim/internal/storage"
	"github.com/san-kum/trajsim/internal/viz"
)

// parseGrid turns "name=v1,v2,..." flags into parallel name and value lists.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}

func sweepModel(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(sweepParams)
	if err != nil {
		return err
	}

	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	g, err := optim.NewGridSearch(names, ranges, observability.GetLogger())
	if err != nil {
		return err
	}

	best, all, err := g.Search(cfg, sweepMetric)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(all))
	for _, e := range all {
		value := fmt.Sprintf("%.6g", e.Value)
		if e.Err != nil {
			value = "error: " + e.Err.Error()
		}
		rows = append(rows, []string{formatParams(e.Params), value})
	}
	goal := "minimising"
	if optim.Better(sweepMetric, 1, 0) {
		goal = "maximising"
	}
	fmt.Printf("sweep %s (%s), %s %s\n", args[0], cfg.Scheme, goal, sweepMetric)
	fmt.Print(viz.Table([]string{"PARAMS", strings.ToUpper(sweepMetric)}, rows))
	fmt.Println()
	fmt.Println(viz.Metric("best "+formatParams(best.Params), best.Value))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(scenario.Name))
	if scenario.Description != "" {
		fmt.Println(viz.Subtle.Render(scenario.Description))
	}
	fmt.Println()

	results, runErr := automation.RunScenario(scenario, observability.GetLogger())

	var st *storage.Store
	if saveScenario {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		runID := "-"
		if st != nil {
			runID, err = st.Save(storage.RunMetadata{
				Model:           r.Config.Model,
				Dt:              r.Config.Dt,
				TMax:            r.Config.TMax,
				Params:          experiment.New(r.Config, nil).Params(),
				InitialPosition: r.Config.InitialPosition,
				InitialVelocity: r.Config.InitialVelocity,
			}, r.Result)
			if err != nil {
				return err
			}
		}
		rows = append(rows, []string{
			r.Label,
			r.Config.Model,
			r.Result.Scheme,
			fmt.Sprintf("%d", r.Result.StepsTaken),
			fmt.Sprintf("%.6g", r.Result.EnergyDrift),
			runID,
		})
	}
	fmt.Print(viz.Table([]string{"STEP", "MODEL", "SCHEME", "STEPS", "ENERGY DRIFT", "RUN ID"}, rows))
	return runErr
}
