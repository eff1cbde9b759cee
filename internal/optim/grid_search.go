// Package optim searches config parameter grids for the run with the best
// value of a metric.
package optim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/experiment"
)

// Evaluation is one grid point and the metric it produced. Err is set when
// the run failed; Value is then +Inf.
type Evaluation struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *zap.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}, nil
}

// Search runs base with every combination of parameter values and returns
// the point with the best metric (see Better) along with every evaluation
// in grid order. Failed runs are kept in the evaluations but never win.
func (g *GridSearch) Search(base *config.Config, metricName string) (Evaluation, []Evaluation, error) {
	best := Evaluation{Value: math.Inf(1)}
	var all []Evaluation

	check := base.Clone()
	for _, name := range g.paramNames {
		if err := check.SetParam(name, 0); err != nil {
			return best, nil, err
		}
	}

	if err := g.searchRecursive(base, 0, make(map[string]float64), metricName, &best, &all); err != nil {
		return best, all, err
	}
	if best.Params == nil {
		return best, all, fmt.Errorf("optim: no grid point produced %q", metricName)
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	base *config.Config,
	depth int,
	current map[string]float64,
	metricName string,
	best *Evaluation,
	all *[]Evaluation,
) error {
	if depth == len(g.paramNames) {
		eval := g.evaluate(base, current, metricName)
		*all = append(*all, eval)
		if eval.Err == nil && !math.IsNaN(eval.Value) &&
			(best.Params == nil || Better(metricName, eval.Value, best.Value)) {
			*best = eval
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(base, depth+1, newParams, metricName, best, all); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(base *config.Config, params map[string]float64, metricName string) Evaluation {
	eval := Evaluation{Params: params, Value: math.Inf(1)}

	cfg := base.Clone()
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			eval.Err = err
			return eval
		}
	}

	result, err := experiment.New(cfg, g.logger).Run()
	if err != nil {
		eval.Err = err
		g.logger.Debug("grid point failed", zap.Any("params", params), zap.Error(err))
		return eval
	}

	val, ok := metricValue(result.Metrics, result.EnergyDrift, metricName)
	if !ok {
		eval.Err = fmt.Errorf("optim: run has no metric %q", metricName)
		return eval
	}
	eval.Value = val
	return eval
}

// higherIsBetter lists the metrics a search maximises.
var higherIsBetter = map[string]bool{
	"stability": true,
}

// Better reports whether metric value a beats b.
func Better(metric string, a, b float64) bool {
	if higherIsBetter[metric] {
		return a > b
	}
	return a < b
}

func metricValue(metrics map[string]float64, drift float64, name string) (float64, bool) {
	if name == "energy_drift_final" {
		return drift, true
	}
	v, ok := metrics[name]
	return v, ok
}
