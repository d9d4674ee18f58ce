// Package stub provides a deterministic in-process report generator for
// tests and local pipeline runs. It mirrors the block layout of the real
// generator: one aggregate summary block followed by per-column blocks in
// drift mode, named regression blocks in performance mode.
package stub

import (
	"context"
	"fmt"
	"math"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/report"
)

// Generator computes simple distribution-shift and regression-error
// statistics. Deterministic: identical inputs yield identical reports.
type Generator struct {
	// DriftThreshold marks a column as drifted inside the aggregate
	// summary block.
	DriftThreshold float64
}

// NewGenerator creates a Generator with the default 0.1 drift threshold.
func NewGenerator() *Generator {
	return &Generator{DriftThreshold: 0.1}
}

var _ report.Generator = (*Generator)(nil)

// Run produces a report for the declared definition. The current dataset
// must be non-empty; an empty slice is an error, matching the external
// generator's behavior on empty input.
func (g *Generator) Run(_ context.Context, def report.DataDefinition, reference, current []*domain.FeatureRow) (*report.Report, error) {
	if len(reference) == 0 {
		return nil, fmt.Errorf("reference dataset is empty")
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("current dataset is empty")
	}

	if def.Regression != nil {
		return g.runRegression(def, reference, current)
	}
	return g.runDrift(def, reference, current)
}

func (g *Generator) runDrift(def report.DataDefinition, reference, current []*domain.FeatureRow) (*report.Report, error) {
	type scored struct {
		column string
		score  float64
	}
	var scores []scored

	for _, col := range def.NumericalColumns {
		ref, err := numericColumn(reference, col)
		if err != nil {
			return nil, err
		}
		cur, err := numericColumn(current, col)
		if err != nil {
			return nil, err
		}
		scores = append(scores, scored{column: col, score: meanShiftScore(ref, cur)})
	}
	for _, col := range def.CategoricalColumns {
		ref, err := categoricalColumn(reference, col)
		if err != nil {
			return nil, err
		}
		cur, err := categoricalColumn(current, col)
		if err != nil {
			return nil, err
		}
		scores = append(scores, scored{column: col, score: totalVariation(ref, cur)})
	}

	drifted := 0
	for _, s := range scores {
		if s.score > g.DriftThreshold {
			drifted++
		}
	}

	rep := &report.Report{}
	rep.Metrics = append(rep.Metrics, report.MetricBlock{
		Name: "DriftedColumnsCount",
		Value: report.MetricValue{
			Count: report.Float(float64(drifted)),
			Share: report.Float(float64(drifted) / float64(len(scores))),
		},
	})
	for _, s := range scores {
		rep.Metrics = append(rep.Metrics, report.MetricBlock{
			Name:   "ValueDrift",
			Column: s.column,
			Value:  report.MetricValue{Scalar: report.Float(s.score)},
		})
	}

	return rep, nil
}

func (g *Generator) runRegression(def report.DataDefinition, _, current []*domain.FeatureRow) (*report.Report, error) {
	var absErrors []float64
	var sqSum float64
	for _, r := range current {
		if r.Prediction == nil {
			return nil, fmt.Errorf("row missing %s column", def.Regression.Prediction)
		}
		err := *r.Prediction - r.TargetNextStock
		absErrors = append(absErrors, math.Abs(err))
		sqSum += err * err
	}

	n := float64(len(absErrors))
	rmse := math.Sqrt(sqSum / n)

	var absSum, absMax float64
	for _, e := range absErrors {
		absSum += e
		if e > absMax {
			absMax = e
		}
	}
	maeMean := absSum / n

	var maeVar float64
	for _, e := range absErrors {
		d := e - maeMean
		maeVar += d * d
	}
	maeStd := math.Sqrt(maeVar / n)

	return &report.Report{Metrics: []report.MetricBlock{
		{Name: "RMSE", Value: report.MetricValue{Scalar: report.Float(rmse)}},
		{Name: "MAE", Value: report.MetricValue{
			Mean: report.Float(maeMean),
			Std:  report.Float(maeStd),
		}},
		{Name: "AbsMaxError", Value: report.MetricValue{Scalar: report.Float(absMax)}},
	}}, nil
}

// meanShiftScore measures the shift of the current mean against the
// reference distribution, scaled by the reference spread.
func meanShiftScore(ref, cur []float64) float64 {
	refMean, refStd := meanStd(ref)
	curMean, _ := meanStd(cur)
	return math.Abs(curMean-refMean) / (refStd + 1.0)
}

// totalVariation is half the L1 distance between category frequency
// distributions, in [0, 1].
func totalVariation(ref, cur []string) float64 {
	refFreq := frequencies(ref)
	curFreq := frequencies(cur)

	categories := make(map[string]struct{})
	for c := range refFreq {
		categories[c] = struct{}{}
	}
	for c := range curFreq {
		categories[c] = struct{}{}
	}

	var dist float64
	for c := range categories {
		dist += math.Abs(refFreq[c] - curFreq[c])
	}
	return dist / 2
}

func frequencies(values []string) map[string]float64 {
	freq := make(map[string]float64)
	for _, v := range values {
		freq[v]++
	}
	for k := range freq {
		freq[k] /= float64(len(values))
	}
	return freq
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqSum float64
	for _, v := range values {
		d := v - mean
		sqSum += d * d
	}
	return mean, math.Sqrt(sqSum / float64(len(values)))
}

func numericColumn(rows []*domain.FeatureRow, col string) ([]float64, error) {
	values := make([]float64, len(rows))
	for i, r := range rows {
		switch col {
		case "stock":
			values[i] = r.Stock
		case "hour":
			values[i] = r.Hour
		case "dayofweek":
			values[i] = float64(r.DayOfWeek)
		case "is_rush_hour":
			values[i] = float64(r.IsRushHour)
		case "lag_15m_stock":
			values[i] = r.Lag15mStock
		case "lag_30m_stock":
			values[i] = r.Lag30mStock
		case "lag_45m_stock":
			values[i] = r.Lag45mStock
		case "lag_60m_stock":
			values[i] = r.Lag60mStock
		case "target_next_stock":
			values[i] = r.TargetNextStock
		case "date":
			values[i] = r.Date
		default:
			return nil, fmt.Errorf("unknown numeric column %q", col)
		}
	}
	return values, nil
}

func categoricalColumn(rows []*domain.FeatureRow, col string) ([]string, error) {
	values := make([]string, len(rows))
	for i, r := range rows {
		switch col {
		case "station":
			values[i] = r.Station
		case "rideable_type":
			values[i] = r.RideableType
		default:
			return nil, fmt.Errorf("unknown categorical column %q", col)
		}
	}
	return values, nil
}
