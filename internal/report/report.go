// Package report defines the interface to the drift/performance report
// generator. The generator itself is an external collaborator consumed as
// a black box: declared column roles plus two datasets in, an ordered list
// of metric blocks out.
package report

import (
	"context"

	"bike-stock-lab/internal/domain"
)

// Regression declares target/prediction column roles for performance
// monitoring.
type Regression struct {
	Target     string
	Prediction string
}

// DataDefinition declares column roles for a report run. Either the
// numeric/categorical lists (drift mode) or Regression (performance mode)
// is set.
type DataDefinition struct {
	NumericalColumns   []string
	CategoricalColumns []string
	Regression         *Regression
}

// MetricValue is one metric block's value: a scalar, a {mean, std} pair
// for dispersion metrics, or a {count, share} pair for aggregate summaries.
// Unused fields are nil.
type MetricValue struct {
	Scalar *float64
	Mean   *float64
	Std    *float64
	Count  *float64
	Share  *float64
}

// MetricBlock is one entry of a report. Column identifies the monitored
// column for per-column metrics and is empty for aggregate blocks.
type MetricBlock struct {
	Name   string
	Column string
	Value  MetricValue
}

// Report is the ordered metric block list returned by one generator run.
type Report struct {
	Metrics []MetricBlock
}

// Generator produces a metrics report comparing a current dataset against
// a reference dataset under the declared column roles.
type Generator interface {
	Run(ctx context.Context, def DataDefinition, reference, current []*domain.FeatureRow) (*Report, error)
}

// Float returns a pointer to v. Convenience for building MetricValue.
func Float(v float64) *float64 {
	return &v
}
