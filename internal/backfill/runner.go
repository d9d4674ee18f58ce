// Package backfill replays the monitoring pipeline day by day across a
// historical month, comparing a moving current window against a fixed
// reference window and persisting the resulting metric records.
package backfill

import (
	"context"
	"fmt"
	"log"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/features"
	"bike-stock-lab/internal/observability"
	"bike-stock-lab/internal/report"
	"bike-stock-lab/internal/storage"
)

// Mode selects which monitoring report is produced and persisted.
type Mode string

const (
	ModeDrift       Mode = "drift"
	ModePerformance Mode = "performance"
)

// Default extraction thresholds.
const (
	DefaultShareThreshold  = 0.5 // dataset drift when drifted share exceeds this
	DefaultColumnThreshold = 0.1 // per-column drift when score exceeds this
)

// Options configures a Runner. Generator and the stores matching Mode are
// required; Logger and Metrics are optional.
type Options struct {
	Generator report.Generator
	Mode      Mode
	Anchors   features.DateAnchors

	DriftStore       storage.ColumnDriftStore
	SummaryStore     storage.DatasetSummaryStore
	PerformanceStore storage.ModelPerformanceStore

	ShareThreshold  float64
	ColumnThreshold float64

	Logger  *log.Logger
	Metrics *observability.Metrics
}

// Runner executes the walk-forward backfill.
type Runner struct {
	opts Options
}

// NewRunner creates a Runner. Zero thresholds fall back to the defaults.
func NewRunner(opts Options) *Runner {
	if opts.ShareThreshold == 0 {
		opts.ShareThreshold = DefaultShareThreshold
	}
	if opts.ColumnThreshold == 0 {
		opts.ColumnThreshold = DefaultColumnThreshold
	}
	return &Runner{opts: opts}
}

// Run replays every day of the target month: slice the current dataset to
// the day, submit (reference, slice) to the report generator, extract the
// mode's metrics and persist them as idempotent upserts.
//
// Days are processed strictly in order and no state carries between them;
// a failure on any day aborts the remaining days.
func (r *Runner) Run(ctx context.Context, reference, current []*domain.FeatureRow, year int, month time.Month) error {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	numDays := daysInMonth(year, month)

	for i := 0; i < numDays; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		day := first.AddDate(0, 0, i)
		if err := r.runDay(ctx, reference, current, day); err != nil {
			return fmt.Errorf("day %s: %w", day.Format("2006-01-02"), err)
		}

		if r.opts.Metrics != nil {
			r.opts.Metrics.BackfillDaysProcessed.WithLabelValues(string(r.opts.Mode)).Inc()
		}
		if r.opts.Logger != nil {
			r.opts.Logger.Printf("day %s: metrics persisted", day.Format("2006-01-02"))
		}
	}

	return nil
}

func (r *Runner) runDay(ctx context.Context, reference, current []*domain.FeatureRow, day time.Time) error {
	// Every bin of one calendar day shares one normalized date value, so
	// an exact-match filter selects the whole day.
	scaled := r.opts.Anchors.Normalize(day)

	var slice []*domain.FeatureRow
	for _, row := range current {
		if row.Date == scaled {
			slice = append(slice, row)
		}
	}

	start := time.Now()
	rep, err := r.opts.Generator.Run(ctx, r.definition(), reference, slice)
	if err != nil {
		return fmt.Errorf("run report: %w", err)
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}

	switch r.opts.Mode {
	case ModePerformance:
		record, err := ExtractPerformance(rep, day)
		if err != nil {
			return fmt.Errorf("extract performance metrics: %w", err)
		}
		if err := r.opts.PerformanceStore.Upsert(ctx, record); err != nil {
			return fmt.Errorf("persist performance record: %w", err)
		}

	default:
		summary, columns, err := ExtractDrift(rep, day, r.opts.ShareThreshold, r.opts.ColumnThreshold)
		if err != nil {
			return fmt.Errorf("extract drift metrics: %w", err)
		}
		if err := r.opts.SummaryStore.Upsert(ctx, summary); err != nil {
			return fmt.Errorf("persist summary record: %w", err)
		}
		if err := r.opts.DriftStore.Upsert(ctx, columns); err != nil {
			return fmt.Errorf("persist column drift records: %w", err)
		}
	}

	return nil
}

// definition declares the column roles submitted with each report run.
func (r *Runner) definition() report.DataDefinition {
	if r.opts.Mode == ModePerformance {
		return report.DataDefinition{
			Regression: &report.Regression{
				Target:     "target_next_stock",
				Prediction: "predict",
			},
		}
	}
	return report.DataDefinition{
		NumericalColumns:   domain.NumericFeatureColumns(),
		CategoricalColumns: domain.CategoricalFeatureColumns(),
	}
}

// TailFraction returns the trailing fraction of rows; the performance mode
// keeps only the validation split of the reference set.
func TailFraction(rows []*domain.FeatureRow, frac float64) []*domain.FeatureRow {
	if frac <= 0 {
		return nil
	}
	if frac >= 1 {
		return rows
	}
	idx := int(float64(len(rows)) * (1 - frac))
	return rows[idx:]
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}
