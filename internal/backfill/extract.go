package backfill

import (
	"fmt"
	"strings"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/report"
)

// ExtractDrift reads a drift-mode report: the first metric block is the
// aggregate summary carrying the drifted-column count and share, each
// remaining block is one monitored column's drift score.
//
// The dataset-level drift flag is set when the drifted share exceeds
// shareThreshold; a column is flagged when its score exceeds
// columnThreshold.
func ExtractDrift(rep *report.Report, day time.Time, shareThreshold, columnThreshold float64) (*domain.DatasetSummaryRecord, []*domain.ColumnDriftRecord, error) {
	if len(rep.Metrics) == 0 {
		return nil, nil, fmt.Errorf("empty report")
	}

	summary := rep.Metrics[0].Value
	if summary.Count == nil || summary.Share == nil {
		return nil, nil, fmt.Errorf("malformed summary block %q: missing count/share", rep.Metrics[0].Name)
	}

	summaryRecord := &domain.DatasetSummaryRecord{
		Timestamp:              day,
		NumberOfDriftedColumns: int(*summary.Count),
		ShareOfDriftedColumns:  *summary.Share,
		DatasetDrift:           *summary.Share > shareThreshold,
	}

	columns := make([]*domain.ColumnDriftRecord, 0, len(rep.Metrics)-1)
	for _, block := range rep.Metrics[1:] {
		if block.Column == "" {
			return nil, nil, fmt.Errorf("metric block %q: missing column name", block.Name)
		}
		if block.Value.Scalar == nil {
			return nil, nil, fmt.Errorf("metric block %q (%s): missing drift score", block.Name, block.Column)
		}
		score := *block.Value.Scalar
		columns = append(columns, &domain.ColumnDriftRecord{
			Timestamp:  day,
			ColumnName: block.Column,
			DriftScore: score,
			IsDrift:    score > columnThreshold,
		})
	}

	return summaryRecord, columns, nil
}

// ExtractPerformance scans a performance-mode report by block name for
// RMSE, mean absolute error (the mean sub-field of a {mean, std} block)
// and maximum absolute error.
func ExtractPerformance(rep *report.Report, day time.Time) (*domain.ModelPerformanceRecord, error) {
	var rmse, mae, absErrorMax *float64

	for _, block := range rep.Metrics {
		switch {
		case strings.Contains(block.Name, "RMSE"):
			rmse = block.Value.Scalar
		case strings.Contains(block.Name, "MAE"):
			// Dispersion metric: take the mean of the mean/std pair.
			mae = block.Value.Mean
		case strings.Contains(block.Name, "AbsMaxError"):
			absErrorMax = block.Value.Scalar
		}
	}

	if rmse == nil || mae == nil || absErrorMax == nil {
		return nil, fmt.Errorf("incomplete performance report: rmse=%v mae=%v abs_error_max=%v",
			rmse != nil, mae != nil, absErrorMax != nil)
	}

	return &domain.ModelPerformanceRecord{
		Timestamp:   day,
		RMSE:        *rmse,
		MAE:         *mae,
		AbsErrorMax: *absErrorMax,
	}, nil
}
