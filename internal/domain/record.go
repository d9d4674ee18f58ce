package domain

import "time"

// ColumnDriftRecord is one persisted per-column drift result.
// Corresponds to the column_drift table, keyed by (timestamp, column_name).
type ColumnDriftRecord struct {
	Timestamp  time.Time
	ColumnName string
	DriftScore float64
	IsDrift    bool
}

// DatasetSummaryRecord is the persisted dataset-level drift summary for one
// day. Corresponds to the dataset_summary table, keyed by timestamp.
type DatasetSummaryRecord struct {
	Timestamp              time.Time
	NumberOfDriftedColumns int
	ShareOfDriftedColumns  float64
	DatasetDrift           bool
}

// ModelPerformanceRecord is the persisted regression quality summary for
// one day. Corresponds to the model_performance table, keyed by timestamp.
type ModelPerformanceRecord struct {
	Timestamp   time.Time
	RMSE        float64
	MAE         float64
	AbsErrorMax float64
}
