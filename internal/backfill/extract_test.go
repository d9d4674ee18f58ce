package backfill

import (
	"testing"
	"time"

	"bike-stock-lab/internal/report"
)

var extractDay = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func driftReport() *report.Report {
	return &report.Report{
		Metrics: []report.MetricBlock{
			{Name: "DriftedColumnsCount", Value: report.MetricValue{
				Count: report.Float(2), Share: report.Float(0.66),
			}},
			{Name: "ValueDrift", Column: "stock", Value: report.MetricValue{Scalar: report.Float(0.30)}},
			{Name: "ValueDrift", Column: "hour", Value: report.MetricValue{Scalar: report.Float(0.02)}},
		},
	}
}

func TestExtractDrift(t *testing.T) {
	summary, columns, err := ExtractDrift(driftReport(), extractDay, 0.5, 0.1)
	if err != nil {
		t.Fatalf("ExtractDrift failed: %v", err)
	}

	if summary.NumberOfDriftedColumns != 2 || summary.ShareOfDriftedColumns != 0.66 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if !summary.DatasetDrift {
		t.Error("Share 0.66 exceeds threshold 0.5, dataset drift must be set")
	}
	if !summary.Timestamp.Equal(extractDay) {
		t.Errorf("Summary must carry the day timestamp, got %v", summary.Timestamp)
	}

	if len(columns) != 2 {
		t.Fatalf("Expected 2 column records, got %d", len(columns))
	}
	if columns[0].ColumnName != "stock" || !columns[0].IsDrift {
		t.Errorf("Score 0.30 exceeds threshold 0.1: %+v", columns[0])
	}
	if columns[1].ColumnName != "hour" || columns[1].IsDrift {
		t.Errorf("Score 0.02 is under threshold 0.1: %+v", columns[1])
	}
}

func TestExtractDrift_ThresholdIsStrict(t *testing.T) {
	rep := &report.Report{
		Metrics: []report.MetricBlock{
			{Name: "DriftedColumnsCount", Value: report.MetricValue{
				Count: report.Float(1), Share: report.Float(0.5),
			}},
			{Name: "ValueDrift", Column: "stock", Value: report.MetricValue{Scalar: report.Float(0.1)}},
		},
	}

	summary, columns, err := ExtractDrift(rep, extractDay, 0.5, 0.1)
	if err != nil {
		t.Fatalf("ExtractDrift failed: %v", err)
	}
	if summary.DatasetDrift {
		t.Error("Share exactly at threshold must not flag dataset drift")
	}
	if columns[0].IsDrift {
		t.Error("Score exactly at threshold must not flag column drift")
	}
}

func TestExtractDrift_Malformed(t *testing.T) {
	cases := map[string]*report.Report{
		"empty report": {},
		"summary missing share": {Metrics: []report.MetricBlock{
			{Name: "DriftedColumnsCount", Value: report.MetricValue{Count: report.Float(1)}},
		}},
		"column block missing name": {Metrics: []report.MetricBlock{
			{Name: "DriftedColumnsCount", Value: report.MetricValue{Count: report.Float(0), Share: report.Float(0)}},
			{Name: "ValueDrift", Value: report.MetricValue{Scalar: report.Float(0.1)}},
		}},
		"column block missing score": {Metrics: []report.MetricBlock{
			{Name: "DriftedColumnsCount", Value: report.MetricValue{Count: report.Float(0), Share: report.Float(0)}},
			{Name: "ValueDrift", Column: "stock"},
		}},
	}

	for name, rep := range cases {
		if _, _, err := ExtractDrift(rep, extractDay, 0.5, 0.1); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestExtractPerformance(t *testing.T) {
	rep := &report.Report{
		Metrics: []report.MetricBlock{
			{Name: "RMSE", Value: report.MetricValue{Scalar: report.Float(2.5)}},
			{Name: "MAE", Value: report.MetricValue{Mean: report.Float(1.8), Std: report.Float(0.4)}},
			{Name: "AbsMaxError", Value: report.MetricValue{Scalar: report.Float(7.0)}},
		},
	}

	got, err := ExtractPerformance(rep, extractDay)
	if err != nil {
		t.Fatalf("ExtractPerformance failed: %v", err)
	}
	if got.RMSE != 2.5 || got.MAE != 1.8 || got.AbsErrorMax != 7.0 {
		t.Errorf("Unexpected record: %+v", got)
	}
	if !got.Timestamp.Equal(extractDay) {
		t.Errorf("Record must carry the day timestamp, got %v", got.Timestamp)
	}
}

func TestExtractPerformance_Incomplete(t *testing.T) {
	rep := &report.Report{
		Metrics: []report.MetricBlock{
			{Name: "RMSE", Value: report.MetricValue{Scalar: report.Float(2.5)}},
		},
	}

	if _, err := ExtractPerformance(rep, extractDay); err == nil {
		t.Fatal("Expected error for report missing MAE and AbsMaxError")
	}
}
