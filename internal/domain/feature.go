package domain

import "time"

// FeatureRow is one fully-derived observation per (time bin, station,
// rideable type). Corresponds to the feature_rows table in ClickHouse.
//
// Time is retained only so that the walk-forward backfill can slice rows
// by calendar day; it is not part of the declared feature columns.
type FeatureRow struct {
	Time            time.Time
	Station         string
	RideableType    string
	Stock           float64
	Hour            float64 // fractional hour of day, 0-24
	DayOfWeek       int     // Monday=0 .. Sunday=6
	IsRushHour      int     // 1 if hour in [8,10] or [17,19]
	Lag15mStock     float64 // stock one bin earlier, same key
	Lag30mStock     float64
	Lag45mStock     float64
	Lag60mStock     float64
	TargetNextStock float64 // stock one bin ahead, same key
	Date            float64 // normalized calendar day, affine between anchors
	Prediction      *float64
}

// Key returns the series dimension this row belongs to.
func (r *FeatureRow) Key() SeriesKey {
	return SeriesKey{Station: r.Station, RideableType: r.RideableType}
}

// NumericFeatureColumns lists the numeric columns declared to the report
// generator, in stable order.
func NumericFeatureColumns() []string {
	return []string{
		"stock", "hour", "dayofweek", "is_rush_hour",
		"lag_15m_stock", "lag_30m_stock", "lag_45m_stock", "lag_60m_stock",
		"target_next_stock", "date",
	}
}

// CategoricalFeatureColumns lists the categorical columns declared to the
// report generator.
func CategoricalFeatureColumns() []string {
	return []string{"station", "rideable_type"}
}

// PredictorFeatureColumns lists the model input columns: every declared
// column except the target.
func PredictorFeatureColumns() []string {
	var cols []string
	cols = append(cols, CategoricalFeatureColumns()...)
	for _, c := range NumericFeatureColumns() {
		if c != "target_next_stock" {
			cols = append(cols, c)
		}
	}
	return cols
}
