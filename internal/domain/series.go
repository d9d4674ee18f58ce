package domain

import "time"

// SeriesKey identifies one monitored (station, vehicle type) dimension.
type SeriesKey struct {
	Station      string
	RideableType string
}

// FlowSeries is the binned signed net-flow table in wide form: one column
// of values per observed SeriesKey, one entry per time bin. Bins form a
// contiguous fixed-width grid; bins with no events carry zero flow.
type FlowSeries struct {
	Bins []time.Time            // 15-minute grid, ascending
	Keys []SeriesKey            // sorted by station, then rideable type
	Flow map[SeriesKey][]int    // len(Flow[k]) == len(Bins)
}

// StockSeries is the reconstructed synthetic inventory level in wide form.
// Stock resets to the base value at every local midnight and is not clamped;
// negative values reflect net-flow imbalance, not a physical constraint.
type StockSeries struct {
	Bins  []time.Time
	Keys  []SeriesKey
	Stock map[SeriesKey][]float64 // len(Stock[k]) == len(Bins)
}

// StockPoint is one StockSeries cell in long form.
// Corresponds to the stock_timeseries table in ClickHouse.
type StockPoint struct {
	Station      string
	RideableType string
	Time         time.Time
	Stock        float64
}

// Points flattens the wide series into long-form points, key-major,
// ascending in time within each key.
func (s *StockSeries) Points() []*StockPoint {
	var result []*StockPoint
	for _, k := range s.Keys {
		values := s.Stock[k]
		for i, bin := range s.Bins {
			result = append(result, &StockPoint{
				Station:      k.Station,
				RideableType: k.RideableType,
				Time:         bin,
				Stock:        values[i],
			})
		}
	}
	return result
}
