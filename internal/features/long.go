package features

import (
	"time"

	"bike-stock-lab/internal/domain"
)

// Observation is one long-format stock row before feature derivation.
type Observation struct {
	Time         time.Time
	Station      string
	RideableType string
	Stock        float64
}

// WideToLong reshapes the wide stock series into one row per
// (time, station, rideable_type), time-major with keys in series order.
func WideToLong(ss *domain.StockSeries) []Observation {
	if ss == nil {
		return nil
	}

	result := make([]Observation, 0, len(ss.Bins)*len(ss.Keys))
	for i, bin := range ss.Bins {
		for _, k := range ss.Keys {
			result = append(result, Observation{
				Time:         bin,
				Station:      k.Station,
				RideableType: k.RideableType,
				Stock:        ss.Stock[k][i],
			})
		}
	}
	return result
}
