package features

import (
	"sort"
	"time"

	"bike-stock-lab/internal/domain"
)

// DateAnchors define the affine normalization of calendar time: Start maps
// to 0.0 and End to 1.0, extrapolating outside that range.
type DateAnchors struct {
	Start time.Time
	End   time.Time
}

// DefaultAnchors map 2024-01-01 to 0.0 and 2025-01-01 to 1.0.
func DefaultAnchors() DateAnchors {
	return DateAnchors{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Normalize maps the calendar day of t onto the anchor scale. The result
// depends only on the day, so every bin of one day maps to the same value.
func (a DateAnchors) Normalize(t time.Time) float64 {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return float64(day.UnixNano()-a.Start.UnixNano()) /
		float64(a.End.UnixNano()-a.Start.UnixNano())
}

// IsRushHour reports whether the fractional hour falls inside the morning
// [8,10] or evening [17,19] window, boundaries inclusive. Every derivation
// path uses this single definition.
func IsRushHour(hour float64) bool {
	return (hour >= 8 && hour <= 10) || (hour >= 17 && hour <= 19)
}

// Derive computes calendar, lag and target features over long-format
// observations.
//
// Lags at 1..4 bins back and the one-bin-ahead target are taken within the
// same (station, rideable_type) group, never across groups. Rows whose
// lags or target are undefined at group boundaries are dropped. Output is
// ordered group-major: keys sorted by station then rideable type, time
// ascending within each group.
func Derive(obs []Observation, anchors DateAnchors) []*domain.FeatureRow {
	if len(obs) == 0 {
		return nil
	}

	// Group observations per key, preserving input time order.
	groups := make(map[domain.SeriesKey][]Observation)
	var keys []domain.SeriesKey
	for _, o := range obs {
		k := domain.SeriesKey{Station: o.Station, RideableType: o.RideableType}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], o)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Station != keys[j].Station {
			return keys[i].Station < keys[j].Station
		}
		return keys[i].RideableType < keys[j].RideableType
	})

	var result []*domain.FeatureRow
	for _, k := range keys {
		g := groups[k]
		// First 4 rows lack lags, last row lacks the target.
		for i := 4; i < len(g)-1; i++ {
			o := g[i]
			hour := float64(o.Time.Hour()) + float64(o.Time.Minute())/60

			rush := 0
			if IsRushHour(hour) {
				rush = 1
			}

			result = append(result, &domain.FeatureRow{
				Time:            o.Time,
				Station:         o.Station,
				RideableType:    o.RideableType,
				Stock:           o.Stock,
				Hour:            hour,
				DayOfWeek:       mondayIndexed(o.Time.Weekday()),
				IsRushHour:      rush,
				Lag15mStock:     g[i-1].Stock,
				Lag30mStock:     g[i-2].Stock,
				Lag45mStock:     g[i-3].Stock,
				Lag60mStock:     g[i-4].Stock,
				TargetNextStock: g[i+1].Stock,
				Date:            anchors.Normalize(o.Time),
			})
		}
	}

	return result
}

// mondayIndexed converts Go's Sunday=0 weekday to Monday=0.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

