package flow

import (
	"sort"
	"time"

	"bike-stock-lab/internal/domain"
)

// flowRecord is one signed flow observation before binning: -1 for an
// outgoing event at its start station, +1 for an incoming event at its end
// station.
type flowRecord struct {
	time         time.Time
	station      string
	rideableType string
	flow         int
}

// Aggregate converts cleaned events into a binned signed net-flow series.
//
// Each event filtered to the station set yields up to two records: an
// outflow (-1) keyed by (started_at, start_station, rideable_type) and an
// inflow (+1) keyed by (ended_at, end_station, rideable_type). Records are
// binned into fixed binWidth windows and summed per
// (bin, station, rideable_type). The result is reindexed to the full
// contiguous grid spanning [floor(min bin day), ceil(max bin day)), with
// zero net flow on bins that saw no events.
//
// An event set producing no records (for example none of its stations are
// in the set) yields a nil series.
func Aggregate(events []*domain.Event, stations []string, binWidth time.Duration) *domain.FlowSeries {
	stationSet := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		stationSet[s] = struct{}{}
	}

	var records []flowRecord
	for _, e := range events {
		if _, ok := stationSet[e.StartStation]; ok {
			records = append(records, flowRecord{
				time: e.StartedAt, station: e.StartStation,
				rideableType: e.RideableType, flow: -1,
			})
		}
		if _, ok := stationSet[e.EndStation]; ok {
			records = append(records, flowRecord{
				time: e.EndedAt, station: e.EndStation,
				rideableType: e.RideableType, flow: +1,
			})
		}
	}
	if len(records) == 0 {
		return nil
	}

	// Sum flow per (bin, station, rideable_type); collect observed keys.
	type bucketKey struct {
		bin time.Time
		key domain.SeriesKey
	}
	buckets := make(map[bucketKey]int)
	keySet := make(map[domain.SeriesKey]struct{})

	minBin := records[0].time.Truncate(binWidth)
	maxBin := minBin
	for _, r := range records {
		bin := r.time.Truncate(binWidth)
		key := domain.SeriesKey{Station: r.station, RideableType: r.rideableType}
		buckets[bucketKey{bin: bin, key: key}] += r.flow
		keySet[key] = struct{}{}

		if bin.Before(minBin) {
			minBin = bin
		}
		if bin.After(maxBin) {
			maxBin = bin
		}
	}

	keys := make([]domain.SeriesKey, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Station != keys[j].Station {
			return keys[i].Station < keys[j].Station
		}
		return keys[i].RideableType < keys[j].RideableType
	})

	// Full grid: floor the earliest bin to its day, ceil the latest bin to
	// its day boundary, half-open on the right. A latest bin falling exactly
	// on midnight is excluded by the half-open range.
	start := floorDay(minBin)
	end := ceilDay(maxBin)

	var bins []time.Time
	for t := start; t.Before(end); t = t.Add(binWidth) {
		bins = append(bins, t)
	}

	series := &domain.FlowSeries{
		Bins: bins,
		Keys: keys,
		Flow: make(map[domain.SeriesKey][]int, len(keys)),
	}
	for _, k := range keys {
		values := make([]int, len(bins))
		for i, bin := range bins {
			values[i] = buckets[bucketKey{bin: bin, key: k}]
		}
		series.Flow[k] = values
	}

	return series
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ceilDay(t time.Time) time.Time {
	floored := floorDay(t)
	if floored.Equal(t) {
		return t
	}
	return floored.AddDate(0, 0, 1)
}
