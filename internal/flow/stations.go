package flow

import (
	"sort"

	"bike-stock-lab/internal/domain"
)

// TopStations ranks stations by outgoing-event count and returns the top n
// station names. Ties are broken by name ascending so the result is
// deterministic.
//
// The ranking is computed once, from the reference dataset, and the result
// is passed unchanged into every Aggregate call of the same run; later
// datasets are never re-ranked.
func TopStations(events []*domain.Event, n int) []string {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.StartStation]++
	}

	stations := make([]string, 0, len(counts))
	for s := range counts {
		stations = append(stations, s)
	}
	sort.Slice(stations, func(i, j int) bool {
		if counts[stations[i]] != counts[stations[j]] {
			return counts[stations[i]] > counts[stations[j]]
		}
		return stations[i] < stations[j]
	})

	if len(stations) > n {
		stations = stations[:n]
	}
	return stations
}
