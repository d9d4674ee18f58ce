package flow

import (
	"testing"
	"time"

	"bike-stock-lab/internal/domain"
)

func mkEvent(start, end string, startStation, endStation, rideableType string) *domain.Event {
	st, _ := time.Parse("2006-01-02 15:04:05", start)
	et, _ := time.Parse("2006-01-02 15:04:05", end)
	return &domain.Event{
		StartedAt: st, EndedAt: et,
		StartStation: startStation, EndStation: endStation,
		RideableType:    rideableType,
		DurationMinutes: et.Sub(st).Minutes(),
	}
}

func sampleEvents() []*domain.Event {
	return []*domain.Event{
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "St1", "St2", "classic_bike"),
		mkEvent("2024-01-01 09:00:00", "2024-01-01 09:15:00", "St1", "St2", "electric_bike"),
		mkEvent("2024-01-01 10:00:00", "2024-01-01 10:20:00", "St2", "St1", "classic_bike"),
	}
}

func TestTopStations_RanksByOutgoingCount(t *testing.T) {
	events := []*domain.Event{
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "A", "B", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "A", "B", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "A", "C", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "B", "A", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "B", "A", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "C", "A", "classic_bike"),
		mkEvent("2024-01-01 08:00:00", "2024-01-01 08:10:00", "D", "A", "classic_bike"),
	}

	top := TopStations(events, 3)

	if len(top) != 3 {
		t.Fatalf("Expected 3 stations, got %d", len(top))
	}
	if top[0] != "A" || top[1] != "B" {
		t.Errorf("Expected A, B leading, got %v", top)
	}
	// C and D tie at 1 outgoing event each; name ascending breaks the tie.
	if top[2] != "C" {
		t.Errorf("Expected C as tie-break winner, got %v", top[2])
	}
}

func TestAggregate_ObservedKeys(t *testing.T) {
	series := Aggregate(sampleEvents(), []string{"St1", "St2"}, 15*time.Minute)
	if series == nil {
		t.Fatal("Expected non-nil series")
	}

	// The three fixture events touch exactly 4 (station, type) combinations.
	want := []domain.SeriesKey{
		{Station: "St1", RideableType: "classic_bike"},
		{Station: "St1", RideableType: "electric_bike"},
		{Station: "St2", RideableType: "classic_bike"},
		{Station: "St2", RideableType: "electric_bike"},
	}
	if len(series.Keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d: %v", len(want), len(series.Keys), series.Keys)
	}
	for i, k := range want {
		if series.Keys[i] != k {
			t.Errorf("Key %d: expected %v, got %v", i, k, series.Keys[i])
		}
	}
}

func TestAggregate_SignedFlow(t *testing.T) {
	series := Aggregate(sampleEvents(), []string{"St1", "St2"}, 15*time.Minute)

	binIndex := func(ts string) int {
		want, _ := time.Parse("2006-01-02 15:04:05", ts)
		for i, b := range series.Bins {
			if b.Equal(want) {
				return i
			}
		}
		t.Fatalf("Bin %s not in grid", ts)
		return -1
	}

	st1classic := series.Flow[domain.SeriesKey{Station: "St1", RideableType: "classic_bike"}]
	st2classic := series.Flow[domain.SeriesKey{Station: "St2", RideableType: "classic_bike"}]

	// Event 1: St1 -> St2 classic, 08:00 out, 08:10 in (same bin 08:00).
	if got := st1classic[binIndex("2024-01-01 08:00:00")]; got != -1 {
		t.Errorf("St1 classic 08:00: expected -1, got %d", got)
	}
	if got := st2classic[binIndex("2024-01-01 08:00:00")]; got != 1 {
		t.Errorf("St2 classic 08:00: expected +1, got %d", got)
	}
	// Event 3: St2 -> St1 classic, out at 10:00, in at 10:20 (bin 10:15).
	if got := st2classic[binIndex("2024-01-01 10:00:00")]; got != -1 {
		t.Errorf("St2 classic 10:00: expected -1, got %d", got)
	}
	if got := st1classic[binIndex("2024-01-01 10:15:00")]; got != 1 {
		t.Errorf("St1 classic 10:15: expected +1, got %d", got)
	}
}

func TestAggregate_FullContiguousGrid(t *testing.T) {
	series := Aggregate(sampleEvents(), []string{"St1", "St2"}, 15*time.Minute)

	// Events all fall on 2024-01-01; the grid must cover the whole day.
	if len(series.Bins) != 96 {
		t.Fatalf("Expected 96 bins for one covered day, got %d", len(series.Bins))
	}
	if !series.Bins[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Grid must start at floored midnight, got %v", series.Bins[0])
	}
	for i := 1; i < len(series.Bins); i++ {
		if series.Bins[i].Sub(series.Bins[i-1]) != 15*time.Minute {
			t.Fatalf("Grid not contiguous at index %d", i)
		}
	}

	// Empty bins carry zero flow, not missing values.
	st1electric := series.Flow[domain.SeriesKey{Station: "St1", RideableType: "electric_bike"}]
	var nonZero int
	for _, v := range st1electric {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero != 1 {
		t.Errorf("St1 electric: expected exactly 1 non-zero bin, got %d", nonZero)
	}
}

func TestAggregate_StationFilter(t *testing.T) {
	// Only St1 in the set: the St2 side of each trip must be dropped.
	series := Aggregate(sampleEvents(), []string{"St1"}, 15*time.Minute)

	for _, k := range series.Keys {
		if k.Station != "St1" {
			t.Errorf("Unexpected station in series: %v", k)
		}
	}
}

func TestAggregate_NoMatchingEvents(t *testing.T) {
	series := Aggregate(sampleEvents(), []string{"Elsewhere"}, 15*time.Minute)
	if series != nil {
		t.Fatalf("Expected nil series for unmatched station set, got %+v", series)
	}
}
