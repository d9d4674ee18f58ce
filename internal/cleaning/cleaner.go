package cleaning

import (
	"fmt"
	"math"
	"time"

	"bike-stock-lab/internal/domain"
)

// Archive timestamps come in mixed layouts; layouts are tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an archive timestamp, accepting mixed layouts.
// Naive timestamps are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// Clean validates raw events and removes unusable rows.
//
// Per row: rows with any missing retained column are discarded, timestamps
// are parsed (a malformed timestamp fails the whole run), and trip duration
// is computed in minutes. Then a global outlier filter retains only rows
// whose duration z-score magnitude is <= zLimit, using the mean and sample
// standard deviation of the entire cleaned set.
//
// The filter runs as an explicit two-pass algorithm: pass one accumulates
// the duration statistics, pass two filters. An empty input yields an empty
// result, not an error.
func Clean(raw []*domain.RawEvent, zLimit float64) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0, len(raw))

	for _, r := range raw {
		if r.StartedAt == "" || r.EndedAt == "" ||
			r.StartStation == "" || r.EndStation == "" || r.RideableType == "" {
			continue
		}

		startedAt, err := ParseTimestamp(r.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		endedAt, err := ParseTimestamp(r.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}

		events = append(events, &domain.Event{
			StartedAt:       startedAt,
			EndedAt:         endedAt,
			StartStation:    r.StartStation,
			EndStation:      r.EndStation,
			RideableType:    r.RideableType,
			DurationMinutes: endedAt.Sub(startedAt).Minutes(),
		})
	}

	// Pass 1: global duration statistics
	stats := durationStats(events)

	// Zero spread makes the z-score undefined; keep every row.
	if stats.Std == 0 {
		return events, nil
	}

	// Pass 2: filter by z-score magnitude
	filtered := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		z := (e.DurationMinutes - stats.Mean) / stats.Std
		if math.Abs(z) <= zLimit {
			filtered = append(filtered, e)
		}
	}

	return filtered, nil
}

// Stats holds the global duration distribution of a cleaned event set.
type Stats struct {
	N    int
	Mean float64
	Std  float64 // sample standard deviation
}

func durationStats(events []*domain.Event) Stats {
	n := len(events)
	if n < 2 {
		return Stats{N: n}
	}

	var sum float64
	for _, e := range events {
		sum += e.DurationMinutes
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, e := range events {
		d := e.DurationMinutes - mean
		sqSum += d * d
	}

	return Stats{
		N:    n,
		Mean: mean,
		Std:  math.Sqrt(sqSum / float64(n-1)),
	}
}
