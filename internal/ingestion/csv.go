// Package ingestion reads raw trip archives and loads them into storage.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"bike-stock-lab/internal/domain"
)

// Archive column headers. The reader maps columns by header name, not by
// position, so archives with reordered or extra columns still load.
const (
	colRideID         = "ride_id"
	colRideableType   = "rideable_type"
	colStartedAt      = "started_at"
	colEndedAt        = "ended_at"
	colStartStation   = "start_station_name"
	colEndStation     = "end_station_name"
	colStartStationID = "start_station_id"
	colEndStationID   = "end_station_id"
	colStartLat       = "start_lat"
	colStartLng       = "start_lng"
	colEndLat         = "end_lat"
	colEndLng         = "end_lng"
	colMemberCasual   = "member_casual"
)

// requiredColumns must be present in the header for downstream cleaning to
// work; the rest are optional and default to empty.
var requiredColumns = []string{
	colRideableType, colStartedAt, colEndedAt, colStartStation, colEndStation,
}

// ReadEvents parses a trip archive in CSV form. The first record is the
// header. Rows with a wrong field count fail the read; empty cells are kept
// as empty strings and dealt with during cleaning.
func ReadEvents(r io.Reader) ([]*domain.RawEvent, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("archive missing required column %q", name)
		}
	}

	var events []*domain.RawEvent
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		event := &domain.RawEvent{
			RideID:         cell(record, index, colRideID),
			RideableType:   cell(record, index, colRideableType),
			StartedAt:      cell(record, index, colStartedAt),
			EndedAt:        cell(record, index, colEndedAt),
			StartStation:   cell(record, index, colStartStation),
			EndStation:     cell(record, index, colEndStation),
			StartStationID: cell(record, index, colStartStationID),
			EndStationID:   cell(record, index, colEndStationID),
			MemberCasual:   cell(record, index, colMemberCasual),
		}

		if event.StartLat, err = coord(record, index, colStartLat); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if event.StartLng, err = coord(record, index, colStartLng); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if event.EndLat, err = coord(record, index, colEndLat); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if event.EndLng, err = coord(record, index, colEndLng); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		events = append(events, event)
	}

	return events, nil
}

// ReadEventsFile opens and parses one archive file.
func ReadEventsFile(path string) ([]*domain.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	events, err := ReadEvents(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return events, nil
}

func cell(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func coord(record []string, index map[string]int, name string) (*float64, error) {
	raw := cell(record, index, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return &v, nil
}
