package domain

import "time"

// RawEvent is one row of a raw trip archive, before cleaning.
// Column layout follows the published archive format; timestamps are kept
// as raw text because archives mix layouts.
type RawEvent struct {
	RideID         string
	RideableType   string
	StartedAt      string
	EndedAt        string
	StartStation   string
	EndStation     string
	StartStationID string
	EndStationID   string
	StartLat       *float64
	StartLng       *float64
	EndLat         *float64
	EndLng         *float64
	MemberCasual   string
}

// Event is a cleaned trip event. Only the columns used downstream are
// retained; identifier, geolocation and membership columns are dropped
// during cleaning.
type Event struct {
	StartedAt       time.Time
	EndedAt         time.Time
	StartStation    string
	EndStation      string
	RideableType    string
	DurationMinutes float64 // (ended_at - started_at) in minutes
}
