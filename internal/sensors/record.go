// Package sensors derives the dashboard's sensor list view: filtering,
// pagination, the page window and the URL query that drives them.
package sensors

import "time"

// Status is the connectivity state reported for a sensor
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Reading is the most recent value a sensor reported
type Reading struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is a read-only snapshot of one sensor's status. Records are
// produced by a telemetry source and never mutated here.
type Record struct {
	ID                  string     `json:"id"`
	Tag                 string     `json:"tag"`
	Status              Status     `json:"status"`
	EquipmentID         string     `json:"equipment_id"`
	EquipmentName       string     `json:"equipment_name"`
	Type                string     `json:"type"`
	Unit                string     `json:"unit"`
	LastReading         *Reading   `json:"last_reading,omitempty"`
	AvailabilityPercent float64    `json:"availability_percent"`
	LastSeenAt          *time.Time `json:"last_seen_at,omitempty"`
}

// Summary holds status counts over a full, unfiltered list
type Summary struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
}

// Summarize counts records by status
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusOnline:
			s.Online++
		case StatusOffline:
			s.Offline++
		}
	}
	return s
}
