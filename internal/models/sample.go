package models

import "time"

// SchemaVersion is the wire schema carried by every R-R sample event.
const SchemaVersion = "hrv.rr.v1"

// Sample is one R-R interval measurement in its wire envelope.
type Sample struct {
	SchemaVersion string  `json:"schema_version"`
	EventID       string  `json:"event_id"`
	Timestamp     string  `json:"ts"`
	Source        Source  `json:"source"`
	Session       Session `json:"session"`
	IntervalMS    float64 `json:"rr_ms"`
	Quality       float64 `json:"quality"`
	Sequence      int64   `json:"sequence"`
}

// Source identifies the sensor that produced a sample.
type Source struct {
	Type string  `json:"type"` // "wearable" or "chest_strap"
	ID   string  `json:"id"`
	Side *string `json:"side,omitempty"` // wrist side for wearables
}

// Session ties a sample to one recording run.
type Session struct {
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	Seed     int64  `json:"seed"`
}

// NewSample creates a sample envelope stamped with the current time.
func NewSample(eventID string, source Source, session Session, intervalMS, quality float64, sequence int64) Sample {
	return Sample{
		SchemaVersion: SchemaVersion,
		EventID:       eventID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Source:        source,
		Session:       session,
		IntervalMS:    intervalMS,
		Quality:       quality,
		Sequence:      sequence,
	}
}

// Time parses the sample's RFC3339 timestamp.
func (s Sample) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s.Timestamp)
}
