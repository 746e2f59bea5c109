package models

import (
	"time"
)

// MaxRequestLength caps the raw request text accepted by the scheduler.
const MaxRequestLength = 500

// Extraction payload keys, as requested from the oracle.
const (
	FieldSummary         = "summary"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldDurationMinutes = "duration_minutes"
	FieldTimezone        = "timezone"
)

// ExtractionPayload is the structured record decoded from oracle output.
// A nil field means the oracle left it unspecified.
type ExtractionPayload struct {
	Summary         *string `json:"summary"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Timezone        *string `json:"timezone"`
}

// Present reports whether the named field carries a value.
func (p ExtractionPayload) Present(field string) bool {
	switch field {
	case FieldSummary:
		return p.Summary != nil
	case FieldStartTime:
		return p.StartTime != nil
	case FieldEndTime:
		return p.EndTime != nil
	case FieldDurationMinutes:
		return p.DurationMinutes != nil
	case FieldTimezone:
		return p.Timezone != nil
	}
	return false
}

// Missing returns the subset of fields that are not present, in the given order.
func (p ExtractionPayload) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !p.Present(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ZoneSource records which timezone rule produced an AppointmentRequest's zone.
type ZoneSource string

const (
	ZoneFromPayload ZoneSource = "payload"
	ZoneFromOffset  ZoneSource = "offset"
	ZoneFromDefault ZoneSource = "default"
)

// AppointmentRequest is a fully qualified appointment. End is always after Start.
type AppointmentRequest struct {
	Summary    string     `json:"summary"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	ZoneSource ZoneSource `json:"zoneSource"`
	// PastCorrected is set when a start in the past was moved to today or tomorrow.
	PastCorrected bool `json:"pastCorrected,omitempty"`
}

func (a AppointmentRequest) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

func (a AppointmentRequest) Slot() TimeSlot {
	return TimeSlot{Start: a.Start, End: a.End}
}

// ZoneLabel names the zone of t: the IANA name when known, otherwise its UTC offset.
func ZoneLabel(t time.Time) string {
	if name := t.Location().String(); name != "" && name != "Local" {
		return name
	}
	return t.Format("-07:00")
}
