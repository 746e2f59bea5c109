package booking

import (
	"strings"
	"time"

	"apptbot/models"
)

const (
	// DefaultDuration applies when the request names neither an end nor a length.
	DefaultDuration = 60 * time.Minute
	defaultSummary  = "Meeting"
)

var (
	offsetLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05-0700",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// timestamp is a parsed oracle value. Naive values carry their wall clock in UTC.
type timestamp struct {
	t         time.Time
	hasOffset bool
}

func parseTimestamp(s string) (timestamp, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return timestamp{t: t, hasOffset: true}, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return timestamp{t: t}, true
		}
	}
	return timestamp{}, false
}

// in converts offset-carrying values into loc and reads naive values as wall clock in loc.
func (ts timestamp) in(loc *time.Location) time.Time {
	if ts.hasOffset {
		return ts.t.In(loc)
	}
	t := ts.t
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// offsetZone returns the fixed zone of an offset-carrying value.
func (ts timestamp) offsetZone() *time.Location {
	_, off := ts.t.Zone()
	if off == 0 {
		return time.UTC
	}
	return time.FixedZone("", off)
}

func payloadZone(name *string) (*time.Location, bool) {
	if name == nil {
		return nil, false
	}
	n := strings.TrimSpace(*name)
	if n == "" || strings.EqualFold(n, "local") {
		return nil, false
	}
	loc, err := time.LoadLocation(n)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// NormalizeAppointment turns an extraction payload into a fully qualified appointment.
//
// The zone comes from exactly one source: the payload's IANA timezone, else the
// offset written on start_time, else defaultLoc. The end comes from end_time, else
// duration_minutes, else defaultDuration. A start already in the past relative to
// now is moved to today's date, and one more day if that is still past.
func NormalizeAppointment(p models.ExtractionPayload, defaultLoc *time.Location, defaultDuration time.Duration, now time.Time) (*models.AppointmentRequest, error) {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}

	summary := defaultSummary
	if p.Summary != nil && strings.TrimSpace(*p.Summary) != "" {
		summary = strings.TrimSpace(*p.Summary)
	}

	if p.StartTime == nil {
		return nil, &IncompleteAppointmentError{Missing: []string{models.FieldStartTime}}
	}
	startStamp, ok := parseTimestamp(*p.StartTime)
	if !ok {
		return nil, &IncompleteAppointmentError{Missing: []string{models.FieldStartTime}}
	}

	var (
		loc    *time.Location
		source models.ZoneSource
	)
	if l, ok := payloadZone(p.Timezone); ok {
		loc, source = l, models.ZoneFromPayload
	} else if startStamp.hasOffset {
		loc, source = startStamp.offsetZone(), models.ZoneFromOffset
	} else {
		loc, source = defaultLoc, models.ZoneFromDefault
	}
	start := startStamp.in(loc)

	var end time.Time
	endStamp, endOK := timestamp{}, false
	if p.EndTime != nil {
		endStamp, endOK = parseTimestamp(*p.EndTime)
	}
	switch {
	case endOK:
		end = endStamp.in(loc)
	case p.DurationMinutes != nil:
		end = start.Add(time.Duration(*p.DurationMinutes) * time.Minute)
	default:
		end = start.Add(defaultDuration)
	}

	corrected := false
	if local := now.In(loc); start.Before(local) {
		length := end.Sub(start)
		start = time.Date(local.Year(), local.Month(), local.Day(),
			start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), loc)
		if start.Before(local) {
			start = start.AddDate(0, 0, 1)
		}
		end = start.Add(length)
		corrected = true
	}

	if !end.After(start) {
		return nil, ErrInvalidInterval
	}

	return &models.AppointmentRequest{
		Summary:       summary,
		Start:         start,
		End:           end,
		ZoneSource:    source,
		PastCorrected: corrected,
	}, nil
}
