// File: services/calendar/google.go
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apptbot/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleStore books into a Google Calendar using a service account.
type GoogleStore struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleStore builds the calendar client from a credentials file or inline JSON.
// Extra client options (endpoint, HTTP client) are appended last.
func NewGoogleStore(ctx context.Context, calendarID, credentialsFile, credentialsJSON string, extra ...option.ClientOption) (*GoogleStore, error) {
	opts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	case len(extra) == 0:
		return nil, errors.New("google calendar: no credentials configured")
	}
	opts = append(opts, extra...)

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar: create service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleStore{svc: svc, calendarID: calendarID}, nil
}

func (g *GoogleStore) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error) {
	var busy []models.Interval
	pageToken := ""
	for {
		call := g.svc.Events.List(g.calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("google calendar: list events: %w", err)
		}
		for _, ev := range resp.Items {
			if ev.Status == "cancelled" || ev.Transparency == "transparent" {
				continue
			}
			iv, err := eventInterval(ev, start.Location())
			if err != nil {
				return nil, err
			}
			busy = append(busy, iv)
		}
		if resp.NextPageToken == "" {
			return busy, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (g *GoogleStore) CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error) {
	ev := &gcal.Event{
		Summary: summary,
		Start:   eventDateTime(start),
		End:     eventDateTime(end),
	}
	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google calendar: insert event: %w", err)
	}
	return created.HtmlLink, nil
}

// eventDateTime only sets TimeZone when t carries an IANA zone; fixed offsets
// are already encoded in the RFC 3339 value.
func eventDateTime(t time.Time) *gcal.EventDateTime {
	edt := &gcal.EventDateTime{DateTime: t.Format(time.RFC3339)}
	if name := t.Location().String(); name != "" && name != "Local" && name != "UTC" {
		if _, err := time.LoadLocation(name); err == nil {
			edt.TimeZone = name
		}
	}
	return edt
}

// eventInterval handles both timed events and all-day events (Date only, end exclusive).
func eventInterval(ev *gcal.Event, loc *time.Location) (models.Interval, error) {
	parse := func(edt *gcal.EventDateTime) (time.Time, error) {
		if edt == nil {
			return time.Time{}, errors.New("missing event time")
		}
		if edt.DateTime != "" {
			return time.Parse(time.RFC3339, edt.DateTime)
		}
		return time.ParseInLocation("2006-01-02", edt.Date, loc)
	}
	s, err := parse(ev.Start)
	if err != nil {
		return models.Interval{}, fmt.Errorf("google calendar: event %s start: %w", ev.Id, err)
	}
	e, err := parse(ev.End)
	if err != nil {
		return models.Interval{}, fmt.Errorf("google calendar: event %s end: %w", ev.Id, err)
	}
	return models.Interval{Start: s, End: e}, nil
}
