// File: services/calendar/interface.go
package calendar

import (
	"context"
	"time"

	"apptbot/models"
)

// Store is the backing calendar a booking lands in.
type Store interface {
	// ListBusyIntervals returns every busy interval overlapping [start, end).
	ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error)
	// CreateEvent books [start, end) and returns an opaque link to the new event.
	CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error)
}
