package booking

import (
	"context"

	"apptbot/models"
)

// AppointmentScheduler books a natural-language request into the calendar.
type AppointmentScheduler interface {
	Schedule(ctx context.Context, raw string) (*models.Confirmation, error)
}

var _ AppointmentScheduler = (*Scheduler)(nil)
