package booking

import (
	"context"
	"fmt"
	"time"

	"apptbot/services/calendar"
)

// AvailabilityChecker answers "is this interval free" against a calendar store.
type AvailabilityChecker struct {
	Store   calendar.Store
	Timeout time.Duration // per store call; zero means no extra deadline
}

// IsFree reports whether no busy interval overlaps [start, end).
// Events that only touch the boundaries do not count.
func (a AvailabilityChecker) IsFree(ctx context.Context, start, end time.Time) (bool, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	busy, err := a.Store.ListBusyIntervals(ctx, start, end)
	if err != nil {
		return false, fmt.Errorf("list busy intervals: %w", err)
	}
	for _, iv := range busy {
		if iv.Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}
