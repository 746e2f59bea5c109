package booking

import (
	"context"
	"fmt"
	"time"

	"apptbot/models"
)

// AvailabilityFunc reports whether [start, end) is free.
type AvailabilityFunc func(ctx context.Context, start, end time.Time) (bool, error)

const (
	defaultDaysAhead = 7
	defaultFirstHour = 9
	defaultLastHour  = 17
)

// SlotFinder scans whole-hour candidates within business hours for the next free slot.
// Zero fields fall back to 7 days, 09:00 and 17:00. LastHour is the last start hour tried.
type SlotFinder struct {
	DaysAhead int
	FirstHour int
	LastHour  int
}

func (f SlotFinder) withDefaults() SlotFinder {
	if f.DaysAhead <= 0 {
		f.DaysAhead = defaultDaysAhead
	}
	if f.FirstHour <= 0 && f.LastHour <= 0 {
		f.FirstHour, f.LastHour = defaultFirstHour, defaultLastHour
	}
	return f
}

// MaxCandidates is the upper bound on availability checks for one search.
func (f SlotFinder) MaxCandidates() int {
	f = f.withDefaults()
	if f.LastHour < f.FirstHour {
		return 0
	}
	return f.DaysAhead * (f.LastHour - f.FirstHour + 1)
}

// FindNextFree returns the earliest free candidate starting at or after the hour
// following desiredStart, in desiredStart's zone. Candidates before that anchor are
// not checked. Returns ErrSlotNotFound when nothing in the window is free.
func (f SlotFinder) FindNextFree(ctx context.Context, desiredStart time.Time, duration time.Duration, isFree AvailabilityFunc) (models.TimeSlot, error) {
	if duration <= 0 {
		return models.TimeSlot{}, ErrInvalidInterval
	}
	f = f.withDefaults()
	loc := desiredStart.Location()

	next := desiredStart.Add(time.Hour)
	anchor := time.Date(next.Year(), next.Month(), next.Day(), next.Hour(), 0, 0, 0, loc)

	for day := 0; day < f.DaysAhead; day++ {
		for hour := f.FirstHour; hour <= f.LastHour; hour++ {
			candidate := time.Date(anchor.Year(), anchor.Month(), anchor.Day()+day, hour, 0, 0, 0, loc)
			if candidate.Before(anchor) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return models.TimeSlot{}, err
			}
			end := candidate.Add(duration)
			free, err := isFree(ctx, candidate, end)
			if err != nil {
				return models.TimeSlot{}, fmt.Errorf("check slot %s: %w", candidate.Format(time.RFC3339), err)
			}
			if free {
				return models.TimeSlot{Start: candidate, End: end}, nil
			}
		}
	}
	return models.TimeSlot{}, ErrSlotNotFound
}
