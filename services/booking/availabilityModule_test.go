package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apptbot/models"
)

// looseStore returns every interval it holds, overlapping or not.
type looseStore struct {
	intervals []models.Interval
	deadline  bool
}

func (l *looseStore) ListBusyIntervals(ctx context.Context, _, _ time.Time) ([]models.Interval, error) {
	_, l.deadline = ctx.Deadline()
	return l.intervals, nil
}

func (l *looseStore) CreateEvent(context.Context, string, time.Time, time.Time) (string, error) {
	return "", nil
}

func TestAvailabilityChecker_IsFree(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 7, 4, h, 0, 0, 0, ist) }
	store := &looseStore{intervals: []models.Interval{
		{Start: at(9), End: at(10)},
		{Start: at(12), End: at(13)},
	}}
	checker := AvailabilityChecker{Store: store}

	free, err := checker.IsFree(context.Background(), at(10), at(12))
	require.NoError(t, err)
	assert.True(t, free, "intervals touching the boundaries do not conflict")
	assert.False(t, store.deadline)

	free, err = checker.IsFree(context.Background(), at(11), at(13))
	require.NoError(t, err)
	assert.False(t, free)
}

func TestAvailabilityChecker_AppliesTimeout(t *testing.T) {
	store := &looseStore{}
	checker := AvailabilityChecker{Store: store, Timeout: time.Second}

	_, err := checker.IsFree(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, store.deadline)
}
