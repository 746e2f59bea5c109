package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"apptbot/models"
	"apptbot/services/booking"
	"apptbot/services/tasks"
)

type fakeScheduler struct {
	conf *models.Confirmation
	err  error
	got  string
}

func (f *fakeScheduler) Schedule(_ context.Context, raw string) (*models.Confirmation, error) {
	f.got = raw
	return f.conf, f.err
}

type memOutcomes map[string]*models.Outcome

func (m memOutcomes) Get(_ context.Context, id string) (*models.Outcome, error) {
	out, ok := m[id]
	if !ok {
		return nil, tasks.ErrJobNotFound
	}
	return out, nil
}

func (m memOutcomes) Set(_ context.Context, out *models.Outcome) error {
	m[out.JobID] = out
	return nil
}

func TestHandleScheduleTask_Confirmed(t *testing.T) {
	start := time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{conf: &models.Confirmation{Summary: "Sync", Start: start, End: start.Add(time.Hour), Timezone: "UTC"}}
	outcomes := memOutcomes{}

	task, _, err := tasks.NewScheduleTask(models.SchedulePayload{JobID: "j1", Text: "Sync on Friday at 10"}, 0)
	require.NoError(t, err)

	err = HandleScheduleTask(sched, outcomes, zap.NewNop())(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, "Sync on Friday at 10", sched.got)
	out, err := outcomes.Get(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeConfirmed, out.Status)
	assert.Equal(t, "j1", out.JobID)
	require.NotNil(t, out.Booking)
}

func TestHandleScheduleTask_FailureIsRecorded(t *testing.T) {
	sched := &fakeScheduler{err: &booking.SchedulingError{Code: booking.CodeNoSlotAvailable, Stage: models.StageSearchingSlot}}
	outcomes := memOutcomes{}

	task, _, err := tasks.NewScheduleTask(models.SchedulePayload{JobID: "j2", Text: "x"}, 0)
	require.NoError(t, err)

	require.NoError(t, HandleScheduleTask(sched, outcomes, zap.NewNop())(context.Background(), task))
	assert.Equal(t, models.OutcomeFailed, outcomes["j2"].Status)
	assert.Equal(t, booking.CodeNoSlotAvailable, outcomes["j2"].Code)
}

func TestHandleScheduleTask_BadPayload(t *testing.T) {
	task := asynq.NewTask(tasks.TypeScheduleAppointment, []byte("not json"))

	err := HandleScheduleTask(&fakeScheduler{}, memOutcomes{}, zap.NewNop())(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
