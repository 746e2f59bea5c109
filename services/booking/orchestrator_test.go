package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"apptbot/models"
	"apptbot/services/calendar"
	"apptbot/utils"
)

type scriptedOracle struct {
	replies []string
	errs    []error
	prompts []string
}

func (o *scriptedOracle) GenerateContent(ctx context.Context, prompt string) (string, error) {
	i := len(o.prompts)
	o.prompts = append(o.prompts, prompt)
	if i < len(o.errs) && o.errs[i] != nil {
		return "", o.errs[i]
	}
	if i >= len(o.replies) {
		return o.replies[len(o.replies)-1], nil
	}
	return o.replies[i], nil
}

type recordingStore struct {
	*calendar.MemoryStore
	listCalls   int
	createCalls int
	listErr     error
	createErr   error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: calendar.NewMemoryStore()}
}

func (r *recordingStore) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.MemoryStore.ListBusyIntervals(ctx, start, end)
}

func (r *recordingStore) CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error) {
	r.createCalls++
	if r.createErr != nil {
		return "", r.createErr
	}
	return r.MemoryStore.CreateEvent(ctx, summary, start, end)
}

var fixedNow = time.Date(2025, 7, 1, 9, 0, 0, 0, ist)

func newTestScheduler(t *testing.T, oracle *scriptedOracle, store *recordingStore) *Scheduler {
	return &Scheduler{
		Oracle:          oracle,
		Calendar:        store,
		DefaultLocation: ist,
		DefaultDuration: time.Hour,
		Now:             func() time.Time { return fixedNow },
		Logger:          zaptest.NewLogger(t),
		Metrics:         utils.NewMetrics(prometheus.NewRegistry()),
	}
}

func requireSchedulingError(t *testing.T, err error, code string) *SchedulingError {
	t.Helper()
	var se *SchedulingError
	require.True(t, errors.As(err, &se), "expected *SchedulingError, got %v", err)
	assert.Equal(t, code, se.Code)
	return se
}

func TestSchedule_DirectBooking(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{
		`{"summary": "Dentist", "start_time": "2025-07-02T16:00:00+05:30", "duration_minutes": 30}`,
	}}
	store := newRecordingStore()

	conf, err := newTestScheduler(t, oracle, store).Schedule(context.Background(), "Dentist tomorrow at 4pm for 30 minutes")
	require.NoError(t, err)

	assert.Equal(t, "Dentist", conf.Summary)
	assert.False(t, conf.Rescheduled)
	assert.Equal(t, 1, conf.OracleCalls)
	assert.Equal(t, 30*time.Minute, conf.End.Sub(conf.Start))
	assert.True(t, strings.HasPrefix(conf.Link, "memory://events/"))
	assert.Equal(t, "+05:30", conf.Timezone)
	assert.Equal(t, "Appointment booked successfully!", conf.Message())
	require.Len(t, store.Events(), 1)

	// relative dates are resolved before the oracle sees the text
	require.Len(t, oracle.prompts, 1)
	assert.Contains(t, oracle.prompts[0], "Dentist 2025-07-02 at 4pm")
}

func TestSchedule_RetryOnMissingStart(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{
		`{"summary": "Lunch", "start_time": null}`,
		`{"summary": "Lunch", "start_time": "2025-07-04T13:00:00+05:30"}`,
	}}
	store := newRecordingStore()

	conf, err := newTestScheduler(t, oracle, store).Schedule(context.Background(), "Lunch with Sam on Friday at 1pm")
	require.NoError(t, err)

	assert.Equal(t, 2, conf.OracleCalls)
	require.Len(t, oracle.prompts, 2)
	assert.NotContains(t, oracle.prompts[0], "did not include")
	assert.Contains(t, oracle.prompts[1], "did not include: start_time")
	assert.Contains(t, oracle.prompts[1], "Lunch with Sam on Friday at 1pm")
}

func TestSchedule_MissingStartTwice(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{`{"summary": "Lunch"}`}}
	store := newRecordingStore()

	conf, err := newTestScheduler(t, oracle, store).Schedule(context.Background(), "Lunch with Sam sometime")
	assert.Nil(t, conf)

	se := requireSchedulingError(t, err, CodeIncompleteAppt)
	assert.Equal(t, models.StageNormalizing, se.Stage)
	assert.Equal(t, []string{models.FieldStartTime}, se.Missing)
	assert.Len(t, oracle.prompts, 2)
	assert.Zero(t, store.listCalls)
	assert.Zero(t, store.createCalls)
}

func TestSchedule_BusySlotIsMoved(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{
		`{"summary": "Review", "start_time": "2025-07-04T16:00:00+05:30", "end_time": "2025-07-04T17:00:00+05:30"}`,
	}}
	store := newRecordingStore()
	store.Seed("busy", time.Date(2025, 7, 4, 16, 0, 0, 0, ist), time.Date(2025, 7, 4, 17, 0, 0, 0, ist))
	store.Seed("busy", time.Date(2025, 7, 4, 17, 0, 0, 0, ist), time.Date(2025, 7, 4, 18, 0, 0, 0, ist))

	conf, err := newTestScheduler(t, oracle, store).Schedule(context.Background(), "Review on 2025-07-04 at 4pm")
	require.NoError(t, err)

	assert.True(t, conf.Rescheduled)
	assert.True(t, conf.Start.Equal(time.Date(2025, 7, 5, 9, 0, 0, 0, ist)), conf.Start)
	assert.Equal(t, time.Hour, conf.End.Sub(conf.Start))
	assert.True(t, conf.RequestedStart.Equal(time.Date(2025, 7, 4, 16, 0, 0, 0, ist)))
	assert.Contains(t, conf.Message(), "Booked next available slot: 2025-07-05 09:00 to 10:00")
	// requested slot, day-0 17:00, day-1 09:00
	assert.Equal(t, 3, store.listCalls)
	assert.Equal(t, 1, store.createCalls)
}

func TestSchedule_NoSlotAvailable(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{`{"start_time": "2025-07-04T10:00:00+05:30"}`}}
	store := newRecordingStore()
	store.Seed("holiday", time.Date(2025, 7, 4, 0, 0, 0, 0, ist), time.Date(2025, 7, 20, 0, 0, 0, 0, ist))

	s := newTestScheduler(t, oracle, store)
	s.Finder = SlotFinder{DaysAhead: 2}
	_, err := s.Schedule(context.Background(), "Meeting on 2025-07-04 at 10am")

	se := requireSchedulingError(t, err, CodeNoSlotAvailable)
	assert.Equal(t, models.StageSearchingSlot, se.Stage)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Zero(t, store.createCalls)
	// requested slot, then day 0 from 11:00 to 17:00, then all of day 1
	assert.Equal(t, 1+7+9, store.listCalls)
}

func TestSchedule_ExtractionFailures(t *testing.T) {
	tests := []struct {
		name   string
		oracle *scriptedOracle
		code   string
		stage  models.Stage
	}{
		{
			name:   "prose only",
			oracle: &scriptedOracle{replies: []string{"I am not sure what you mean."}},
			code:   CodeMalformedExtraction,
			stage:  models.StageExtracting,
		},
		{
			name:   "transport error",
			oracle: &scriptedOracle{replies: []string{""}, errs: []error{errors.New("503 from provider")}},
			code:   CodeExtractionError,
			stage:  models.StageExtracting,
		},
		{
			name:   "end before start",
			oracle: &scriptedOracle{replies: []string{`{"start_time": "2025-07-04T10:00:00+05:30", "end_time": "2025-07-04T09:00:00+05:30"}`}},
			code:   CodeInvalidInterval,
			stage:  models.StageNormalizing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newRecordingStore()
			_, err := newTestScheduler(t, tt.oracle, store).Schedule(context.Background(), "Meeting on 2025-07-04 at 10am")

			se := requireSchedulingError(t, err, tt.code)
			assert.Equal(t, tt.stage, se.Stage)
			assert.Len(t, tt.oracle.prompts, 1)
			assert.Zero(t, store.listCalls)
			assert.Zero(t, store.createCalls)
		})
	}
}

func TestSchedule_InvalidRequest(t *testing.T) {
	oracle := &scriptedOracle{replies: []string{`{}`}}
	store := newRecordingStore()
	s := newTestScheduler(t, oracle, store)

	for _, raw := range []string{"", "   \n\t", strings.Repeat("a", models.MaxRequestLength+1)} {
		_, err := s.Schedule(context.Background(), raw)
		se := requireSchedulingError(t, err, CodeInvalidRequest)
		assert.Equal(t, models.StageReceived, se.Stage)
	}

	s.Precheck = true
	_, err := s.Schedule(context.Background(), "hello there")
	requireSchedulingError(t, err, CodeInvalidRequest)

	assert.Empty(t, oracle.prompts)
	assert.Zero(t, store.listCalls)
}

func TestSchedule_StoreFailures(t *testing.T) {
	reply := `{"start_time": "2025-07-04T10:00:00+05:30"}`

	t.Run("availability", func(t *testing.T) {
		store := newRecordingStore()
		store.listErr = errors.New("quota exceeded")
		_, err := newTestScheduler(t, &scriptedOracle{replies: []string{reply}}, store).
			Schedule(context.Background(), "Meeting on 2025-07-04 at 10am")

		se := requireSchedulingError(t, err, CodeAvailabilityCheckErr)
		assert.Equal(t, models.StageCheckingAvailability, se.Stage)
		assert.Zero(t, store.createCalls)
	})

	t.Run("booking", func(t *testing.T) {
		store := newRecordingStore()
		store.createErr = errors.New("forbidden")
		_, err := newTestScheduler(t, &scriptedOracle{replies: []string{reply}}, store).
			Schedule(context.Background(), "Meeting on 2025-07-04 at 10am")

		se := requireSchedulingError(t, err, CodeBookingError)
		assert.Equal(t, models.StageBookingDirect, se.Stage)
		assert.Equal(t, 1, store.createCalls)
	})
}

func TestSchedule_OracleTimeout(t *testing.T) {
	slow := &blockingOracle{}
	store := newRecordingStore()
	s := &Scheduler{
		Oracle:          slow,
		Calendar:        store,
		DefaultLocation: ist,
		OracleTimeout:   20 * time.Millisecond,
		Now:             func() time.Time { return fixedNow },
	}

	_, err := s.Schedule(context.Background(), "Meeting on 2025-07-04 at 10am")
	requireSchedulingError(t, err, CodeExtractionError)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, store.listCalls)
}

type blockingOracle struct{}

func (blockingOracle) GenerateContent(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}
