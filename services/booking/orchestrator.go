package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"apptbot/models"
	ai "apptbot/services/intelligence"
	"apptbot/services/calendar"
	"apptbot/utils"

	"go.uber.org/zap"
)

// maxOracleCalls bounds extraction to the first attempt plus one retry.
const maxOracleCalls = 2

// Scheduler drives one request from raw text to a confirmed booking.
// It keeps no per-request state and is safe for concurrent use.
type Scheduler struct {
	Oracle          ai.Oracle
	Calendar        calendar.Store
	Finder          SlotFinder
	DefaultLocation *time.Location
	DefaultDuration time.Duration
	Precheck        bool
	OracleTimeout   time.Duration
	CalendarTimeout time.Duration
	Now             func() time.Time
	Logger          *zap.Logger
	Metrics         *utils.Metrics
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) location() *time.Location {
	if s.DefaultLocation != nil {
		return s.DefaultLocation
	}
	return time.UTC
}

func (s *Scheduler) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Schedule resolves, extracts, normalizes and books raw. Every failure is a *SchedulingError.
func (s *Scheduler) Schedule(ctx context.Context, raw string) (*models.Confirmation, error) {
	began := time.Now()
	conf, err := s.schedule(ctx, raw)

	if err != nil {
		var se *SchedulingError
		errors.As(err, &se)
		s.Metrics.ObserveRequest(string(models.OutcomeFailed), se.Code, time.Since(began))
		s.logger().Warn("scheduling failed",
			zap.String("code", se.Code), zap.String("stage", string(se.Stage)), zap.Error(se.Err))
		return nil, err
	}

	s.Metrics.ObserveRequest(string(models.OutcomeConfirmed), "", time.Since(began))
	s.Metrics.AddOracleCalls(conf.OracleCalls)
	if conf.Rescheduled {
		s.Metrics.IncRescheduled()
	}
	s.logger().Info("appointment confirmed",
		zap.String("summary", conf.Summary),
		zap.Time("start", conf.Start),
		zap.Time("end", conf.End),
		zap.Bool("rescheduled", conf.Rescheduled),
		zap.Int("oracleCalls", conf.OracleCalls))
	return conf, nil
}

func (s *Scheduler) schedule(ctx context.Context, raw string) (*models.Confirmation, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, newSchedulingError(CodeInvalidRequest, models.StageReceived, "request is empty", nil)
	}
	if utf8.RuneCountInString(raw) > models.MaxRequestLength {
		return nil, newSchedulingError(CodeInvalidRequest, models.StageReceived,
			fmt.Sprintf("request exceeds %d characters", models.MaxRequestLength), nil)
	}
	if s.Precheck && !ai.LooksLikeAppointment(text) {
		return nil, newSchedulingError(CodeInvalidRequest, models.StageReceived,
			"request does not mention a date and a time", nil)
	}

	now := s.now()
	loc := s.location()
	resolved := ai.ResolveRelativeDates(text, now, loc)
	s.logger().Debug("resolved relative dates", zap.String("resolved", resolved))

	appt, calls, err := s.extract(ctx, resolved, now, loc)
	if err != nil {
		return nil, err
	}
	if appt.PastCorrected {
		s.logger().Warn("requested start was in the past, moved forward", zap.Time("start", appt.Start))
	}

	checker := AvailabilityChecker{Store: s.Calendar, Timeout: s.CalendarTimeout}
	free, err := checker.IsFree(ctx, appt.Start, appt.End)
	if err != nil {
		return nil, newSchedulingError(CodeAvailabilityCheckErr, models.StageCheckingAvailability,
			"could not check calendar availability", err)
	}

	conf := &models.Confirmation{
		Summary:     appt.Summary,
		Start:       appt.Start,
		End:         appt.End,
		Timezone:    models.ZoneLabel(appt.Start),
		OracleCalls: calls,
	}

	if free {
		link, err := s.createEvent(ctx, appt.Summary, appt.Start, appt.End)
		if err != nil {
			return nil, newSchedulingError(CodeBookingError, models.StageBookingDirect,
				"calendar rejected the booking", err)
		}
		conf.Link = link
		return conf, nil
	}

	checked := 0
	countingIsFree := func(ctx context.Context, start, end time.Time) (bool, error) {
		checked++
		return checker.IsFree(ctx, start, end)
	}
	slot, err := s.Finder.FindNextFree(ctx, appt.Start, appt.Duration(), countingIsFree)
	s.Metrics.AddSlotCandidates(checked)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, newSchedulingError(CodeNoSlotAvailable, models.StageSearchingSlot,
			"requested time is busy and no free slot was found", err)
	}
	if err != nil {
		return nil, newSchedulingError(CodeAvailabilityCheckErr, models.StageSearchingSlot,
			"could not check calendar availability", err)
	}

	link, err := s.createEvent(ctx, appt.Summary, slot.Start, slot.End)
	if err != nil {
		return nil, newSchedulingError(CodeBookingError, models.StageBookingFound,
			"calendar rejected the booking", err)
	}
	conf.Start, conf.End = slot.Start, slot.End
	conf.Rescheduled = true
	conf.RequestedStart, conf.RequestedEnd = appt.Start, appt.End
	conf.Link = link
	return conf, nil
}

// extract calls the oracle at most twice. Only an incomplete appointment earns a retry,
// and the retry prompt names the missing fields.
func (s *Scheduler) extract(ctx context.Context, resolved string, now time.Time, loc *time.Location) (*models.AppointmentRequest, int, error) {
	var missing []string
	for attempt := 1; attempt <= maxOracleCalls; attempt++ {
		prompt := ai.BuildExtractionPrompt(resolved, now, loc, missing)
		out, err := s.callOracle(ctx, prompt)
		if err != nil {
			return nil, attempt, newSchedulingError(CodeExtractionError, models.StageExtracting,
				"could not reach the extraction service", err)
		}

		payload, err := ai.ParseExtraction(out)
		if err != nil {
			return nil, attempt, newSchedulingError(CodeMalformedExtraction, models.StageExtracting,
				"could not understand the extraction result", err)
		}

		appt, err := NormalizeAppointment(payload, loc, s.DefaultDuration, now)
		var incomplete *IncompleteAppointmentError
		switch {
		case err == nil:
			return appt, attempt, nil
		case errors.As(err, &incomplete):
			missing = incomplete.Missing
			s.logger().Info("extraction incomplete",
				zap.Int("attempt", attempt), zap.Strings("missing", missing))
			if attempt < maxOracleCalls {
				continue
			}
			se := newSchedulingError(CodeIncompleteAppt, models.StageNormalizing,
				fmt.Sprintf("appointment is missing %s", strings.Join(missing, ", ")), err)
			se.Missing = missing
			return nil, attempt, se
		case errors.Is(err, ErrInvalidInterval):
			return nil, attempt, newSchedulingError(CodeInvalidInterval, models.StageNormalizing,
				"appointment end must be after its start", err)
		default:
			return nil, attempt, newSchedulingError(CodeMalformedExtraction, models.StageNormalizing,
				"could not understand the extraction result", err)
		}
	}
	// unreachable: the loop always returns on its last attempt
	return nil, maxOracleCalls, newSchedulingError(CodeExtractionError, models.StageExtracting, "extraction did not run", nil)
}

func (s *Scheduler) callOracle(ctx context.Context, prompt string) (string, error) {
	if s.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.OracleTimeout)
		defer cancel()
	}
	return s.Oracle.GenerateContent(ctx, prompt)
}

func (s *Scheduler) createEvent(ctx context.Context, summary string, start, end time.Time) (string, error) {
	if s.CalendarTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CalendarTimeout)
		defer cancel()
	}
	return s.Calendar.CreateEvent(ctx, summary, start, end)
}
