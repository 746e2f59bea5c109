package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"apptbot/models"
	"apptbot/services/booking"
	"apptbot/services/calendar"
	ai "apptbot/services/intelligence"
	"apptbot/services/tasks"
	"apptbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// JobEnqueuer is the part of *asynq.Client the async endpoint needs.
type JobEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AppointmentHandler serves the appointment booking API.
type AppointmentHandler struct {
	Scheduler  booking.AppointmentScheduler
	Queue      JobEnqueuer        // nil disables the async endpoints
	Outcomes   tasks.OutcomeStore // required when Queue is set
	Location   *time.Location
	JobTimeout time.Duration
	Now        func() time.Time
	Metrics    *utils.Metrics
}

func (h *AppointmentHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// StatusForCode maps a scheduling failure code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case booking.CodeInvalidRequest:
		return http.StatusBadRequest
	case booking.CodeIncompleteAppt, booking.CodeInvalidInterval:
		return http.StatusUnprocessableEntity
	case booking.CodeMalformedExtraction, booking.CodeExtractionError:
		return http.StatusBadGateway
	case booking.CodeNoSlotAvailable:
		return http.StatusConflict
	case booking.CodeAvailabilityCheckErr, booking.CodeBookingError:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func badInput(err error) models.Outcome {
	return booking.Outcome(nil, &booking.SchedulingError{
		Code:    booking.CodeInvalidRequest,
		Stage:   models.StageReceived,
		Message: "request body must be JSON with a non-empty text field",
		Err:     err,
	})
}

// Book handles POST /api/appointments. ?format=ics returns the booking as an iCalendar invite.
func (h *AppointmentHandler) Book(c *gin.Context) {
	logger := getLogger(c)

	var input models.AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logger.Warn("Invalid appointment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, badInput(err))
		return
	}

	conf, err := h.Scheduler.Schedule(c.Request.Context(), input.Text)
	out := booking.Outcome(conf, err)
	if err != nil {
		logger.Info("Appointment not booked", zap.String("code", out.Code), zap.String("stage", string(out.Stage)))
		c.JSON(StatusForCode(out.Code), out)
		return
	}

	if c.Query("format") == "ics" {
		invite := calendar.BuildInvite(conf, uuid.New().String()+"@apptbot", h.now())
		c.Data(http.StatusCreated, "text/calendar; charset=utf-8", []byte(invite))
		return
	}
	c.JSON(http.StatusCreated, out)
}

// BookAsync handles POST /api/appointments/async: it queues the request and returns a job ID.
func (h *AppointmentHandler) BookAsync(c *gin.Context) {
	logger := getLogger(c)
	if h.Queue == nil || h.Outcomes == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Async scheduling is disabled", "")
		return
	}

	var input models.AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logger.Warn("Invalid async appointment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, badInput(err))
		return
	}

	jobID := uuid.New().String()
	pending := models.Outcome{
		JobID:   jobID,
		Status:  models.OutcomePending,
		Stage:   models.StageReceived,
		Message: "Your request is being processed.",
	}
	ctx := c.Request.Context()
	if err := h.Outcomes.Set(ctx, &pending); err != nil {
		logger.Error("Failed to store pending outcome", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Could not queue request", err.Error())
		return
	}

	task, opts, err := tasks.NewScheduleTask(models.SchedulePayload{JobID: jobID, Text: input.Text}, h.JobTimeout)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not queue request", err.Error())
		return
	}
	if _, err := h.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		logger.Error("Failed to enqueue schedule task", zap.String("jobID", jobID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Could not queue request", err.Error())
		return
	}
	h.Metrics.IncJobsEnqueued()

	logger.Info("Schedule job queued", zap.String("jobID", jobID))
	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID, "status": models.OutcomePending})
}

// GetJob handles GET /api/appointments/jobs/:jobID.
func (h *AppointmentHandler) GetJob(c *gin.Context) {
	if h.Outcomes == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Async scheduling is disabled", "")
		return
	}
	jobID := c.Param("jobID")

	out, err := h.Outcomes.Get(c.Request.Context(), jobID)
	if errors.Is(err, tasks.ErrJobNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Job not found", jobID)
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to load outcome", zap.String("jobID", jobID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Could not load job", err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}

// Resolve handles POST /api/appointments/resolve: relative dates only, no oracle call.
func (h *AppointmentHandler) Resolve(c *gin.Context) {
	var input models.AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, badInput(err))
		return
	}
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	c.JSON(http.StatusOK, gin.H{
		"resolved":             ai.ResolveRelativeDates(input.Text, h.now(), loc),
		"looksLikeAppointment": ai.LooksLikeAppointment(input.Text),
	})
}
