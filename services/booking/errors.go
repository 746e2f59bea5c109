package booking

import (
	"errors"
	"fmt"
	"strings"

	"apptbot/models"
)

// Failure codes carried by SchedulingError.
const (
	CodeInvalidRequest       = "invalidRequest"
	CodeExtractionError      = "extractionError"
	CodeMalformedExtraction  = "malformedExtraction"
	CodeIncompleteAppt       = "incompleteAppointment"
	CodeInvalidInterval      = "invalidInterval"
	CodeNoSlotAvailable      = "noSlotAvailable"
	CodeBookingError         = "bookingError"
	CodeAvailabilityCheckErr = "availabilityCheckError"
)

var (
	// ErrInvalidInterval is returned when the derived end is not after the start.
	ErrInvalidInterval = errors.New("appointment end is not after its start")
	// ErrSlotNotFound is returned when every candidate in the search window is busy.
	ErrSlotNotFound = errors.New("no free slot in search window")
)

// IncompleteAppointmentError lists payload fields required to build an appointment.
type IncompleteAppointmentError struct {
	Missing []string
}

func (e *IncompleteAppointmentError) Error() string {
	return fmt.Sprintf("incomplete appointment: missing %s", strings.Join(e.Missing, ", "))
}

// SchedulingError is the only error type Scheduler.Schedule returns.
type SchedulingError struct {
	Code    string
	Stage   models.Stage
	Message string
	Missing []string
	Err     error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %s: %v", e.Code, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Stage, e.Message)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

func newSchedulingError(code string, stage models.Stage, msg string, err error) *SchedulingError {
	return &SchedulingError{Code: code, Stage: stage, Message: msg, Err: err}
}
