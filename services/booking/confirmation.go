package booking

import (
	"errors"
	"strings"

	"apptbot/models"
	ai "apptbot/services/intelligence"
)

var fieldLabels = map[string]string{
	models.FieldSummary:         "a title",
	models.FieldStartTime:       "a date and start time",
	models.FieldEndTime:         "an end time",
	models.FieldDurationMinutes: "a duration",
	models.FieldTimezone:        "a timezone",
}

// Outcome maps a Schedule result to what the user sees.
func Outcome(conf *models.Confirmation, err error) models.Outcome {
	if err == nil && conf != nil {
		return models.Outcome{
			Status:  models.OutcomeConfirmed,
			Stage:   models.StageConfirmed,
			Message: conf.Message(),
			Booking: conf,
		}
	}

	var se *SchedulingError
	if !errors.As(err, &se) {
		return models.Outcome{
			Status:  models.OutcomeFailed,
			Stage:   models.StageFailed,
			Message: "Something went wrong while booking your appointment.",
			Hint:    "Please try again later.",
		}
	}
	return models.Outcome{
		Status:  models.OutcomeFailed,
		Stage:   se.Stage,
		Code:    se.Code,
		Message: userMessage(se),
		Hint:    hintFor(se),
		Missing: se.Missing,
	}
}

func userMessage(se *SchedulingError) string {
	switch se.Code {
	case CodeInvalidRequest:
		return "I couldn't find an appointment in that request: " + se.Message + "."
	case CodeExtractionError:
		return "The assistant is unavailable right now."
	case CodeMalformedExtraction:
		return "Sorry, I couldn't understand that request."
	case CodeIncompleteAppt:
		return "Some details are missing from your request."
	case CodeInvalidInterval:
		return "The appointment would end before it starts."
	case CodeNoSlotAvailable:
		return "That time is already booked and no free slot was found in the coming days."
	case CodeAvailabilityCheckErr:
		return "I couldn't check your calendar."
	case CodeBookingError:
		return "The calendar did not accept the booking."
	}
	return se.Message
}

func hintFor(se *SchedulingError) string {
	example := "for example: \"" + ai.ExampleRequest + "\""
	switch se.Code {
	case CodeInvalidRequest, CodeMalformedExtraction:
		return "Please rephrase with a date and a time, " + example + "."
	case CodeIncompleteAppt:
		labels := make([]string, 0, len(se.Missing))
		for _, f := range se.Missing {
			if l, ok := fieldLabels[f]; ok {
				labels = append(labels, l)
			} else {
				labels = append(labels, f)
			}
		}
		return "Please include " + strings.Join(labels, " and ") + ", " + example + "."
	case CodeInvalidInterval:
		return "Check that the end time is after the start time, or give a duration instead."
	case CodeNoSlotAvailable:
		return "Try another day or a shorter appointment."
	case CodeExtractionError, CodeAvailabilityCheckErr, CodeBookingError:
		return "Please try again later."
	}
	return ""
}
