package models

// AppointmentInput is the payload coming from the frontend into /api/appointments.
type AppointmentInput struct {
	Text string `json:"text" binding:"required"` // the user's request, typed or transcribed
}

// Stage names a state of the scheduling pipeline.
type Stage string

const (
	StageReceived             Stage = "received"
	StageResolving            Stage = "resolving"
	StageExtracting           Stage = "extracting"
	StageNormalizing          Stage = "normalizing"
	StageCheckingAvailability Stage = "checkingAvailability"
	StageBookingDirect        Stage = "bookingDirect"
	StageSearchingSlot        Stage = "searchingSlot"
	StageBookingFound         Stage = "bookingFound"
	StageConfirmed            Stage = "confirmed"
	StageFailed               Stage = "failed"
)

type OutcomeStatus string

const (
	OutcomePending   OutcomeStatus = "pending"
	OutcomeConfirmed OutcomeStatus = "confirmed"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome is what handlers return to the frontend, for both sync and async requests.
type Outcome struct {
	JobID   string        `json:"jobId,omitempty"`
	Status  OutcomeStatus `json:"status"`
	Stage   Stage         `json:"stage,omitempty"` // failing stage when Status is failed
	Code    string        `json:"code,omitempty"`  // failure kind, e.g. "incompleteAppointment"
	Message string        `json:"message"`
	Hint    string        `json:"hint,omitempty"`
	Missing []string      `json:"missing,omitempty"`
	Booking *Confirmation `json:"booking,omitempty"`
}
