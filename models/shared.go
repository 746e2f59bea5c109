package models

// SchedulePayload is the asynq task payload of an async scheduling request.
type SchedulePayload struct {
	JobID string `json:"jobId"`
	Text  string `json:"text"`
}
