package tasks

import (
	"encoding/json"
	"time"

	"apptbot/models"

	"github.com/hibiken/asynq"
)

const TypeScheduleAppointment = "appointment:schedule"

// NewScheduleTask wraps a request for the worker. Booking is not idempotent,
// so the task is never retried.
func NewScheduleTask(payload models.SchedulePayload, timeout time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeScheduleAppointment, b)
	opts := []asynq.Option{
		asynq.TaskID(payload.JobID),
		asynq.MaxRetry(0),
	}
	if timeout > 0 {
		opts = append(opts, asynq.Timeout(timeout))
	}
	return task, opts, nil
}

// ParseSchedulePayload decodes a task created by NewScheduleTask.
func ParseSchedulePayload(task *asynq.Task) (models.SchedulePayload, error) {
	var p models.SchedulePayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
