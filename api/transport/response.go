package transport

import (
	"encoding/json"
	"time"

	"github.com/funtiknax13/task-manager/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// TaskView is a task enriched with the display status derived at response time.
type TaskView struct {
	domain.Task
	DisplayStatus domain.Status `json:"display_status"`
}

// NewTaskView computes the derived status against now. It must be rebuilt for
// every response; the status is never cached.
func NewTaskView(task domain.Task, now time.Time) TaskView {
	return TaskView{
		Task:          task,
		DisplayStatus: task.Status(now),
	}
}

// NewTaskViews maps a listing, evaluating every row against the same now.
func NewTaskViews(tasks []domain.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, NewTaskView(t, now))
	}
	return views
}
