package domain

import "time"

// DueSoonWindow is how far ahead of the deadline an open task is flagged as urgent.
const DueSoonWindow = 24 * time.Hour

// Status is the display status of a task. Only the completed bit is persisted;
// overdue and due-soon are derived from the deadline on every read.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusDueSoon   Status = "due_soon"
)

// Task is a tracked activity item with a hard deadline.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Completed bool      `json:"completed"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
}

// ComputeStatus derives the display status from the completed bit, the deadline
// and the supplied reference time. Completed wins over every time-based check.
// A deadline exactly at now counts as overdue, not due-soon.
func ComputeStatus(completed bool, deadline, now time.Time) Status {
	if completed {
		return StatusCompleted
	}
	if !deadline.After(now) {
		return StatusOverdue
	}
	if deadline.Sub(now) < DueSoonWindow {
		return StatusDueSoon
	}
	return StatusOpen
}

// Status reports the task's display status at the given time.
func (t *Task) Status(now time.Time) Status {
	if t == nil {
		return StatusOpen
	}
	return ComputeStatus(t.Completed, t.Deadline, now)
}

// IsOverdue reports whether the task is open and past its deadline.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status(now) == StatusOverdue
}

// IsDueSoon reports whether the task is open and inside the due-soon window.
func (t *Task) IsDueSoon(now time.Time) bool {
	return t.Status(now) == StatusDueSoon
}
