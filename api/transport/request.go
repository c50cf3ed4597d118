package transport

import (
	"time"

	"github.com/funtiknax13/task-manager/domain"
)

// datetimeLocal is the layout produced by an HTML datetime-local input.
const datetimeLocal = "2006-01-02T15:04"

type TaskRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Deadline string `json:"deadline"`
}

// ParseDeadline accepts RFC3339 or the HTML form layout.
func (r TaskRequest) ParseDeadline() (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, r.Deadline); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(datetimeLocal, r.Deadline); err == nil {
		return parsed, nil
	}
	return time.Time{}, domain.NewError(domain.ErrCodeInvalid, "deadline must be RFC3339 or YYYY-MM-DDTHH:MM")
}

type TaskStatusRequest struct {
	Completed bool `json:"completed"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
