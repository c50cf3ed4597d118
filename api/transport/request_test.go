package transport_test

import (
	"testing"
	"time"

	"github.com/funtiknax13/task-manager/api/transport"
	"github.com/funtiknax13/task-manager/domain"
)

func TestTaskRequest_ParseDeadline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2025-06-01T12:00:00Z",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "html datetime-local",
			input: "2025-06-01T12:00",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{"empty", "", time.Time{}, true},
		{"date only", "2025-06-01", time.Time{}, true},
		{"garbage", "next tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transport.TaskRequest{Deadline: tt.input}.ParseDeadline()
			if tt.wantErr {
				if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
					t.Errorf("ParseDeadline(%q) error = %v, want INVALID", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeadline(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDeadline(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTaskViews_DerivedStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "a", Deadline: now.Add(-time.Hour)},
		{ID: "b", Deadline: now.Add(time.Hour)},
		{ID: "c", Deadline: now.Add(-time.Hour), Completed: true},
	}

	views := transport.NewTaskViews(tasks, now)
	want := []domain.Status{domain.StatusOverdue, domain.StatusDueSoon, domain.StatusCompleted}
	for i, view := range views {
		if view.DisplayStatus != want[i] {
			t.Errorf("views[%d].DisplayStatus = %q, want %q", i, view.DisplayStatus, want[i])
		}
	}
}
