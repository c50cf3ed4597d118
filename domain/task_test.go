package domain_test

import (
	"testing"
	"time"

	"github.com/funtiknax13/task-manager/domain"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		completed bool
		deadline  time.Time
		want      domain.Status
	}{
		{"open far from deadline", false, now.Add(48 * time.Hour), domain.StatusOpen},
		{"open exactly one day ahead", false, now.Add(24 * time.Hour), domain.StatusOpen},
		{"due soon just inside window", false, now.Add(24*time.Hour - time.Second), domain.StatusDueSoon},
		{"due soon two hours ahead", false, now.Add(2 * time.Hour), domain.StatusDueSoon},
		{"due soon one second ahead", false, now.Add(time.Second), domain.StatusDueSoon},
		{"deadline equals now is overdue", false, now, domain.StatusOverdue},
		{"overdue one hour past", false, now.Add(-time.Hour), domain.StatusOverdue},
		{"overdue years past", false, now.Add(-24 * 365 * time.Hour), domain.StatusOverdue},
		{"completed wins over overdue", true, now.Add(-time.Hour), domain.StatusCompleted},
		{"completed wins over due soon", true, now.Add(time.Hour), domain.StatusCompleted},
		{"completed wins far in the future", true, now.Add(1000 * time.Hour), domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeStatus(tt.completed, tt.deadline, now)
			if got != tt.want {
				t.Errorf("ComputeStatus(%v, deadline=%v) = %q, want %q", tt.completed, tt.deadline, got, tt.want)
			}
		})
	}
}

func TestTaskStatus_RecomputedAgainstNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &domain.Task{
		Title:    "ship release",
		Body:     "cut the tag",
		Deadline: now.Add(2 * time.Hour),
	}

	if got := task.Status(now); got != domain.StatusDueSoon {
		t.Fatalf("Status(now) = %q, want %q", got, domain.StatusDueSoon)
	}

	// Status is derived, so the same record flips to overdue as time passes.
	if got := task.Status(now.Add(3 * time.Hour)); got != domain.StatusOverdue {
		t.Fatalf("Status(now+3h) = %q, want %q", got, domain.StatusOverdue)
	}

	task.Completed = true
	if got := task.Status(now.Add(3 * time.Hour)); got != domain.StatusCompleted {
		t.Fatalf("Status after completion = %q, want %q", got, domain.StatusCompleted)
	}
}

func TestTaskHelpers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	overdue := &domain.Task{Deadline: now.Add(-time.Minute)}
	if !overdue.IsOverdue(now) {
		t.Error("IsOverdue() = false for a past deadline")
	}
	if overdue.IsDueSoon(now) {
		t.Error("IsDueSoon() = true for an overdue task")
	}

	urgent := &domain.Task{Deadline: now.Add(time.Hour)}
	if !urgent.IsDueSoon(now) {
		t.Error("IsDueSoon() = false inside the window")
	}
	if urgent.IsOverdue(now) {
		t.Error("IsOverdue() = true before the deadline")
	}
}
