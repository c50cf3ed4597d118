package repository

import (
	"context"

	"github.com/funtiknax13/task-manager/domain"
)

// TaskOrder selects the sort key for task listings.
type TaskOrder string

const (
	OrderDeadlineAsc TaskOrder = "deadline_asc"
	OrderCreatedAsc  TaskOrder = "created_asc"
	OrderCreatedDesc TaskOrder = "created_desc"
)

// TaskFilter narrows a listing. Completed is tri-state: nil returns every task.
// Filter and order are independent axes; any combination is valid.
type TaskFilter struct {
	Completed *bool
	Order     TaskOrder
	Limit     int
	Offset    int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}
