package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/repository"
)

// UseCase owns the task lifecycle: validation, persistence calls and the
// read-side derivation of overdue/due-soon subsets.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput carries the caller-supplied content fields.
type CreateInput struct {
	Title    string
	Body     string
	Deadline time.Time
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "body is required")
	}
	if in.Deadline.IsZero() {
		return domain.NewError(domain.ErrCodeInvalid, "deadline is required")
	}
	// A past deadline is allowed; the task simply starts out overdue.
	return nil
}

func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*domain.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:     in.Title,
		Body:      in.Body,
		Completed: false,
		Deadline:  in.Deadline,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		uc.logger.Error("task create failed", zap.Error(err))
		return nil, storageErr(err)
	}
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return task, nil
}

func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		uc.logger.Error("task list failed", zap.Error(err))
		return nil, storageErr(err)
	}
	return tasks, nil
}

// ListOverdue returns open tasks already past their deadline. The subset is
// computed here rather than in SQL so it always reflects the same status rule
// the read paths use.
func (uc *UseCase) ListOverdue(ctx context.Context) ([]domain.Task, error) {
	return uc.listByStatus(ctx, domain.StatusOverdue)
}

// ListDueSoon returns open tasks inside the due-soon window.
func (uc *UseCase) ListDueSoon(ctx context.Context) ([]domain.Task, error) {
	return uc.listByStatus(ctx, domain.StatusDueSoon)
}

func (uc *UseCase) listByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	open := false
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		Completed: &open,
		Order:     repository.OrderCreatedDesc,
	})
	if err != nil {
		return nil, storageErr(err)
	}

	now := uc.now()
	matched := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status(now) == status {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Update replaces the three mutable content fields. Completed and CreatedAt
// are never touched here.
func (uc *UseCase) Update(ctx context.Context, id string, in CreateInput) (*domain.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:       id,
		Title:    in.Title,
		Body:     in.Body,
		Deadline: in.Deadline,
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, storageErr(err)
	}
	return uc.Get(ctx, id)
}

// SetCompleted flips the single durable status bit. Overdue/due-soon markers
// cannot be persisted; they are always derived on read.
func (uc *UseCase) SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error) {
	if err := uc.tasks.SetCompleted(ctx, id, completed); err != nil {
		return nil, storageErr(err)
	}
	return uc.Get(ctx, id)
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	return nil
}

// storageErr passes domain errors through and folds everything else into a
// generic internal failure so raw driver errors never reach a client.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, "storage failure", err)
}
