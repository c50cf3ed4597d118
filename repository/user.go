package repository

import (
	"context"

	"github.com/funtiknax13/task-manager/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists a new account and returns domain.ErrUsernameTaken when
	// the username unique constraint is violated.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
