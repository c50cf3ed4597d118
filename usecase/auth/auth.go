package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/pkg/password"
	"github.com/funtiknax13/task-manager/pkg/token"
	"github.com/funtiknax13/task-manager/repository"
)

// LoginThrottle tracks failed login attempts per username. A nil throttle
// disables the check.
type LoginThrottle interface {
	Blocked(username string, now time.Time) (bool, error)
	RecordFailure(username string, at time.Time) error
	Reset(username string) error
}

// UseCase owns registration, login/logout and session resolution.
type UseCase struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	hasher     password.Hasher
	signer     *token.Signer
	throttle   LoginThrottle
	sessionTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher password.Hasher,
	signer *token.Signer,
	throttle LoginThrottle,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UseCase {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		signer:     signer,
		throttle:   throttle,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an account. The raw password is hashed and discarded;
// a duplicate username surfaces as a conflict from the repository.
func (uc *UseCase) Register(ctx context.Context, username, pass, passConfirm string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" || pass == "" || passConfirm == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and both passwords are required")
	}
	if pass != passConfirm {
		return nil, domain.NewError(domain.ErrCodeInvalid, "passwords do not match")
	}

	digest, err := uc.hasher.Hash(pass)
	if err != nil {
		uc.logger.Error("password hashing failed", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeInternal, "could not process password", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: digest,
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, storageErr(err)
	}
	return created, nil
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    *domain.User
}

// Login verifies credentials and establishes a session. Unknown usernames and
// wrong passwords produce the same error so accounts cannot be enumerated.
func (uc *UseCase) Login(ctx context.Context, username, pass string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || pass == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and password are required")
	}

	now := uc.now()
	if uc.throttle != nil {
		blocked, err := uc.throttle.Blocked(username, now)
		if err != nil {
			uc.logger.Warn("login throttle check failed", zap.Error(err))
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.recordFailure(username, now)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storageErr(err)
	}

	if !uc.hasher.Verify(pass, user.PasswordHash) {
		uc.recordFailure(username, now)
		return nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, storageErr(err)
	}

	signed, err := uc.signer.Issue(session)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "could not issue session token", err)
	}

	if uc.throttle != nil {
		if err := uc.throttle.Reset(username); err != nil {
			uc.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}

	return &LoginResult{Token: signed, Session: session, User: user}, nil
}

// Logout revokes the session. Revoking an already-absent session succeeds.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return storageErr(err)
	}
	return nil
}

// Session resolves a live session, dropping it when expired.
func (uc *UseCase) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrAuthRequired
		}
		return nil, storageErr(err)
	}
	if session.IsExpired(uc.now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrAuthRequired
	}
	return session, nil
}

func (uc *UseCase) recordFailure(username string, at time.Time) {
	if uc.throttle == nil {
		return
	}
	if err := uc.throttle.RecordFailure(username, at); err != nil {
		uc.logger.Warn("failed to record login failure", zap.Error(err))
	}
}

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
