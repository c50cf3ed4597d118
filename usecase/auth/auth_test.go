package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/pkg/password"
	"github.com/funtiknax13/task-manager/pkg/token"
)

type memUserRepo struct {
	users map[string]domain.User // keyed by username
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.users[user.Username] = *user
	return user, nil
}

type memSessionRepo struct {
	sessions map[string]domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type memThrottle struct {
	failures map[string]int
	limit    int
}

func newMemThrottle(limit int) *memThrottle {
	return &memThrottle{failures: make(map[string]int), limit: limit}
}

func (t *memThrottle) Blocked(username string, _ time.Time) (bool, error) {
	return t.failures[username] >= t.limit, nil
}

func (t *memThrottle) RecordFailure(username string, _ time.Time) error {
	t.failures[username]++
	return nil
}

func (t *memThrottle) Reset(username string) error {
	delete(t.failures, username)
	return nil
}

func newTestAuth(throttle LoginThrottle) (*UseCase, *memUserRepo, *memSessionRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	uc := New(
		users,
		sessions,
		password.NewBcrypt(4), // min cost keeps the tests fast
		token.NewSigner("test-secret", "task-manager-test"),
		throttle,
		time.Hour,
		nil,
	)
	return uc, users, sessions
}

func TestRegister_Validation(t *testing.T) {
	uc, users, _ := newTestAuth(nil)

	tests := []struct {
		name     string
		username string
		pass     string
		confirm  string
	}{
		{"blank username", "", "secret", "secret"},
		{"blank password", "alice", "", ""},
		{"blank confirmation", "alice", "secret", ""},
		{"mismatched passwords", "alice", "secret", "secert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Register(context.Background(), tt.username, tt.pass, tt.confirm); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Errorf("Register() error = %v, want INVALID", err)
			}
		})
	}

	if len(users.users) != 0 {
		t.Errorf("store contains %d accounts after failed registrations, want 0", len(users.users))
	}
}

func TestRegister_HashesAndDiscardsPassword(t *testing.T) {
	uc, users, _ := newTestAuth(nil)

	created, err := uc.Register(context.Background(), "alice", "correct horse", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.PasswordHash == "" || created.PasswordHash == "correct horse" {
		t.Error("password was not hashed")
	}

	stored := users.users["alice"]
	if stored.PasswordHash == "correct horse" {
		t.Error("raw password stored")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	uc, users, _ := newTestAuth(nil)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := uc.Register(context.Background(), "alice", "other", "other"); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("second Register() error = %v, want CONFLICT", err)
	}
	if len(users.users) != 1 {
		t.Errorf("store contains %d accounts for username alice, want 1", len(users.users))
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, _, sessions := newTestAuth(nil)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := uc.Login(context.Background(), "alice", "wrong"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("Login(wrong password) error = %v, want UNAUTHORIZED", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("failed login established a session")
	}
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	uc, _, _ := newTestAuth(nil)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, unknownErr := uc.Login(context.Background(), "nobody", "secret")
	_, wrongErr := uc.Login(context.Background(), "alice", "wrong")

	// The message must not reveal whether the username exists.
	if unknownErr == nil || wrongErr == nil || unknownErr.Error() != wrongErr.Error() {
		t.Errorf("login errors differ: %v vs %v", unknownErr, wrongErr)
	}
}

func TestLogin_Success(t *testing.T) {
	uc, _, sessions := newTestAuth(nil)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := uc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
	if _, ok := sessions.sessions[result.Session.ID]; !ok {
		t.Error("Login() did not persist the session")
	}

	resolved, err := uc.Session(context.Background(), result.Session.ID)
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if resolved.Username != "alice" {
		t.Errorf("Session().Username = %q", resolved.Username)
	}
}

func TestLogin_Throttled(t *testing.T) {
	throttle := newMemThrottle(3)
	uc, _, _ := newTestAuth(throttle)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := uc.Login(context.Background(), "alice", "wrong"); !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			t.Fatalf("attempt %d error = %v, want UNAUTHORIZED", i, err)
		}
	}

	// Budget exhausted: even the right password is rejected now.
	if _, err := uc.Login(context.Background(), "alice", "secret"); !domain.IsDomainError(err, domain.ErrCodeRateLimited) {
		t.Errorf("Login(after limit) error = %v, want RATE_LIMITED", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	uc, _, sessions := newTestAuth(nil)

	if _, err := uc.Register(context.Background(), "alice", "secret", "secret"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	result, err := uc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := uc.Logout(context.Background(), result.Session.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("session not revoked")
	}
	if err := uc.Logout(context.Background(), result.Session.ID); err != nil {
		t.Errorf("second Logout() error = %v, want nil", err)
	}
	if err := uc.Logout(context.Background(), ""); err != nil {
		t.Errorf("Logout(empty) error = %v, want nil", err)
	}

	if _, err := uc.Session(context.Background(), result.Session.ID); !domain.IsDomainError(err, domain.ErrCodeAuthRequired) {
		t.Errorf("Session(revoked) error = %v, want AUTH_REQUIRED", err)
	}
}

func TestSession_Expired(t *testing.T) {
	uc, _, sessions := newTestAuth(nil)

	session := domain.Session{
		ID:        "expired",
		UserID:    "u1",
		Username:  "alice",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	sessions.sessions[session.ID] = session

	if _, err := uc.Session(context.Background(), "expired"); !domain.IsDomainError(err, domain.ErrCodeAuthRequired) {
		t.Errorf("Session(expired) error = %v, want AUTH_REQUIRED", err)
	}
	if _, ok := sessions.sessions["expired"]; ok {
		t.Error("expired session not dropped")
	}
}
