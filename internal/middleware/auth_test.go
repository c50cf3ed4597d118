package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/internal/middleware"
	"github.com/funtiknax13/task-manager/pkg/token"
)

type stubResolver struct {
	sessions map[string]*domain.Session
}

func (s *stubResolver) Session(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return session, nil
}

func liveSession(id string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		UserID:    "user-1",
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestSessionAuth(t *testing.T) {
	signer := token.NewSigner("secret", "test")
	session := liveSession("sess-1")
	resolver := &stubResolver{sessions: map[string]*domain.Session{"sess-1": session}}

	signed, err := signer.Issue(session)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	revoked, err := signer.Issue(liveSession("sess-gone"))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	foreign, err := token.NewSigner("other-secret", "test").Issue(session)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		setRequest func(ctx *fasthttp.RequestCtx)
		wantStatus int
		wantNext   bool
	}{
		{
			name: "bearer token with live session",
			setRequest: func(ctx *fasthttp.RequestCtx) {
				ctx.Request.Header.Set("Authorization", "Bearer "+signed)
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name: "cookie with live session",
			setRequest: func(ctx *fasthttp.RequestCtx) {
				ctx.Request.Header.SetCookie(middleware.SessionCookie, signed)
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "no credentials",
			setRequest: func(ctx *fasthttp.RequestCtx) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid signature but revoked session",
			setRequest: func(ctx *fasthttp.RequestCtx) {
				ctx.Request.Header.Set("Authorization", "Bearer "+revoked)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "foreign signature",
			setRequest: func(ctx *fasthttp.RequestCtx) {
				ctx.Request.Header.Set("Authorization", "Bearer "+foreign)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			handler := middleware.SessionAuth(signer, resolver, time.Second, nil)(func(ctx *fasthttp.RequestCtx) {
				nextCalled = true
				if got, _ := ctx.UserValue("user_id").(string); got != "user-1" {
					t.Errorf("user_id = %q, want user-1", got)
				}
				if got, _ := ctx.UserValue("username").(string); got != "alice" {
					t.Errorf("username = %q, want alice", got)
				}
			})

			var ctx fasthttp.RequestCtx
			tt.setRequest(&ctx)
			handler(&ctx)

			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
			if ctx.Response.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", ctx.Response.StatusCode(), tt.wantStatus)
			}
		})
	}
}
