package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/funtiknax13/task-manager/api/transport"
	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/pkg/token"
)

// SessionCookie is the cookie the login handler sets alongside the JSON token.
const SessionCookie = "task_session"

// SessionResolver looks up a live session by id; expired or revoked sessions
// must fail with an auth-required domain error.
type SessionResolver interface {
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

// SessionAuth gates protected routes: the request must carry a signed session
// token (Bearer header or cookie) whose session still exists in Redis. On
// success the session identity is stashed in the request user values.
func SessionAuth(signer *token.Signer, resolver SessionResolver, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx)
				return
			}

			claims, err := signer.Parse(tokenString)
			if err != nil {
				logger.Warn("invalid session token", zap.Error(err))
				reject(ctx)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			session, err := resolver.Session(stdCtx, claims.SessionID)
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeAuthRequired) {
					logger.Error("session lookup failed", zap.Error(err))
				}
				reject(ctx)
				return
			}

			ctx.SetUserValue("session_id", session.ID)
			ctx.SetUserValue("user_id", session.UserID)
			ctx.SetUserValue("username", session.Username)

			next(ctx)
		}
	}
}

func reject(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBodyString(transport.NewError(string(domain.ErrCodeAuthRequired), domain.ErrAuthRequired.Message, nil).String())
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if header != "" {
		return header
	}
	return string(ctx.Request.Header.Cookie(SessionCookie))
}
