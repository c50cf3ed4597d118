package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/funtiknax13/task-manager/api/transport"
	"github.com/funtiknax13/task-manager/domain"
	"github.com/funtiknax13/task-manager/internal/middleware"
	"github.com/funtiknax13/task-manager/pkg/httpcontext"
	"github.com/funtiknax13/task-manager/pkg/token"
	authUC "github.com/funtiknax13/task-manager/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc     *authUC.UseCase
	signer *token.Signer
}

func NewAuthHandler(uc *authUC.UseCase, signer *token.Signer, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		signer:      signer,
	}
}

// @Summary Register an account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, req.Username, req.Password, req.PasswordConfirm)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user)
}

// @Summary Log in and open a session
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Login(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, result)

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.Session.ExpiresAt,
		"user":       result.User,
	})
}

// @Summary Log out
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}

	clearCookie(ctx)
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// sessionID recovers the session reference from the request token, if any.
// Logout stays idempotent: a missing or garbage token just means nothing to revoke.
func (h *AuthHandler) sessionID(ctx *fasthttp.RequestCtx) string {
	raw := string(ctx.Request.Header.Cookie(middleware.SessionCookie))
	if header := string(ctx.Request.Header.Peek("Authorization")); len(header) > 7 && header[:7] == "Bearer " {
		raw = header[7:]
	}
	if raw == "" {
		return ""
	}
	claims, err := h.signer.Parse(raw)
	if err != nil {
		return ""
	}
	return claims.SessionID
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, result *authUC.LoginResult) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(middleware.SessionCookie)
	cookie.SetValue(result.Token)
	cookie.SetExpire(result.Session.ExpiresAt)
	cookie.SetHTTPOnly(true)
	cookie.SetPath("/")
	ctx.Response.Header.SetCookie(cookie)
}

func clearCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(middleware.SessionCookie)
	cookie.SetValue("")
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	cookie.SetPath("/")
	ctx.Response.Header.SetCookie(cookie)
}
