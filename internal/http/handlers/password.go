package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/reset"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/notifications"
	"github.com/rakshithjm97/ivms3/internal/security"
)

type UserByEmail interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type ResetStore interface {
	Issue(ctx context.Context, userID, tokenHash string, ttl time.Duration) (reset.Token, error)
	Consume(ctx context.Context, tokenHash, newPasswordHash string) error
}

type PasswordHandler struct {
	users        UserByEmail
	resets       ResetStore
	notifier     notifications.Notifier
	resetURLBase string
	ttl          time.Duration
}

func NewPasswordHandler(users UserByEmail, resets ResetStore, notifier notifications.Notifier, resetURLBase string, ttl time.Duration) *PasswordHandler {
	return &PasswordHandler{
		users:        users,
		resets:       resets,
		notifier:     notifier,
		resetURLBase: resetURLBase,
		ttl:          ttl,
	}
}

// Forgot issues a reset token when the email is known. The response is the same whether or
// not the account exists.
func (h *PasswordHandler) Forgot(ctx *gin.Context) {
	var req reset.ForgotPasswordRequest
	_ = ctx.ShouldBindJSON(&req)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" {
		h.issue(ctx.Request.Context(), email)
	}

	RespondMessage(ctx, http.StatusOK, reset.GenericMessage, nil)
}

func (h *PasswordHandler) issue(reqCtx context.Context, email string) {
	log := slog.Default()

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.ErrorContext(reqCtx, "forgot password lookup failed", "err", err)
		}
		return
	}

	raw, hash, err := security.NewResetToken()
	if err != nil {
		log.ErrorContext(reqCtx, "generate reset token failed", "err", err)
		return
	}

	if _, err := h.resets.Issue(cctx, u.ID, hash, h.ttl); err != nil {
		log.ErrorContext(reqCtx, "issue reset token failed", "user_id", u.ID, "err", err)
		return
	}

	if h.notifier == nil {
		return
	}

	err = h.notifier.SendPasswordReset(cctx, notifications.PasswordResetInput{
		Email:     u.Email,
		Name:      u.Name,
		Link:      h.resetLink(raw),
		ExpiresIn: h.ttl.String(),
	})
	if err != nil {
		log.WarnContext(reqCtx, "send reset link failed", "user_id", u.ID, "err", err)
	}
}

func (h *PasswordHandler) resetLink(raw string) string {
	sep := "?"
	if strings.Contains(h.resetURLBase, "?") {
		sep = "&"
	}
	return h.resetURLBase + sep + "token=" + url.QueryEscape(raw)
}

func (h *PasswordHandler) Reset(ctx *gin.Context) {
	var req reset.ResetPasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(strings.TrimSpace(req.NewPassword))
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			RespondBadRequest(ctx, "Password must be at least 8 characters", nil)
			return
		}
		RespondInternal(ctx, "Could not reset password")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err = h.resets.Consume(cctx, security.HashResetToken(strings.TrimSpace(req.Token)), hash)
	if err != nil {
		if errors.Is(err, reset.ErrInvalidToken) {
			RespondBadRequest(ctx, "Invalid or expired token", nil)
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "reset password failed", "err", err)
		RespondInternal(ctx, "Could not reset password")
		return
	}

	RespondMessage(ctx, http.StatusOK, "Password updated successfully. Please login.", nil)
}
