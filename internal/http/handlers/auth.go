package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/http/middlewares"
	"github.com/rakshithjm97/ivms3/internal/repo/postgres"
	"github.com/rakshithjm97/ivms3/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, row postgres.RefreshTokenRow) error
	Rotate(ctx context.Context, oldID, presentedHash string, next postgres.RefreshTokenRow) (string, error)
	Revoke(ctx context.Context, id string) error
}

type AuthHandler struct {
	users   UserReader
	jwt     *auth.Manager
	refresh RefreshTokenStore
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, refresh RefreshTokenStore) *AuthHandler {
	return &AuthHandler{
		users:   users,
		jwt:     jwtManager,
		refresh: refresh,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "Invalid credentials")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "login lookup failed", "err", err)
		RespondInternal(ctx, "Could not sign in")
		return
	}

	if err := security.CheckPassword(found.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(found)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	rawRefresh, jti, expiresAt, err := h.jwt.GenerateRefreshToken(found)
	if err != nil {
		RespondInternal(ctx, "Could not generate refresh token")
		return
	}

	err = h.refresh.Create(cctx, postgres.RefreshTokenRow{
		ID:        jti,
		UserID:    found.ID,
		TokenHash: h.jwt.HashRefreshToken(rawRefresh),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "store refresh token failed", "err", err)
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.respondTokens(ctx, accessToken, rawRefresh, found)
}

// Refresh exchanges a refresh token (sent as the bearer) for a new pair. The old token is
// revoked in the same transaction that stores its replacement.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, ok := middlewares.BearerToken(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing refresh token")
		return
	}

	claims, err := h.jwt.VerifyRefreshToken(raw)
	if err != nil {
		RespondUnauthorized(ctx, "Invalid refresh token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// reload so role changes and deletions take effect on the next refresh
	u, err := h.users.GetByID(cctx, claims.UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnauthorized(ctx, "Invalid refresh token")
			return
		}
		RespondInternal(ctx, "Could not refresh session")
		return
	}

	newRaw, newJTI, newExpiresAt, err := h.jwt.GenerateRefreshToken(u)
	if err != nil {
		RespondInternal(ctx, "Could not refresh session")
		return
	}

	_, err = h.refresh.Rotate(cctx, claims.ID, h.jwt.HashRefreshToken(raw), postgres.RefreshTokenRow{
		ID:        newJTI,
		TokenHash: h.jwt.HashRefreshToken(newRaw),
		ExpiresAt: newExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrRefreshTokenExpired):
			RespondUnauthorized(ctx, "Refresh token expired")
		case errors.Is(err, postgres.ErrRefreshTokenNotFound),
			errors.Is(err, postgres.ErrRefreshTokenRevoked),
			errors.Is(err, postgres.ErrRefreshTokenMismatch):
			RespondUnauthorized(ctx, "Invalid refresh token")
		default:
			slog.Default().ErrorContext(ctx.Request.Context(), "rotate refresh token failed", "err", err)
			RespondInternal(ctx, "Could not refresh session")
		}
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(u)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.respondTokens(ctx, accessToken, newRaw, u)
}

// Logout revokes the presented refresh token. It always answers 204.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, ok := middlewares.BearerToken(ctx)
	if !ok {
		ctx.Status(http.StatusNoContent)
		return
	}

	claims, err := h.jwt.VerifyRefreshToken(raw)
	if err != nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.refresh.Revoke(cctx, claims.ID); err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "revoke refresh token failed", "err", err)
	}

	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondTokens(ctx *gin.Context, accessToken, refreshToken string, u user.User) {
	RespondMessage(ctx, http.StatusOK, "", gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(h.jwt.AccessTTL().Seconds()),
		"user":          u,
	})
}
