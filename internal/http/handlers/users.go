package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/security"
)

type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, email, passwordHash, name string, role user.Role, pod *string) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	store UserStore
}

func NewUsersHandler(store UserStore) *UsersHandler {
	return &UsersHandler{store: store}
}

func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.store.List(cctx)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "list users failed", "err", err)
		RespondInternal(ctx, "Could not list users")
		return
	}

	RespondSuccess(ctx, http.StatusOK, users)
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.store.Create(cctx,
		strings.ToLower(strings.TrimSpace(req.Email)),
		hash,
		strings.TrimSpace(req.Name),
		user.ParseRole(req.Role),
		req.Pod,
	)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "Email already exists")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "create user failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "User created successfully", gin.H{"data": u})
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		RespondBadRequest(ctx, "id is required", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Delete(cctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "delete user failed", "user_id", id, "err", err)
		RespondInternal(ctx, "Could not delete user")
		return
	}

	RespondMessage(ctx, http.StatusOK, "User deleted", nil)
}
