package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"
)

type UIOptionsSource interface {
	UIOptions(ctx context.Context) (json.RawMessage, error)
}

type UIOptionsHandler struct {
	src UIOptionsSource
}

func NewUIOptionsHandler(src UIOptionsSource) *UIOptionsHandler {
	return &UIOptionsHandler{src: src}
}

func (h *UIOptionsHandler) Get(ctx *gin.Context) {
	raw, err := h.src.UIOptions(ctx.Request.Context())
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "ui options load failed", "err", err)
		RespondInternal(ctx, "Could not load uiOptions")
		return
	}

	RespondSuccessWithETag(ctx, raw)
}
