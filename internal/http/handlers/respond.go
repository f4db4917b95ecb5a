package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/http/middlewares"
)

// RespondSuccess writes {"status":"success","data":...}.
func RespondSuccess(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{"status": "success", "data": data})
}

// RespondMessage writes a success envelope carrying a message and any extra top-level keys.
func RespondMessage(ctx *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	ctx.JSON(status, body)
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{
		"status":    "error",
		"message":   message,
		"requestId": middlewares.RequestIDFrom(ctx),
	}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}
