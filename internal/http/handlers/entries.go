package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
)

type EntryStore interface {
	CreateTrackerBatch(ctx context.Context, rows []activity.TrackerRow) ([]string, error)
	CreateDaily(ctx context.Context, email string, e activity.DailyEntry) (string, error)
	CreateResource(ctx context.Context, src activity.Source, email string, e activity.ResourceEntry) (string, error)
}

// EntriesHandler accepts new activity submissions. The submitter is always the authenticated
// caller; any email in the payload is ignored.
type EntriesHandler struct {
	store EntryStore
	newID func() string
}

func NewEntriesHandler(store EntryStore) *EntriesHandler {
	return &EntriesHandler{store: store, newID: uuid.NewString}
}

func (h *EntriesHandler) SubmitTracker(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	var req activity.TrackerSubmission
	metadata, ok := BindJSONBody(ctx, &req)
	if !ok {
		return
	}

	rows, err := req.Rows(p.Email, metadata, h.newID)
	if err != nil {
		RespondBadRequest(ctx, "date must be a date in YYYY-MM-DD format", nil)
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	ids, err := h.store.CreateTrackerBatch(cctx, rows)
	if err != nil {
		if errors.Is(err, activity.ErrDuplicateEntry) {
			RespondConflict(ctx, "Duplicate entry or constraint error")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "submit tracker failed", "err", err)
		RespondInternal(ctx, "Could not save tracker entry")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "", gin.H{"id": ids[0], "data": gin.H{"ids": ids}})
}

func (h *EntriesHandler) SubmitResourcePlanning(ctx *gin.Context) {
	h.submitResource(ctx, activity.SourceResourcePlan)
}

func (h *EntriesHandler) SubmitResource(ctx *gin.Context) {
	h.submitResource(ctx, activity.SourceResource)
}

func (h *EntriesHandler) submitResource(ctx *gin.Context, src activity.Source) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	var req activity.ResourceEntry
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	id, err := h.store.CreateResource(cctx, src, p.Email, req)
	if err != nil {
		if errors.Is(err, activity.ErrDuplicateEntry) {
			RespondConflict(ctx, "Duplicate entry or constraint error")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "submit resource failed", "source", src, "err", err)
		RespondInternal(ctx, "Could not save entry")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "", gin.H{"id": id})
}

func (h *EntriesHandler) SubmitDaily(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	var req activity.DailyEntry
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	id, err := h.store.CreateDaily(cctx, p.Email, req)
	if err != nil {
		if errors.Is(err, activity.ErrDuplicateEntry) {
			RespondConflict(ctx, "An entry for this email and date already exists")
			return
		}
		slog.Default().ErrorContext(ctx.Request.Context(), "submit daily activity failed", "err", err)
		RespondInternal(ctx, "Could not save daily activity")
		return
	}

	RespondMessage(ctx, http.StatusCreated, "Daily activity entry created successfully", gin.H{"id": id})
}
