package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/cache"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/http/middlewares"
	"github.com/rakshithjm97/ivms3/internal/observability"
	"github.com/rakshithjm97/ivms3/internal/query"
)

const (
	listLimit        = 500
	performanceLimit = 5000
	teamReportLimit  = 10000
)

type ActivityStore interface {
	List(ctx context.Context, sources []query.Table, where query.Criteria, limit int) ([]activity.Record, error)
	Distinct(ctx context.Context, sources []query.Table, field query.Field, where query.Criteria) ([]string, error)
	Update(ctx context.Context, e activity.Edit) (int64, error)
}

// ActivityHandler serves the scoped read side: listings, dropdown values, reports and edits.
type ActivityHandler struct {
	store   ActivityStore
	scoper  *access.Scoper
	cache   cache.Store
	prom    *observability.Prom
	useBoth bool
}

func NewActivityHandler(store ActivityStore, scoper *access.Scoper, filterCache cache.Store, prom *observability.Prom, useBoth bool) *ActivityHandler {
	return &ActivityHandler{
		store:   store,
		scoper:  scoper,
		cache:   filterCache,
		prom:    prom,
		useBoth: useBoth,
	}
}

func principalOrAbort(ctx *gin.Context) (access.Principal, bool) {
	p, ok := middlewares.PrincipalFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return access.Principal{}, false
	}
	return p, true
}

func (h *ActivityHandler) scope(p access.Principal, f access.Filter) access.Scope {
	s := h.scoper.Scope(p, f)
	h.prom.ObserveScope(p.Role.String(), s.Denied)
	return s
}

// List returns the caller's scoped rows across the configured sources, newest first.
func (h *ActivityHandler) List(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	f, err := filterFromQuery(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid date filter", nil)
		return
	}

	h.respondRecords(ctx, p, f, activity.ListSources(h.useBoth), nil, listLimit)
}

// Performance returns scoped rows from every activity source in the requested date range.
func (h *ActivityHandler) Performance(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	f, err := filterFromQuery(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid date filter", nil)
		return
	}

	h.respondRecords(ctx, p, f, activity.ReportSources(h.useBoth), nil, performanceLimit)
}

// TeamReport aggregates scoped rows per submitter.
func (h *ActivityHandler) TeamReport(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	f, err := filterFromQuery(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid date filter", nil)
		return
	}

	s := h.scope(p, f)
	if s.Denied {
		RespondSuccess(ctx, http.StatusOK, []activity.ReportRow{})
		return
	}

	cctx, cancel := config.WithTimeout(15 * time.Second)
	defer cancel()

	recs, err := h.store.List(cctx, activity.ReportSources(h.useBoth), s.Criteria, teamReportLimit)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "team report failed", "err", err)
		RespondInternal(ctx, "Could not build team report")
		return
	}

	RespondSuccess(ctx, http.StatusOK, activity.Aggregate(recs))
}

// ListDaily lists daily_activity_new rows; the date range applies to the activity date.
func (h *ActivityHandler) ListDaily(ctx *gin.Context) {
	h.listSingle(ctx, activity.Daily)
}

// ListResources lists resource_table rows; the date range applies to the activity date.
func (h *ActivityHandler) ListResources(ctx *gin.Context) {
	h.listSingle(ctx, activity.Resource)
}

func (h *ActivityHandler) listSingle(ctx *gin.Context, table query.Table) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	f, err := filterFromQuery(ctx)
	if err != nil {
		RespondBadRequest(ctx, "Invalid date filter", nil)
		return
	}

	var extra query.Criteria
	if f.From != nil {
		extra = append(extra, query.Gte(activity.FieldActivityDate, *f.From))
	}
	if f.To != nil {
		extra = append(extra, query.Lte(activity.FieldActivityDate, *f.To))
	}
	f.From, f.To = nil, nil

	h.respondRecords(ctx, p, f, []query.Table{table}, extra, listLimit)
}

func (h *ActivityHandler) respondRecords(ctx *gin.Context, p access.Principal, f access.Filter, sources []query.Table, extra query.Criteria, limit int) {
	s := h.scope(p, f)
	if s.Denied {
		RespondSuccess(ctx, http.StatusOK, []activity.Record{})
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	where := append(s.Criteria, extra...)

	recs, err := h.store.List(cctx, sources, where, limit)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "list activity failed", "err", err)
		RespondInternal(ctx, "Could not load activity")
		return
	}

	RespondSuccess(ctx, http.StatusOK, recs)
}

// Filters returns the dropdown values visible to the caller. A failing lookup yields an empty
// list for that dropdown rather than an error, and such a degraded response is not cached.
func (h *ActivityHandler) Filters(ctx *gin.Context) {
	p, ok := principalOrAbort(ctx)
	if !ok {
		return
	}

	key := cache.FiltersKey(p.Role.String(), p.Email, h.useBoth)
	if h.cache != nil {
		if b, ok := h.cache.Get(ctx.Request.Context(), key); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	out, complete := h.filters(ctx.Request.Context(), p)

	body, err := json.Marshal(gin.H{"status": "success", "data": out})
	if err != nil {
		RespondSuccess(ctx, http.StatusOK, out)
		return
	}

	if h.cache != nil && complete {
		h.cache.Set(ctx.Request.Context(), key, body)
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// filters reports complete=false when any lookup failed.
func (h *ActivityHandler) filters(reqCtx context.Context, p access.Principal) (activity.Filters, bool) {
	out := activity.EmptyFilters()

	s := h.scope(p, access.Filter{})
	if s.Denied {
		return out, true
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	sources := activity.ListSources(h.useBoth)
	complete := true
	distinct := func(field query.Field) []string {
		vals, err := h.store.Distinct(cctx, sources, field, s.Criteria)
		if err != nil {
			slog.Default().WarnContext(reqCtx, "dropdown lookup failed", "field", field.Name, "err", err)
			complete = false
			return []string{}
		}
		return vals
	}

	out.Products = distinct(activity.FieldProduct)
	out.ProjectNames = distinct(activity.FieldProject)
	out.NatureOfWork = distinct(activity.FieldNatureOfWork)
	out.Tasks = distinct(activity.FieldTask)

	switch {
	case p.Role.IsElevated():
		out.PodNames = distinct(activity.FieldPod)
	case p.Role.IsGroupScoped():
		if groups := h.scoper.AllowedGroups(p); groups != nil {
			out.PodNames = groups
		}
	}

	return out, complete
}

// Edit applies an allow-listed field update to one tracker or legacy row.
func (h *ActivityHandler) Edit(ctx *gin.Context) {
	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		RespondBadRequest(ctx, "Malformed JSON body", nil)
		return
	}

	e, err := activity.ParseEdit(raw)
	if err != nil {
		var ee *activity.EditError
		switch {
		case errors.As(err, &ee):
			RespondBadRequest(ctx, ee.Error(), gin.H{"field": ee.Field})
		case errors.Is(err, activity.ErrNoEditFields):
			RespondBadRequest(ctx, "No fields to update", nil)
		default:
			RespondBadRequest(ctx, err.Error(), nil)
		}
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	n, err := h.store.Update(cctx, e)
	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "edit activity failed", "err", err)
		RespondInternal(ctx, "Could not update row")
		return
	}

	if n == 0 {
		RespondNotFound(ctx, "No matching row")
		return
	}

	RespondMessage(ctx, http.StatusOK, "Row updated", gin.H{"data": gin.H{"updated": n}})
}
