package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
)

// firstQuery returns the first non-empty value among the given query keys.
func firstQuery(ctx *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(ctx.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

// dateRange reads start_date / end_date (or date_from / date_to). The end bound covers the
// whole of its day.
func dateRange(ctx *gin.Context) (from, to *time.Time, err error) {
	if v := firstQuery(ctx, "start_date", "date_from"); v != "" {
		d, err := activity.ParseDay(v)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}

	if v := firstQuery(ctx, "end_date", "date_to"); v != "" {
		d, err := activity.ParseDay(v)
		if err != nil {
			return nil, nil, err
		}
		end := d.Add(24*time.Hour - time.Second)
		to = &end
	}

	return from, to, nil
}

// filterFromQuery maps the listing query string onto an access.Filter.
func filterFromQuery(ctx *gin.Context) (access.Filter, error) {
	from, to, err := dateRange(ctx)
	if err != nil {
		return access.Filter{}, err
	}

	return access.Filter{
		Group:        firstQuery(ctx, "pod_name", "podName"),
		Email:        firstQuery(ctx, "email"),
		Product:      firstQuery(ctx, "product"),
		Project:      firstQuery(ctx, "project_name", "projectName"),
		NatureOfWork: firstQuery(ctx, "nature_of_work", "natureOfWork"),
		Task:         firstQuery(ctx, "task"),
		From:         from,
		To:           to,
	}, nil
}
