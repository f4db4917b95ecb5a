package activity

import "github.com/rakshithjm97/ivms3/internal/query"

// Logical fields shared by every activity table.
var (
	FieldID            = query.Field{Name: "id", SQLType: "text"}
	FieldSource        = query.Field{Name: "source", SQLType: "text"}
	FieldEmail         = query.Field{Name: "email", SQLType: "text"}
	FieldName          = query.Field{Name: "name", SQLType: "text"}
	FieldPod           = query.Field{Name: "pod_name", SQLType: "text"}
	FieldMode          = query.Field{Name: "mode_of_functioning", SQLType: "text"}
	FieldProduct       = query.Field{Name: "product", SQLType: "text"}
	FieldProject       = query.Field{Name: "project_name", SQLType: "text"}
	FieldNatureOfWork  = query.Field{Name: "nature_of_work", SQLType: "text"}
	FieldTask          = query.Field{Name: "task", SQLType: "text"}
	FieldHours         = query.Field{Name: "dedicated_hours", SQLType: "numeric"}
	FieldRemarks       = query.Field{Name: "remarks", SQLType: "text"}
	FieldActivityDate  = query.Field{Name: "activity_date", SQLType: "date"}
	FieldSubmittedAt   = query.Field{Name: "submitted_at", SQLType: "timestamptz"}
	FieldSubmittedDate = query.Field{Name: "submitted_date", SQLType: "date"}
)

// RecordFields is the projection order Record rows are scanned in.
var RecordFields = []query.Field{
	FieldID, FieldSource, FieldEmail, FieldName, FieldPod, FieldMode, FieldProduct, FieldProject,
	FieldNatureOfWork, FieldTask, FieldHours, FieldRemarks, FieldActivityDate, FieldSubmittedAt,
}

type Source string

const (
	SourceLegacy       Source = "legacy"
	SourceTracker      Source = "tracker"
	SourceDaily        Source = "daily"
	SourceResource     Source = "resource"
	SourceResourcePlan Source = "resource_plan"
)

var (
	Legacy = query.Table{Name: "daily_activity", Columns: map[query.Field]string{
		FieldID:            "id",
		FieldSource:        "'legacy'::text",
		FieldEmail:         "email",
		FieldName:          "name",
		FieldPod:           "pod_name",
		FieldMode:          "mode_of_functioning",
		FieldProduct:       "product",
		FieldProject:       "project_name",
		FieldNatureOfWork:  "nature_of_work",
		FieldTask:          "task",
		FieldHours:         "dedicated_hours",
		FieldRemarks:       "remarks",
		FieldActivityDate:  "activity_date::date",
		FieldSubmittedAt:   "submitted_at",
		FieldSubmittedDate: "submitted_at::date",
	}}

	// the tracker table records no display name
	Tracker = query.Table{Name: "daily_tracker_table", Columns: map[query.Field]string{
		FieldID:            "id",
		FieldSource:        "'tracker'::text",
		FieldEmail:         "email",
		FieldPod:           "pod_name",
		FieldMode:          "mode_of_functioning",
		FieldProduct:       "product",
		FieldProject:       "project_name",
		FieldNatureOfWork:  "nature_of_work",
		FieldTask:          "task",
		FieldHours:         "dedicated_hours",
		FieldRemarks:       "remarks",
		FieldActivityDate:  "activity_date",
		FieldSubmittedAt:   "submitted_at",
		FieldSubmittedDate: "submitted_at::date",
	}}

	// daily entries have no product; created_at stands in for the submission time
	Daily = query.Table{Name: "daily_activity_new", Columns: map[query.Field]string{
		FieldID:            "id::text",
		FieldSource:        "'daily'::text",
		FieldEmail:         "email",
		FieldName:          "name",
		FieldPod:           "pod_name",
		FieldMode:          "mode_of_functioning",
		FieldProject:       "project_name",
		FieldNatureOfWork:  "nature_of_work",
		FieldTask:          "task",
		FieldHours:         "dedicated_hours",
		FieldRemarks:       "remarks",
		FieldActivityDate:  "activity_date",
		FieldSubmittedAt:   "created_at",
		FieldSubmittedDate: "created_at::date",
	}}

	Resource = query.Table{Name: "resource_table", Columns: resourceColumns(SourceResource)}

	ResourcePlan = query.Table{Name: "resource_planning_table", Columns: resourceColumns(SourceResourcePlan)}
)

func resourceColumns(src Source) map[query.Field]string {
	return map[query.Field]string{
		FieldID:            "id",
		FieldSource:        "'" + string(src) + "'::text",
		FieldEmail:         "email",
		FieldPod:           "pod_name",
		FieldMode:          "mode_of_functioning",
		FieldProduct:       "product",
		FieldProject:       "project_name",
		FieldNatureOfWork:  "nature_of_work",
		FieldTask:          "task",
		FieldActivityDate:  "activity_date",
		FieldSubmittedAt:   "submitted_at",
		FieldSubmittedDate: "submitted_at::date",
	}
}

// ListSources returns the tables behind the combined activity listing.
func ListSources(useBoth bool) []query.Table {
	if useBoth {
		return []query.Table{Legacy, Tracker}
	}
	return []query.Table{Legacy}
}

// ReportSources adds the daily entries to the listing sources for performance reporting.
func ReportSources(useBoth bool) []query.Table {
	return append(ListSources(useBoth), Daily)
}

// EditTable resolves the table an edit request targets. The tracker table is the default.
func EditTable(src Source) (query.Table, bool) {
	switch src {
	case "", SourceTracker:
		return Tracker, true
	case SourceLegacy:
		return Legacy, true
	default:
		return query.Table{}, false
	}
}
