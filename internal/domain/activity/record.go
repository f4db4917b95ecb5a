// Package activity defines the logical activity record read from the tracker, legacy, daily and
// resource tables, the submission payloads that write to them and the per-submitter report.
package activity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateEntry = errors.New("activity: entry already exists")
	ErrNoEditFields   = errors.New("activity: no fields to update")
)

// Record is one activity row in the logical shape. Columns a source table lacks are nil.
type Record struct {
	ID                string              `json:"id"`
	Source            Source              `json:"source"`
	Email             string              `json:"email"`
	Name              *string             `json:"name"`
	PodName           *string             `json:"podName"`
	ModeOfFunctioning *string             `json:"modeOfFunctioning"`
	Product           *string             `json:"product"`
	ProjectName       *string             `json:"projectName"`
	NatureOfWork      *string             `json:"natureOfWork"`
	Task              *string             `json:"task"`
	DedicatedHours    decimal.NullDecimal `json:"dedicatedHours"`
	Remarks           *string             `json:"remarks"`
	ActivityDate      *time.Time          `json:"activityDate"`
	SubmittedAt       *time.Time          `json:"submittedAt"`
}

// ScanTargets returns pointers in RecordFields order.
func (r *Record) ScanTargets() []any {
	return []any{
		&r.ID, &r.Source, &r.Email, &r.Name, &r.PodName, &r.ModeOfFunctioning, &r.Product,
		&r.ProjectName, &r.NatureOfWork, &r.Task, &r.DedicatedHours, &r.Remarks,
		&r.ActivityDate, &r.SubmittedAt,
	}
}

// Hours returns the dedicated hours, zero when unset.
func (r Record) Hours() decimal.Decimal {
	if !r.DedicatedHours.Valid {
		return decimal.Zero
	}
	return r.DedicatedHours.Decimal
}

// MarshalJSON writes dedicated hours as a JSON number, or null when unset.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record

	var hours *json.Number
	if r.DedicatedHours.Valid {
		n := json.Number(r.DedicatedHours.Decimal.String())
		hours = &n
	}

	return json.Marshal(struct {
		plain
		DedicatedHours *json.Number `json:"dedicatedHours"`
	}{plain: plain(r), DedicatedHours: hours})
}

// Filters holds the dropdown values offered to a caller.
type Filters struct {
	Products     []string `json:"products"`
	ProjectNames []string `json:"projectNames"`
	NatureOfWork []string `json:"natureOfWork"`
	Tasks        []string `json:"tasks"`
	PodNames     []string `json:"podNames"`
}

func EmptyFilters() Filters {
	return Filters{
		Products:     []string{},
		ProjectNames: []string{},
		NatureOfWork: []string{},
		Tasks:        []string{},
		PodNames:     []string{},
	}
}
