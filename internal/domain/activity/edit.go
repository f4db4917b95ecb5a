package activity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rakshithjm97/ivms3/internal/query"
	"github.com/shopspring/decimal"
)

// EditableFields is the allow-list of columns an edit may change. Anything else in the
// request is ignored.
var EditableFields = map[string]query.Field{
	FieldPod.Name:          FieldPod,
	FieldMode.Name:         FieldMode,
	FieldProduct.Name:      FieldProduct,
	FieldNatureOfWork.Name: FieldNatureOfWork,
	FieldTask.Name:         FieldTask,
	FieldHours.Name:        FieldHours,
	FieldRemarks.Name:      FieldRemarks,
}

// EditError reports a malformed edit request.
type EditError struct {
	Field  string
	Reason string
}

func (e *EditError) Error() string {
	return e.Field + " " + e.Reason
}

// Edit is a validated field-level update. Rows are addressed either by ID or by the
// (email, project, submission date) key.
type Edit struct {
	Table         query.Table
	ID            string
	Email         string
	ProjectName   string
	SubmittedDate time.Time
	Set           []query.Assignment
}

// ParseEdit validates a decoded JSON edit request.
func ParseEdit(raw map[string]any) (Edit, error) {
	var e Edit

	src, _ := raw["source"].(string)
	table, ok := EditTable(Source(strings.TrimSpace(src)))
	if !ok {
		return Edit{}, &EditError{Field: "source", Reason: "must be tracker or legacy"}
	}
	e.Table = table

	if id, ok := stringValue(raw["id"]); ok && id != "" {
		e.ID = id
	} else {
		for _, k := range []string{"email", "project_name", "submitted_at"} {
			if v, _ := stringValue(raw[k]); v == "" {
				return Edit{}, &EditError{Field: k, Reason: "is required"}
			}
		}

		e.Email, _ = stringValue(raw["email"])
		e.ProjectName, _ = stringValue(raw["project_name"])

		submitted, _ := stringValue(raw["submitted_at"])
		d, err := ParseDay(submitted)
		if err != nil {
			return Edit{}, &EditError{Field: "submitted_at", Reason: "must be a date"}
		}
		e.SubmittedDate = d
	}

	keys := make([]string, 0, len(EditableFields))
	for k := range EditableFields {
		if _, present := raw[k]; present {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		f := EditableFields[k]
		if !table.Has(f) {
			continue
		}

		v, err := editValue(f, raw[k])
		if err != nil {
			return Edit{}, err
		}
		e.Set = append(e.Set, query.Assignment{Field: f, Value: v})
	}

	if len(e.Set) == 0 {
		return Edit{}, ErrNoEditFields
	}

	return e, nil
}

// Criteria addresses the rows the edit applies to.
func (e Edit) Criteria() query.Criteria {
	if e.ID != "" {
		return query.Criteria{query.Eq(FieldID, e.ID)}
	}
	return query.Criteria{
		query.Eq(FieldEmail, e.Email),
		query.Eq(FieldProject, e.ProjectName),
		query.Eq(FieldSubmittedDate, e.SubmittedDate),
	}
}

func editValue(f query.Field, v any) (any, error) {
	if v == nil {
		if f == FieldHours {
			return decimal.NullDecimal{}, nil
		}
		return nil, nil
	}

	if f == FieldHours {
		var d decimal.Decimal
		var err error

		switch n := v.(type) {
		case float64:
			d = decimal.NewFromFloat(n)
		case string:
			d, err = decimal.NewFromString(strings.TrimSpace(n))
		default:
			err = fmt.Errorf("unexpected %T", v)
		}
		if err != nil || d.IsNegative() {
			return nil, &EditError{Field: f.Name, Reason: "must be a non-negative number"}
		}
		return d, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, &EditError{Field: f.Name, Reason: "must be a string"}
	}
	return s, nil
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return decimal.NewFromFloat(t).String(), true
	default:
		return "", false
	}
}

// ParseDay accepts a plain date or an RFC 3339 timestamp and returns the UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return time.Time{}, err
		}
	}

	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
