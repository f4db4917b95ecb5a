package activity

import (
	"sort"

	"github.com/shopspring/decimal"
)

const unknownSubmitter = "unknown"

type ReportRow struct {
	Email      string  `json:"email"`
	Name       *string `json:"name"`
	Entries    int     `json:"entries"`
	TotalHours float64 `json:"totalHours"`
	AvgDaily   float64 `json:"avgDaily"`
}

// Aggregate groups records by submitter (email, else name, else "unknown") and totals their
// hours. Missing hours count as zero. Rows are ordered by submitter key.
func Aggregate(records []Record) []ReportRow {
	type acc struct {
		name    *string
		entries int64
		total   decimal.Decimal
	}

	byKey := make(map[string]*acc)
	for _, r := range records {
		key := submitterKey(r)

		a, ok := byKey[key]
		if !ok {
			a = &acc{name: r.Name}
			byKey[key] = a
		}
		a.entries++
		a.total = a.total.Add(r.Hours())
	}

	out := make([]ReportRow, 0, len(byKey))
	for key, a := range byKey {
		avg := decimal.Zero
		if a.entries > 0 {
			avg = a.total.Div(decimal.NewFromInt(a.entries))
		}

		out = append(out, ReportRow{
			Email:      key,
			Name:       a.name,
			Entries:    int(a.entries),
			TotalHours: a.total.Round(2).InexactFloat64(),
			AvgDaily:   avg.Round(2).InexactFloat64(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })

	return out
}

func submitterKey(r Record) string {
	if r.Email != "" {
		return r.Email
	}
	if r.Name != nil && *r.Name != "" {
		return *r.Name
	}
	return unknownSubmitter
}
