package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Select reads Fields from one or more tables. With several tables the same Where criteria are
// compiled for each side and the sides are combined with UNION ALL, then ordered and limited
// once over the combined result.
type Select struct {
	Tables  []Table
	Fields  []Field
	Where   Criteria
	OrderBy Field // descending, nulls last; zero value means no ordering
	Limit   int
}

func (s Select) SQL() (string, []any, error) {
	if len(s.Tables) == 0 {
		return "", nil, ErrNoSources
	}

	args, err := s.Where.bind()
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		parts = append(parts, "SELECT "+projection(t, s.Fields)+" FROM "+t.Name+" WHERE "+s.Where.where(t, 1))
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " UNION ALL "))

	if s.OrderBy.Name != "" {
		b.WriteString(" ORDER BY " + s.OrderBy.Name + " DESC NULLS LAST")
	}

	if s.Limit > 0 {
		args = append(args, s.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	return b.String(), args, nil
}

// Distinct lists the distinct non-empty values of Field across the tables, ordered.
type Distinct struct {
	Tables []Table
	Field  Field
	Where  Criteria
}

func (d Distinct) SQL() (string, []any, error) {
	if len(d.Tables) == 0 {
		return "", nil, ErrNoSources
	}

	args, err := d.Where.bind()
	if err != nil {
		return "", nil, err
	}

	name := d.Field.Name
	parts := make([]string, 0, len(d.Tables))
	for _, t := range d.Tables {
		parts = append(parts, "SELECT "+t.Column(d.Field)+" AS "+name+" FROM "+t.Name+" WHERE "+d.Where.where(t, 1))
	}

	sql := "SELECT DISTINCT " + name + " FROM (" + strings.Join(parts, " UNION ALL ") + ") AS v" +
		" WHERE " + name + " IS NOT NULL AND " + name + " <> '' ORDER BY " + name

	return sql, args, nil
}

type Assignment struct {
	Field Field
	Value any
}

// Update sets allow-listed fields on the rows of one table matching Where.
type Update struct {
	Table Table
	Set   []Assignment
	Where Criteria
}

func (u Update) SQL() (string, []any, error) {
	if len(u.Set) == 0 {
		return "", nil, ErrNoAssignments
	}

	args := make([]any, 0, len(u.Set)+len(u.Where))
	sets := make([]string, 0, len(u.Set))

	for _, a := range u.Set {
		col, ok := u.Table.Columns[a.Field]
		if !ok || !isPlainColumn(col) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, u.Table.Name, a.Field.Name)
		}
		args = append(args, a.Value)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	whereArgs, err := u.Where.bind()
	if err != nil {
		return "", nil, err
	}

	where := u.Where.where(u.Table, len(args)+1)
	args = append(args, whereArgs...)

	return "UPDATE " + u.Table.Name + " SET " + strings.Join(sets, ", ") + " WHERE " + where, args, nil
}

func projection(t Table, fields []Field) string {
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, t.Column(f)+" AS "+f.Name)
	}
	return strings.Join(cols, ", ")
}

// only bare column names can be assignment targets
func isPlainColumn(expr string) bool {
	if expr == "" {
		return false
	}
	for _, r := range expr {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
