// Package query compiles typed filter criteria into positional-parameter SQL for pgx.
//
// Criteria are expressed against logical fields. Each physical table is described by a Table
// adapter that maps logical fields onto its own column expressions; a field the table lacks
// projects as a typed NULL, so a predicate on it can never match rows from that table.
package query

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrEmptyList     = errors.New("query: empty list for IN criterion")
	ErrNoSources     = errors.New("query: no tables to select from")
	ErrUnknownOp     = errors.New("query: unknown operator")
	ErrNoAssignments = errors.New("query: nothing to update")
	ErrUnknownColumn = errors.New("query: table has no column for field")
)

// Field is a logical column. SQLType is used for typed NULL projections.
type Field struct {
	Name    string
	SQLType string
}

type Op int

const (
	OpEq Op = iota
	OpIn
	OpGte
	OpLte
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpIn:
		return "IN"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	default:
		return "?"
	}
}

type Criterion struct {
	Field Field
	Op    Op
	Value any
}

func Eq(f Field, v any) Criterion { return Criterion{Field: f, Op: OpEq, Value: v} }

func In(f Field, values []string) Criterion { return Criterion{Field: f, Op: OpIn, Value: values} }

func Gte(f Field, v any) Criterion { return Criterion{Field: f, Op: OpGte, Value: v} }

func Lte(f Field, v any) Criterion { return Criterion{Field: f, Op: OpLte, Value: v} }

type Criteria []Criterion

// Table adapts one physical table onto the logical field set.
type Table struct {
	Name    string
	Columns map[Field]string
}

// Column returns the SQL expression for f, or a typed NULL when the table lacks it.
func (t Table) Column(f Field) string {
	if expr, ok := t.Columns[f]; ok {
		return expr
	}
	return "NULL::" + f.SQLType
}

func (t Table) Has(f Field) bool {
	_, ok := t.Columns[f]
	return ok
}

// bind validates the criteria and returns their bound values. Criterion i is always
// parameter $(base+i), so the same placeholders can be reused on every side of a union.
func (c Criteria) bind() ([]any, error) {
	args := make([]any, 0, len(c))

	for _, cr := range c {
		switch cr.Op {
		case OpEq, OpGte, OpLte:
			if cr.Value == nil {
				return nil, fmt.Errorf("query: nil value for %s %s", cr.Field.Name, cr.Op)
			}
		case OpIn:
			if listLen(cr.Value) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrEmptyList, cr.Field.Name)
			}
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownOp, cr.Op)
		}
		args = append(args, cr.Value)
	}

	return args, nil
}

// where renders the predicate for one table. base is the first parameter number.
func (c Criteria) where(t Table, base int) string {
	if len(c) == 0 {
		return "TRUE"
	}

	conds := make([]string, 0, len(c))

	for i, cr := range c {
		col := t.Column(cr.Field)
		// placeholders carry an explicit cast so every union side deduces the same type
		ph := "$" + strconv.Itoa(base+i) + "::" + cr.Field.SQLType

		switch cr.Op {
		case OpIn:
			conds = append(conds, col+" = ANY("+ph+"[])")
		default:
			conds = append(conds, col+" "+cr.Op.String()+" "+ph)
		}
	}

	return strings.Join(conds, " AND ")
}

func listLen(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0
	}
	return rv.Len()
}
