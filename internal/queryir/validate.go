package queryir

import (
	"fmt"

	"github.com/roach88/enigma/internal/ir"
)

// ValidationResult lists every problem found in a query.
type ValidationResult struct {
	// Valid is true when Errors is empty.
	Valid bool

	// Errors describes each problem, in traversal order.
	Errors []string
}

// Validate checks a query against Tables.
//
// Rules:
//  1. The table must exist and every named column must belong to it
//  2. Columns must be listed explicitly (no SELECT *)
//  3. Equals values must match the column kind; nil values are rejected
//  4. Compare applies only to integer columns, with AtLeast or AtMost
//  5. Limit must not be negative
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		errors: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		Valid:  len(v.errors) == 0,
		Errors: v.errors,
	}
}

// validator accumulates errors during traversal.
type validator struct {
	table  Table
	errors []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addError("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	default:
		v.addError("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	table, ok := LookupTable(sel.From)
	if !ok {
		v.addError("unknown table %q", sel.From)
		return
	}
	v.table = table

	if len(sel.Columns) == 0 {
		v.addError("no columns selected - list columns explicitly")
	}
	for _, col := range sel.Columns {
		v.column(col)
	}
	for _, col := range sel.OrderBy {
		v.column(col)
	}
	if sel.Limit < 0 {
		v.addError("negative limit %d", sel.Limit)
	}

	v.validatePredicate(sel.Filter)
}

// column checks that name belongs to the current table and returns its kind.
func (v *validator) column(name string) (Kind, bool) {
	kind, ok := v.table.Columns[name]
	if !ok {
		v.addError("unknown column %q in table %s", name, v.table.Name)
	}
	return kind, ok
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		// No filter
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case Compare:
		v.validateCompare(pred)
	case *Compare:
		v.validateCompare(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addError("unknown predicate type: %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	kind, ok := v.column(eq.Field)
	if !ok {
		return
	}
	if !kindMatches(kind, eq.Value) {
		v.addError("column %q holds %s, compared to %T", eq.Field, kind, eq.Value)
	}
}

func (v *validator) validateCompare(cmp Compare) {
	if cmp.Op != AtLeast && cmp.Op != AtMost {
		v.addError("unknown comparison %q on column %q", cmp.Op, cmp.Field)
	}
	kind, ok := v.column(cmp.Field)
	if !ok {
		return
	}
	if kind != KindInt {
		v.addError("column %q holds %s, only int columns can be compared", cmp.Field, kind)
		return
	}
	if !kindMatches(kind, cmp.Value) {
		v.addError("column %q holds %s, compared to %T", cmp.Field, kind, cmp.Value)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}

func kindMatches(kind Kind, value ir.IRValue) bool {
	switch value.(type) {
	case ir.IRString:
		return kind == KindString
	case ir.IRInt:
		return kind == KindInt
	default:
		return false
	}
}
