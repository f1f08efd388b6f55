// Package querysql compiles journal queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/queryir"
)

// SQLCompiler compiles the query IR to parameterized SQL for SQLite.
//
// Every query ends its ORDER BY with the table's primary key.
// All values are parameterized, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error). The query is validated first; an invalid
// query is an error listing every problem.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if result := queryir.Validate(q); !result.Valid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(result.Errors, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	table, _ := queryir.LookupTable(q.From)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(q.Columns, ", "), table.Name)

	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE " + filterSQL)
		params = filterParams
	}

	sb.WriteString(" ORDER BY " + stableOrderKey(table, q.OrderBy))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, int64(q.Limit))
	}

	return sb.String(), params, nil
}

// stableOrderKey returns the ORDER BY list: the requested columns followed
// by the primary key as tiebreaker. Text columns use COLLATE BINARY so the
// order does not depend on SQLite's collation settings.
func stableOrderKey(table queryir.Table, orderBy []string) string {
	parts := make([]string, 0, len(orderBy)+1)
	seenPK := false
	for _, col := range orderBy {
		parts = append(parts, orderTerm(table, col))
		if col == table.PrimaryKey {
			seenPK = true
		}
	}
	if !seenPK {
		parts = append(parts, orderTerm(table, table.PrimaryKey))
	}
	return strings.Join(parts, ", ")
}

func orderTerm(table queryir.Table, col string) string {
	if table.Columns[col] == queryir.KindString {
		return col + " ASC COLLATE BINARY"
	}
	return col + " ASC"
}

// compilePredicate compiles a predicate to a WHERE clause fragment.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case queryir.Equals:
		return compileComparison(pred.Field, "=", pred.Value)
	case *queryir.Equals:
		return compileComparison(pred.Field, "=", pred.Value)
	case queryir.Compare:
		return compileComparison(pred.Field, string(pred.Op), pred.Value)
	case *queryir.Compare:
		return compileComparison(pred.Field, string(pred.Op), pred.Value)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileComparison(field, op string, value ir.IRValue) (string, []any, error) {
	param, err := irValueToParam(value)
	if err != nil {
		return "", nil, fmt.Errorf("convert value: %w", err)
	}
	return fmt.Sprintf("%s %s ?", field, op), []any{param}, nil
}

// compileAnd compiles an And predicate to a conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Always true (vacuous truth)
	}

	var sqlParts []string
	var allParams []any
	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// irValueToParam converts an ir.IRValue to a Go native SQL parameter.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
