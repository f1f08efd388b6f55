package queryir

import "github.com/roach88/enigma/internal/ir"

// Query represents an abstract query in the IR.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: column = literal
//   - Compare: column >= literal, column <= literal
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select reads rows of one table.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter>
//	ORDER BY <order_by...>, <primary key> LIMIT <limit>
//
// Example:
//
//	Select{
//	  From:    "messages",
//	  Columns: []string{"id", "seq", "output"},
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: "session", Value: ir.IRString("s1")},
//	    Compare{Field: "seq", Op: AtLeast, Value: ir.IRInt(3)},
//	  }},
//	  OrderBy: []string{"seq"},
//	}
//
// Translates to SQL:
//
//	SELECT id, seq, output FROM messages
//	WHERE session = ? AND seq >= ?
//	ORDER BY seq ASC, id ASC COLLATE BINARY
type Select struct {
	From    string    // Table name, must be in Tables
	Columns []string  // Columns to return, in scan order
	Filter  Predicate // WHERE conditions (nil = no filter)
	OrderBy []string  // Ascending sort columns; the primary key is always appended
	Limit   int       // Maximum rows (0 = no limit)
}

func (Select) queryNode() {}

// Equals represents a column-equals-literal predicate.
//
// Example:
//
//	Equals{Field: "operation", Value: ir.IRString("encipher")}
//
// Translates to SQL:
//
//	operation = ?
type Equals struct {
	Field string     // Column name
	Value ir.IRValue // IRString or IRInt, matching the column kind
}

func (Equals) predicateNode() {}

// CompareOp is an ordering comparison.
type CompareOp string

const (
	AtLeast CompareOp = ">="
	AtMost  CompareOp = "<="
)

// Compare represents an inclusive bound on an integer column.
//
// Example:
//
//	Compare{Field: "seq", Op: AtMost, Value: ir.IRInt(10)}
//
// Translates to SQL:
//
//	seq <= ?
type Compare struct {
	Field string
	Op    CompareOp
	Value ir.IRValue // Must be IRInt
}

func (Compare) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
