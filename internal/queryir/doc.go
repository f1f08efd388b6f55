// Package queryir provides an abstract query representation for reading the
// message journal.
//
// Journal reads are described as small query trees instead of SQL strings,
// and compiled to SQL by package querysql:
//
//	[MessageFilter] → [Query IR] → [SQL Backend]
//
// The IR is deliberately narrow:
//   - Select(from, columns, filter, order, limit) over one journal table
//   - Predicates: Equals, Compare (>= and <=), And
//   - Explicit column lists (no SELECT *)
//
// It excludes joins, OR, NULL comparisons, aggregation and subqueries.
// Session summaries, which need GROUP BY, are written as SQL in the store.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so backends can switch on
// them exhaustively.
//
// SCHEMA:
//
// Every table and column a query may name is listed in Tables, together with
// the kind of value it holds. Validate rejects queries that name anything
// else. Column names are the only part of a query a backend interpolates into
// SQL; values are always bound as parameters.
//
// DETERMINISTIC ORDERING:
//
// A compiled query always ends its ORDER BY with the table's primary key, so
// two reads of the same journal return rows in the same order.
package queryir
