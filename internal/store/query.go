package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/queryir"
	"github.com/roach88/enigma/internal/querysql"
)

// MessageFilter selects journaled messages. Zero-valued fields match
// everything; set fields are combined with AND.
type MessageFilter struct {
	Session   string
	KeyID     string
	Operation ir.Operation
	FromSeq   int64 // Inclusive lower bound on seq (0 = none)
	ToSeq     int64 // Inclusive upper bound on seq (0 = none)
	Limit     int   // Maximum messages (0 = no limit)
}

// Query returns the filter as a journal query. Messages come back in
// journal order: session, then seq, then id.
func (f MessageFilter) Query() queryir.Select {
	var preds []queryir.Predicate
	if f.Session != "" {
		preds = append(preds, queryir.Equals{Field: "session", Value: ir.IRString(f.Session)})
	}
	if f.KeyID != "" {
		preds = append(preds, queryir.Equals{Field: "key_id", Value: ir.IRString(f.KeyID)})
	}
	if f.Operation != "" {
		preds = append(preds, queryir.Equals{Field: "operation", Value: ir.IRString(f.Operation)})
	}
	if f.FromSeq > 0 {
		preds = append(preds, queryir.Compare{Field: "seq", Op: queryir.AtLeast, Value: ir.IRInt(f.FromSeq)})
	}
	if f.ToSeq > 0 {
		preds = append(preds, queryir.Compare{Field: "seq", Op: queryir.AtMost, Value: ir.IRInt(f.ToSeq)})
	}

	q := queryir.Select{
		From:    "messages",
		Columns: strings.Split(messageColumns, ", "),
		OrderBy: []string{"session", "seq"},
		Limit:   f.Limit,
	}
	switch len(preds) {
	case 0:
	case 1:
		q.Filter = preds[0]
	default:
		q.Filter = queryir.And{Predicates: preds}
	}
	return q
}

// QueryMessages returns the messages matching filter in journal order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) QueryMessages(ctx context.Context, filter MessageFilter) ([]ir.Message, error) {
	if filter.Operation != "" && !ir.ValidOperations[filter.Operation] {
		return nil, fmt.Errorf("invalid operation %q", filter.Operation)
	}

	query, params, err := querysql.NewSQLCompiler().Compile(filter.Query())
	if err != nil {
		return nil, fmt.Errorf("compile message query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []ir.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
