package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/enigma/internal/ir"
)

// SessionSummary describes one journaled session.
type SessionSummary struct {
	Session  string `json:"session"`
	KeyID    string `json:"key_id"`
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	LastSeq  int64  `json:"last_seq"`
}

const messageColumns = `id, session, key_id, operation, input, output, seq, windows, engine_version, ir_version`

// ReadKey retrieves a machine key by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadKey(ctx context.Context, keyID string) (ir.MachineKey, error) {
	var name, specJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, spec
		FROM machine_keys
		WHERE key_id = ?
	`, keyID).Scan(&name, &specJSON)
	if err != nil {
		return ir.MachineKey{}, err
	}

	spec, err := unmarshalSpec(name, specJSON)
	if err != nil {
		return ir.MachineKey{}, fmt.Errorf("read key %s: %w", keyID, err)
	}
	return ir.MachineKey{KeyID: keyID, Spec: spec}, nil
}

// ReadMessage retrieves a single message by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadMessage(ctx context.Context, id string) (ir.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE id = ?
	`, id)

	return scanMessage(row)
}

// ReadSession returns all messages of a session in journal order
// (seq ASC, id ASC COLLATE BINARY).
//
// Returns an empty slice (not nil) if the session has no messages.
func (s *Store) ReadSession(ctx context.Context, session string) ([]ir.Message, error) {
	return s.QueryMessages(ctx, MessageFilter{Session: session})
}

// ListSessions returns a summary of every journaled session, ordered by
// session token.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.session, MIN(m.key_id), MIN(k.name), COUNT(*), MAX(m.seq)
		FROM messages m
		JOIN machine_keys k ON k.key_id = m.key_id
		GROUP BY m.session
		ORDER BY m.session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.Session, &sum.KeyID, &sum.Name, &sum.Messages, &sum.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// LatestSeq returns the highest seq journaled for a session, or 0 if the
// session has no messages. An engine resuming a session starts its clock here.
func (s *Store) LatestSeq(ctx context.Context, session string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0)
		FROM messages
		WHERE session = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	return seq, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (ir.Message, error) {
	var msg ir.Message
	var op string
	err := row.Scan(
		&msg.ID,
		&msg.Session,
		&msg.KeyID,
		&op,
		&msg.Input,
		&msg.Output,
		&msg.Seq,
		&msg.Windows,
		&msg.EngineVersion,
		&msg.IRVersion,
	)
	if err == sql.ErrNoRows {
		return ir.Message{}, err
	}
	if err != nil {
		return ir.Message{}, fmt.Errorf("scan message: %w", err)
	}
	msg.Operation = ir.Operation(op)
	return msg, nil
}
