package store

import (
	"context"
	"fmt"

	"github.com/roach88/enigma/internal/ir"
)

// WriteKey inserts a machine key into the store.
// Uses ON CONFLICT(key_id) DO NOTHING for idempotency: the same configuration
// written under a second name keeps the first name.
//
// The key ID is recomputed from the spec and must match key.KeyID.
func (s *Store) WriteKey(ctx context.Context, key ir.MachineKey) error {
	want, err := ir.KeyID(key.Spec)
	if err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	if key.KeyID != want {
		return fmt.Errorf("write key: key id %s does not match spec (want %s)", key.KeyID, want)
	}

	specJSON, err := marshalSpec(key.Spec)
	if err != nil {
		return fmt.Errorf("write key: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO machine_keys (key_id, name, spec)
		VALUES (?, ?, ?)
		ON CONFLICT(key_id) DO NOTHING
	`, key.KeyID, key.Spec.Name, specJSON)
	if err != nil {
		return fmt.Errorf("write key: %w", err)
	}

	return nil
}

// WriteMessage inserts a message record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (a second message at the same session seq,
// an unknown key) still return errors.
//
// Note: The key referenced by KeyID must exist (foreign key constraint).
func (s *Store) WriteMessage(ctx context.Context, msg ir.Message) error {
	if !ir.ValidOperations[msg.Operation] {
		return fmt.Errorf("write message: unknown operation %q", msg.Operation)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages
		(id, session, key_id, operation, input, output, seq, windows, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		msg.ID,
		msg.Session,
		msg.KeyID,
		string(msg.Operation),
		msg.Input,
		msg.Output,
		msg.Seq,
		msg.Windows,
		msg.EngineVersion,
		msg.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}
