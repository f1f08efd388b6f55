package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/enigma/internal/ir"
)

// ErrSessionNotFound is returned when a session has no journaled messages.
var ErrSessionNotFound = errors.New("session not found")

// SessionState is everything needed to re-run a session from its start.
type SessionState struct {
	Session  string
	Key      ir.MachineKey
	Messages []ir.Message
	LastSeq  int64

	// Ops counts messages per operation.
	Ops map[ir.Operation]int
}

// GetSessionState loads a session's key and messages for replay.
//
// A session is bound to exactly one machine key; a journal in which a
// session's messages reference more than one key is reported as an error.
func (s *Store) GetSessionState(ctx context.Context, session string) (SessionState, error) {
	state := SessionState{
		Session: session,
		Ops:     make(map[ir.Operation]int),
	}

	messages, err := s.ReadSession(ctx, session)
	if err != nil {
		return state, fmt.Errorf("get session state: %w", err)
	}
	if len(messages) == 0 {
		return state, fmt.Errorf("get session state %s: %w", session, ErrSessionNotFound)
	}
	state.Messages = messages

	keyID := messages[0].KeyID
	for _, msg := range messages {
		if msg.KeyID != keyID {
			return state, fmt.Errorf("get session state %s: messages reference keys %s and %s",
				session, keyID, msg.KeyID)
		}
		state.Ops[msg.Operation]++
		if msg.Seq > state.LastSeq {
			state.LastSeq = msg.Seq
		}
	}

	key, err := s.ReadKey(ctx, keyID)
	if errors.Is(err, sql.ErrNoRows) {
		return state, fmt.Errorf("get session state %s: key %s missing", session, keyID)
	}
	if err != nil {
		return state, fmt.Errorf("get session state: %w", err)
	}
	state.Key = key

	return state, nil
}
