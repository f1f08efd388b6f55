package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/store"
)

// Mismatch is one difference between a journaled message and its re-run.
type Mismatch struct {
	Seq   int64  `json:"seq"`
	ID    string `json:"id"`
	Field string `json:"field"` // "id", "output" or "windows"
	Want  string `json:"want"`
	Got   string `json:"got"`
}

// ReplayResult reports a replay of one session.
type ReplayResult struct {
	Session    string     `json:"session"`
	KeyID      string     `json:"key_id"`
	Machine    string     `json:"machine"`
	Messages   int        `json:"messages"`
	Mismatches []Mismatch `json:"mismatches"`
}

// ReplayOption configures Replay.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	logger *slog.Logger
}

// ReplayLogger sets the logger replay outcomes are reported to.
// Default: slog.Default().
func ReplayLogger(l *slog.Logger) ReplayOption {
	return func(c *replayConfig) {
		c.logger = l
	}
}

// Replay rebuilds the machine from a session's journaled key and re-runs
// every message in journal order on one fresh machine. The machine's state
// is never read from the journal; it is reconstructed.
//
// Returns the result together with a *RuntimeError{Code: REPLAY_MISMATCH}
// if any output, window or message ID differs, and
// *RuntimeError{Code: SESSION_NOT_FOUND} if the session has no messages.
func Replay(ctx context.Context, s *store.Store, session string, opts ...ReplayOption) (*ReplayResult, error) {
	cfg := replayConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	state, err := s.GetSessionState(ctx, session)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, NewSessionNotFoundError(session)
	}
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	machine, err := compiler.Build(state.Key.Spec)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	result := &ReplayResult{
		Session:    session,
		KeyID:      state.Key.KeyID,
		Machine:    state.Key.Spec.Name,
		Messages:   len(state.Messages),
		Mismatches: []Mismatch{},
	}

	for _, want := range state.Messages {
		output := apply(machine, want.Operation, want.Input)
		got, err := newMessage(session, want.KeyID, want.Operation, want.Input, output, want.Seq, machine.Windows())
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}

		check := func(field, w, g string) {
			if w != g {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Seq: want.Seq, ID: want.ID, Field: field, Want: w, Got: g,
				})
			}
		}
		check("id", want.ID, got.ID)
		check("output", want.Output, got.Output)
		check("windows", want.Windows, got.Windows)
	}

	if len(result.Mismatches) > 0 {
		cfg.logger.Warn("replay mismatch",
			"session", session,
			"mismatches", len(result.Mismatches),
			"first_seq", result.Mismatches[0].Seq,
		)
		return result, NewReplayMismatchError(session, result.Mismatches)
	}

	cfg.logger.Debug("replay ok", "session", session, "messages", result.Messages)
	return result, nil
}
