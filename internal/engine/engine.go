package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/enigma/internal/cipher"
	"github.com/roach88/enigma/internal/compiler"
	"github.com/roach88/enigma/internal/ir"
	"github.com/roach88/enigma/internal/store"
)

// Engine binds one compiled machine to a session and, optionally, a journal.
//
// Every operation is stamped with the next value of the logical clock and
// recorded as an ir.Message. With a store configured the message is written
// before the operation returns.
//
// Thread-safety: all methods are safe for concurrent use. Operations are
// serialised by an internal mutex because the machine is stateful and the
// journal order must match the order the machine saw the text.
type Engine struct {
	mu sync.Mutex

	spec    ir.MachineSpec
	keyID   string
	machine *cipher.Machine

	store      *store.Store
	clock      LogicalClock
	sessionGen SessionGenerator
	session    string
	logger     *slog.Logger

	// prepared is set once the key is journaled and any existing session
	// messages have been re-run.
	prepared bool
}

// LogicalClock stamps messages with seq numbers.
// Implemented by Clock and testutil.DeterministicClock.
type LogicalClock interface {
	Next() int64
	Current() int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore journals every message to s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithClock sets the logical clock. Without it a store-backed engine starts
// from the session's latest journaled seq and an in-memory engine from 0.
// A supplied clock must already be at or past the session's latest
// journaled seq; otherwise the first operation fails with
// CLOCK_BEHIND_JOURNAL.
func WithClock(c LogicalClock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithSessionGenerator sets the generator used when no session is given.
// Default: UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) {
		e.sessionGen = g
	}
}

// WithSession continues an existing session. If the journal already holds
// messages for it, they are re-run so the machine resumes where it stopped.
func WithSession(session string) Option {
	return func(e *Engine) {
		e.session = session
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New builds the machine described by spec and returns an engine for it.
// Configuration errors are returned as wrapped *cipher.ConfigError.
func New(spec ir.MachineSpec, opts ...Option) (*Engine, error) {
	machine, err := compiler.Build(spec)
	if err != nil {
		return nil, err
	}

	keyID, err := ir.KeyID(spec)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		spec:       spec,
		keyID:      keyID,
		machine:    machine,
		sessionGen: UUIDv7Generator{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.session == "" {
		e.session = e.sessionGen.Generate()
	}

	return e, nil
}

// Session returns the session token messages are recorded under.
func (e *Engine) Session() string {
	return e.session
}

// KeyID returns the content-addressed ID of the machine configuration.
func (e *Engine) KeyID() string {
	return e.keyID
}

// Spec returns the machine definition.
func (e *Engine) Spec() ir.MachineSpec {
	return e.spec
}

// Windows returns the current rotor windows, fast rotor first.
func (e *Engine) Windows() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Windows()
}

// Positions returns a snapshot of every rotor.
func (e *Engine) Positions() []cipher.RotorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Positions()
}

// Encipher runs text through the machine from its current state.
func (e *Engine) Encipher(ctx context.Context, text string) (ir.Message, error) {
	return e.do(ctx, ir.OpEncipher, text)
}

// Decipher resets the machine and runs text through it.
func (e *Engine) Decipher(ctx context.Context, text string) (ir.Message, error) {
	return e.do(ctx, ir.OpDecipher, text)
}

// Reset returns every rotor to its initial offset.
func (e *Engine) Reset(ctx context.Context) (ir.Message, error) {
	return e.do(ctx, ir.OpReset, "")
}

func (e *Engine) do(ctx context.Context, op ir.Operation, input string) (ir.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.prepare(ctx); err != nil {
		return ir.Message{}, err
	}

	output := apply(e.machine, op, input)

	msg, err := newMessage(e.session, e.keyID, op, input, output, e.clock.Next(), e.machine.Windows())
	if err != nil {
		return ir.Message{}, err
	}

	if e.store != nil {
		if err := e.store.WriteMessage(ctx, msg); err != nil {
			return ir.Message{}, fmt.Errorf("journal %s seq %d: %w", op, msg.Seq, err)
		}
	}

	e.logger.Debug("message processed",
		"session", msg.Session,
		"operation", msg.Operation,
		"seq", msg.Seq,
		"windows", msg.Windows,
		"length", len(input),
	)

	return msg, nil
}

// prepare journals the key and catches the machine up with any messages
// already recorded for the session. Runs once, under e.mu. The machine is
// only touched after the session's key and seq range have been checked.
func (e *Engine) prepare(ctx context.Context) error {
	if e.prepared {
		return nil
	}

	var messages []ir.Message
	if e.store != nil {
		if err := e.store.WriteKey(ctx, ir.MachineKey{KeyID: e.keyID, Spec: e.spec}); err != nil {
			return err
		}

		var err error
		messages, err = e.store.ReadSession(ctx, e.session)
		if err != nil {
			return err
		}
		for _, msg := range messages {
			if msg.KeyID != e.keyID {
				return &RuntimeError{
					Code:    ErrCodeSessionKeyMismatch,
					Message: fmt.Sprintf("session is bound to key %s", msg.KeyID),
					Session: e.session,
					Seq:     msg.Seq,
				}
			}
		}
	}

	var lastSeq int64
	if len(messages) > 0 {
		lastSeq = messages[len(messages)-1].Seq
	}
	if e.clock == nil {
		e.clock = NewClockAt(lastSeq)
	} else if err := checkClock(e.clock, e.session, lastSeq); err != nil {
		return err
	}

	for _, msg := range messages {
		apply(e.machine, msg.Operation, msg.Input)
	}
	if len(messages) > 0 {
		e.logger.Info("session resumed",
			"session", e.session,
			"messages", len(messages),
			"windows", e.machine.Windows(),
		)
	}

	e.prepared = true
	return nil
}

// apply performs one journaled operation on m and returns its output.
func apply(m *cipher.Machine, op ir.Operation, input string) string {
	switch op {
	case ir.OpDecipher:
		return m.Decipher(input)
	case ir.OpReset:
		m.Reset()
		return ""
	default:
		return m.Encipher(input)
	}
}

func newMessage(session, keyID string, op ir.Operation, input, output string, seq int64, windows string) (ir.Message, error) {
	id, err := ir.MessageID(session, keyID, op, input, seq)
	if err != nil {
		return ir.Message{}, err
	}
	return ir.Message{
		ID:            id,
		Session:       session,
		KeyID:         keyID,
		Operation:     op,
		Input:         input,
		Output:        output,
		Seq:           seq,
		Windows:       windows,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}, nil
}
