package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while running or replaying a
// session.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the affected session.
	Session string

	// Seq is the logical clock value of the offending message, if any.
	Seq int64

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeReplayMismatch indicates a re-run message differs from its journal entry.
	ErrCodeReplayMismatch RuntimeErrorCode = "REPLAY_MISMATCH"

	// ErrCodeSessionNotFound indicates the journal has no messages for a session.
	ErrCodeSessionNotFound RuntimeErrorCode = "SESSION_NOT_FOUND"

	// ErrCodeSessionKeyMismatch indicates an attempt to continue a session
	// with a different machine key.
	ErrCodeSessionKeyMismatch RuntimeErrorCode = "SESSION_KEY_MISMATCH"

	// ErrCodeClockBehind indicates a supplied clock would reissue seq
	// numbers already journaled for the session.
	ErrCodeClockBehind RuntimeErrorCode = "CLOCK_BEHIND_JOURNAL"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Session != "" && e.Seq > 0 {
		return fmt.Sprintf("%s: %s (session=%s, seq=%d)", e.Code, e.Message, e.Session, e.Seq)
	}
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsReplayMismatch returns true if the error is a replay mismatch.
// Uses errors.As to handle wrapped errors.
func IsReplayMismatch(err error) bool {
	return hasCode(err, ErrCodeReplayMismatch)
}

// IsSessionNotFound returns true if the error reports an unknown session.
func IsSessionNotFound(err error) bool {
	return hasCode(err, ErrCodeSessionNotFound)
}

// IsSessionKeyMismatch returns true if a session was continued with a
// different machine key.
func IsSessionKeyMismatch(err error) bool {
	return hasCode(err, ErrCodeSessionKeyMismatch)
}

// IsClockBehind returns true if a supplied clock lags the session journal.
func IsClockBehind(err error) bool {
	return hasCode(err, ErrCodeClockBehind)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewSessionNotFoundError creates a RuntimeError for an unknown session.
func NewSessionNotFoundError(session string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeSessionNotFound,
		Message: "no journaled messages for session",
		Session: session,
	}
}

// NewReplayMismatchError creates a RuntimeError summarising replay mismatches.
// The first mismatch is reported in Seq and Details.
func NewReplayMismatchError(session string, mismatches []Mismatch) *RuntimeError {
	first := mismatches[0]
	return &RuntimeError{
		Code:    ErrCodeReplayMismatch,
		Message: fmt.Sprintf("%d message(s) differ from the journal", len(mismatches)),
		Session: session,
		Seq:     first.Seq,
		Details: map[string]string{
			"field": first.Field,
			"want":  first.Want,
			"got":   first.Got,
		},
	}
}
