// Package engine runs a compiled cipher machine for one session and
// journals what it did.
//
// ARCHITECTURE:
//
// An Engine owns exactly one cipher.Machine. Each Encipher, Decipher or
// Reset call:
// 1. runs the operation on the machine
// 2. stamps it with the next seq from the logical Clock
// 3. computes a content-addressed message ID
// 4. writes the message to the store (if one is configured)
//
// Replay is the inverse: it rebuilds the machine from the journaled key,
// re-runs every message in seq order and compares outputs, windows and IDs.
// Machine state is never stored, so a successful replay shows the journal
// alone determines the transcript.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// All messages stamped with monotonic seq counter from Clock.Next().
// NEVER use wall-clock timestamps for ordering.
//
// Deterministic Scheduling:
// Operations on one engine are serialised. The journal order is the order
// the machine saw the text.
package engine
