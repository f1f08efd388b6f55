// Package store provides SQLite-backed durable storage for enigma message
// journals.
//
// The store implements an append-only log with:
//   - Machine keys: content-addressed cipher configurations
//   - Messages: enciphered, deciphered and reset operations per session
//
// Machine state is never persisted. A session is reconstructed by building
// the machine from its key and re-running the journal in order.
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps.
// Every query orders by seq ASC, id ASC COLLATE BINARY so that reads are
// identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All content-addressed IDs are computed via functions in internal/ir/hash.go
// using canonical JSON and SHA-256 with domain separation.
package store
