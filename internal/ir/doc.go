// Package ir provides the canonical intermediate representation for machine
// definitions and journal records.
//
// This package contains type definitions, canonical JSON and content hashing
// only. All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - All JSON tags use snake_case
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - Identity is content-addressed: equal definitions share a key ID
package ir
