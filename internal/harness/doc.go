// Package harness provides conformance testing for enigma machine definitions.
//
// The harness loads a machine definition, runs a scenario of operations
// through the engine against a fresh in-memory journal, and checks the
// resulting transcript.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: hello_world
//	description: "What this scenario validates"
//	config: ../machines/army.cue
//	machine: army
//	session: golden-session-0001
//	steps:
//	  - op: encipher
//	    input: "HELLO WORLD"
//	    expect:
//	      output: "EVONZ YQPOQ"
//	      windows: KAA
//	  - op: reset
//	assertions:
//	  - type: round_trip
//	    input: "Attack at dawn"
//	  - type: journal_count
//	    count: 2
//
// # Assertion Types
//
//   - round_trip: deciphering the ciphertext of input gives back the uppercased input
//   - windows: rotor windows after the last step
//   - journal_count: number of journaled messages, optionally of one operation
//   - passthrough: symbols outside the alphabet survive enciphering in place
//   - no_self_map: no symbol in the transcript enciphered to itself
//
// # Deterministic Testing
//
// The harness uses:
//   - Fixed session tokens (from scenario.session or "test-session-default")
//   - Deterministic logical clock (testutil.DeterministicClock)
//   - In-memory SQLite database (isolated per run)
//
// This ensures identical transcripts across runs for golden file comparison.
package harness
