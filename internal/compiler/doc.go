// Package compiler turns machine definitions into IR and IR into machines.
//
// Definitions are authored in CUE:
//
//	machine: army: {
//		reflector: "YRUHQSLDPXNGOKMIEBFZCWVJAT"
//		rotors: [
//			{wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", offset: 0},
//			{wiring: "AJDKSIRUXBLHWTMCQGZNPYFVOE", offset: 5},
//		]
//		stepping: "odometer" // optional; "legacy" reproduces the reference machine
//		alphabet: "ABC..."   // optional; defaults to A-Z
//	}
//
// or in YAML with the same shape under a top-level `machines:` map.
//
// Each CUE definition is unified with the embedded #Machine schema, which
// closes the struct against typos and checks field types. Semantic checks
// (bijective wiring, involutive reflector, offsets in range) are done by
// Validate, which reports every problem rather than the first.
package compiler
