package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/enigma/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSpec() ir.MachineSpec {
	return ir.MachineSpec{
		Name:      "army",
		Reflector: "YRUHQSLDPXNGOKMIEBFZCWVJAT",
		Rotors: []ir.RotorSpec{
			{Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ"},
			{Wiring: "AJDKSIRUXBLHWTMCQGZNPYFVOE", Offset: 5},
			{Wiring: "BDFHJLCPRTXVZNYEIWGAKMUSQO"},
		},
	}
}

// testKey returns the key for testSpec.
func testKey(t *testing.T) ir.MachineKey {
	t.Helper()
	spec := testSpec()
	id, err := ir.KeyID(spec)
	if err != nil {
		t.Fatalf("KeyID() failed: %v", err)
	}
	return ir.MachineKey{KeyID: id, Spec: spec}
}

// createTestMessage creates a test message with minimal required fields.
func createTestMessage(id, session, keyID string, seq int64) ir.Message {
	return ir.Message{
		ID:            id,
		Session:       session,
		KeyID:         keyID,
		Operation:     ir.OpEncipher,
		Input:         "HELLO",
		Output:        "EVONZ",
		Seq:           seq,
		Windows:       "FFA",
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}
