package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainKey     = "enigma/key/v1"
	DomainMessage = "enigma/message/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// KeyID computes the content-addressed ID of a machine definition.
// Two definitions with the same wiring, offsets, alphabet and stepping share
// an ID regardless of their names.
func KeyID(spec MachineSpec) (string, error) {
	canonical, err := MarshalCanonical(spec.KeyObject())
	if err != nil {
		return "", fmt.Errorf("KeyID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainKey, canonical), nil
}

// MessageID computes the content-addressed ID of a journaled operation.
// The ID is stable across replays given the same inputs.
func MessageID(session, keyID string, op Operation, input string, seq int64) (string, error) {
	obj := IRObject{
		"session":   IRString(session),
		"key_id":    IRString(keyID),
		"operation": IRString(op),
		"input":     IRString(input),
		"seq":       IRInt(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("MessageID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMessage, canonical), nil
}

// MustKeyID is like KeyID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustKeyID(spec MachineSpec) string {
	id, err := KeyID(spec)
	if err != nil {
		panic(err)
	}
	return id
}
