package cipher

import (
	"errors"
	"fmt"
)

// ConfigError reports a machine component that cannot be built.
// All construction failures are fatal; nothing is recovered locally.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Symbols holds the offending symbols, when there are any.
	Symbols []rune
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidAlphabet indicates an unusable symbol set.
	ErrCodeInvalidAlphabet ConfigErrorCode = "INVALID_ALPHABET"

	// ErrCodeInvalidRotorWiring indicates a wiring that is not a bijection.
	ErrCodeInvalidRotorWiring ConfigErrorCode = "INVALID_ROTOR_WIRING"

	// ErrCodeInvalidRotorOffset indicates an initial offset outside the alphabet.
	ErrCodeInvalidRotorOffset ConfigErrorCode = "INVALID_ROTOR_OFFSET"

	// ErrCodeInvalidReflectorMapping indicates a mapping that is not an involution.
	ErrCodeInvalidReflectorMapping ConfigErrorCode = "INVALID_REFLECTOR_MAPPING"

	// ErrCodeInvalidMachine indicates components that cannot be assembled.
	ErrCodeInvalidMachine ConfigErrorCode = "INVALID_MACHINE"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newConfigError(code ConfigErrorCode, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsReflectorError returns true if err is an invalid reflector mapping.
// Uses errors.As to handle wrapped errors.
func IsReflectorError(err error) bool {
	return hasCode(err, ErrCodeInvalidReflectorMapping)
}

// IsWiringError returns true if err is an invalid rotor wiring.
// Uses errors.As to handle wrapped errors.
func IsWiringError(err error) bool {
	return hasCode(err, ErrCodeInvalidRotorWiring)
}

// CodeOf returns the configuration error code carried by err, or "" if err
// is not a ConfigError.
func CodeOf(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func hasCode(err error, code ConfigErrorCode) bool {
	return CodeOf(err) == code
}
