package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Historical wheel wirings, used here only as realistic permutations.
const (
	wiringI    = "EKMFLGDQVZNTOWYHXUSPAIBRCJ"
	wiringII   = "AJDKSIRUXBLHWTMCQGZNPYFVOE"
	wiringIII  = "BDFHJLCPRTXVZNYEIWGAKMUSQO"
	reflectorB = "YRUHQSLDPXNGOKMIEBFZCWVJAT"
	reversed   = "ZYXWVUTSRQPONMLKJIHGFEDCBA"
)

func mustRotor(t *testing.T, wiring string, offset int) Rotor {
	t.Helper()
	r, err := NewRotor(Standard(), wiring, offset)
	require.NoError(t, err)
	return r
}

func mustReflector(t *testing.T, mapping string) Reflector {
	t.Helper()
	r, err := NewReflector(Standard(), mapping)
	require.NoError(t, err)
	return r
}

// newThreeRotor builds the I-II-III machine with reflector B.
func newThreeRotor(t *testing.T, offsets [3]int, opts ...Option) *Machine {
	t.Helper()
	m, err := NewMachine(mustReflector(t, reflectorB), []Rotor{
		mustRotor(t, wiringI, offsets[0]),
		mustRotor(t, wiringII, offsets[1]),
		mustRotor(t, wiringIII, offsets[2]),
	}, opts...)
	require.NoError(t, err)
	return m
}
