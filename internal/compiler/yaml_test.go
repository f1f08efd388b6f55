package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
machines:
  training:
    reflector: ZYXWVUTSRQPONMLKJIHGFEDCBA
    rotors:
      - wiring: BCDEFGHIJKLMNOPQRSTUVWXYZA
      - wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ
        offset: 4
  army:
    reflector: YRUHQSLDPXNGOKMIEBFZCWVJAT
    stepping: legacy
    rotors:
      - wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ
`)

	specs, err := DecodeYAML(data)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "army", specs[0].Name)
	assert.Equal(t, "legacy", specs[0].Stepping)
	assert.Equal(t, "training", specs[1].Name)
	require.Len(t, specs[1].Rotors, 2)
	assert.Equal(t, int64(4), specs[1].Rotors[1].Offset)
}

func TestDecodeYAMLUnknownField(t *testing.T) {
	data := []byte(`
machines:
  bad:
    reflector: ZYXWVUTSRQPONMLKJIHGFEDCBA
    rotor:
      - wiring: BCDEFGHIJKLMNOPQRSTUVWXYZA
`)

	_, err := DecodeYAML(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestDecodeYAMLEmpty(t *testing.T) {
	_, err := DecodeYAML([]byte("machines: {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no machine definitions")
}
