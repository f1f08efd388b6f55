package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/cipher"
)

func TestBuild(t *testing.T) {
	spec := validSpec()
	spec.Rotors[1].Offset = 0
	spec.Rotors[2].Offset = 0

	m, err := Build(spec)
	require.NoError(t, err)

	assert.Equal(t, 3, m.RotorCount())
	assert.Equal(t, cipher.SteppingOdometer, m.Stepping())
	assert.Equal(t, cipher.StandardSymbols, m.Alphabet().String())
	assert.Equal(t, "EVONZ YQPOQ", m.Encipher("HELLO WORLD"))
}

func TestBuildLegacy(t *testing.T) {
	spec := validSpec()
	spec.Stepping = "legacy"

	m, err := Build(spec)
	require.NoError(t, err)
	assert.Equal(t, cipher.SteppingLegacy, m.Stepping())
	assert.Equal(t, "AFZ", m.Windows())
}

func TestBuildReportsComponent(t *testing.T) {
	spec := validSpec()
	spec.Rotors[1].Wiring = "AAAA"

	_, err := Build(spec)
	require.Error(t, err)
	assert.True(t, cipher.IsWiringError(err))
	assert.Contains(t, err.Error(), "machine army: rotor 1")

	spec = validSpec()
	spec.Reflector = "BCADEFGHIJKLMNOPQRSTUVWXYZ"
	_, err = Build(spec)
	require.Error(t, err)
	assert.True(t, cipher.IsReflectorError(err))
}
