package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/ir"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileCUE(t *testing.T) {
	path := writeFile(t, "machines.cue", `
package machines

machine: army: {
	reflector: "YRUHQSLDPXNGOKMIEBFZCWVJAT"
	rotors: [{wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ"}]
}
`)

	specs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "army", specs[0].Name)
}

func TestLoadFileCUESyntaxError(t *testing.T) {
	path := writeFile(t, "broken.cue", `machine: army: {`)

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "machines.yml", `
machines:
  training:
    reflector: ZYXWVUTSRQPONMLKJIHGFEDCBA
    rotors:
      - wiring: BCDEFGHIJKLMNOPQRSTUVWXYZA
`)

	specs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "training", specs[0].Name)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)

	path := writeFile(t, "machines.json", `{}`)
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported machine file")
}

func TestSelect(t *testing.T) {
	specs := []ir.MachineSpec{{Name: "army"}, {Name: "navy"}}

	got, err := Select(specs, "navy")
	require.NoError(t, err)
	assert.Equal(t, "navy", got.Name)

	_, err = Select(specs, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "army, navy")

	_, err = Select(specs, "air")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"air" not found`)

	got, err = Select(specs[:1], "")
	require.NoError(t, err)
	assert.Equal(t, "army", got.Name)
}
