package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario next to a copy of the army machine file.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()

	machine, err := os.ReadFile(filepath.Join("testdata", "machines", "army.cue"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "army.cue"), machine, 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
config: army.cue
machine: army
steps:
  - op: encipher
    input: "HELLO"
    expect:
      output: "EVONZ"
  - op: reset
assertions:
  - type: journal_count
    count: 2
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "army.cue"), scenario.Config)
	require.Len(t, scenario.Steps, 2)
	require.NotNil(t, scenario.Steps[0].Expect)
	require.NotNil(t, scenario.Steps[0].Expect.Output)
	assert.Equal(t, "EVONZ", *scenario.Steps[0].Expect.Output)
	assert.Nil(t, scenario.Steps[1].Expect)
	assert.Equal(t, AssertJournalCount, scenario.Assertions[0].Type)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled steps"
config: army.cue
step:
  - op: encipher
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nconfig: army.cue\nsteps: [{op: reset}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nconfig: army.cue\nsteps: [{op: reset}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing config",
			content: "name: n\ndescription: d\nsteps: [{op: reset}]\n",
			wantErr: "config is required",
		},
		{
			name:    "config not found",
			content: "name: n\ndescription: d\nconfig: nope.cue\nsteps: [{op: reset}]\n",
			wantErr: "config file not found",
		},
		{
			name:    "no steps",
			content: "name: n\ndescription: d\nconfig: army.cue\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown op",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: rotate}]\n",
			wantErr: `unknown op "rotate"`,
		},
		{
			name:    "reset with input",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: reset, input: A}]\n",
			wantErr: "reset takes no input",
		},
		{
			name: "round_trip without input",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: reset}]\n" +
				"assertions: [{type: round_trip}]\n",
			wantErr: "input is required for round_trip",
		},
		{
			name: "windows without expect",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: reset}]\n" +
				"assertions: [{type: windows}]\n",
			wantErr: "expect is required for windows",
		},
		{
			name: "journal_count bad operation",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: reset}]\n" +
				"assertions: [{type: journal_count, operation: rotate, count: 1}]\n",
			wantErr: `unknown operation "rotate"`,
		},
		{
			name: "unknown assertion",
			content: "name: n\ndescription: d\nconfig: army.cue\nsteps: [{op: reset}]\n" +
				"assertions: [{type: trace_order}]\n",
			wantErr: `unknown assertion type "trace_order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_AllTestdata(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
