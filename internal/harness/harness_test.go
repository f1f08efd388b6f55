package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return scenario
}

func strPtr(s string) *string { return &s }

func TestRun_Testdata(t *testing.T) {
	for _, name := range []string{
		"hello_world",
		"odometer_carry",
		"legacy_weather",
		"odometer_weather",
		"custom_alphabet",
	} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestdata(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_Transcript(t *testing.T) {
	result, err := Run(loadTestdata(t, "hello_world"))
	require.NoError(t, err)

	assert.Equal(t, "golden-session-0001", result.Session)
	assert.Len(t, result.KeyID, 64)
	assert.Equal(t, []TranscriptEntry{
		{Seq: 1, Op: "encipher", Input: "HELLO WORLD", Output: "EVONZ YQPOQ", Windows: "KAA"},
		{Seq: 2, Op: "reset", Input: "", Output: "", Windows: "AAA"},
		{Seq: 3, Op: "decipher", Input: "EVONZ YQPOQ", Output: "HELLO WORLD", Windows: "KAA"},
	}, result.Transcript)
	assert.Equal(t, "KAA", result.FinalWindows())
}

func TestRun_Deterministic(t *testing.T) {
	scenario := loadTestdata(t, "odometer_carry")

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario := loadTestdata(t, "hello_world")
	scenario.Steps = []Step{
		{Op: "encipher", Input: "HELLO", Expect: &Expect{Output: strPtr("HELLO"), Windows: "ZZZ"}},
	}
	scenario.Assertions = nil

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `output = "EVONZ", want "HELLO"`)
	assert.Contains(t, result.Errors[1], `windows = "FAA", want "ZZZ"`)
}

func TestRun_FailedAssertion(t *testing.T) {
	scenario := loadTestdata(t, "hello_world")
	scenario.Assertions = []Assertion{{Type: AssertJournalCount, Count: 99}}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion 0 (journal_count)")
}

func TestRun_UnknownMachine(t *testing.T) {
	scenario := loadTestdata(t, "hello_world")
	scenario.Machine = "navy"

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `machine "navy" not found`)
}

func TestRun_AmbiguousMachine(t *testing.T) {
	scenario := loadTestdata(t, "hello_world")
	scenario.Machine = ""

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose one of army, army_legacy, army_odometer")
}
