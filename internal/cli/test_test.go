package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

// writeTestScenario writes a scenario for the army machine into dir.
func writeTestScenario(t *testing.T, dir, name, expectOutput string) string {
	t.Helper()
	config, err := filepath.Abs(armyFile)
	require.NoError(t, err)

	content := fmt.Sprintf(`name: %s
description: "Encipher one word"
config: %s
machine: army
session: cli-test
steps:
  - op: encipher
    input: "HELLO"
    expect:
      output: %q
`, name, config, expectOutput)

	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTest_HarnessScenarios(t *testing.T) {
	stdout, stderr, code := runCLI(t, "test", harnessScenarios)
	require.Equal(t, ExitSuccess, code, "stdout: %s\nstderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "✓ hello_world")
	assert.Contains(t, stdout, "Test Summary: 5 passed, 0 failed, 5 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	stdout, stderr, code := runCLI(t, "--format", "json", "test", harnessScenarios, "--filter", "*_weather")
	require.Equal(t, ExitSuccess, code, stderr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(2), data["passed"])
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeTestScenario(t, dir, "wrong", "HELLO")

	stdout, _, code := runCLI(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ wrong")
	assert.Contains(t, stdout, `output = "EVONZ", want "HELLO"`)
	assert.Contains(t, stdout, "1 failed")
}

func TestTest_FailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestScenario(t, dir, "wrong", "HELLO")
	writeTestScenario(t, dir, "right", "EVONZ")

	stdout, _, code := runCLI(t, "--format", "json", "test", dir)
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(1), data["failed"])
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeTestScenario(t, dir, "hello", "EVONZ")
	golden := filepath.Join(dir, "golden", "hello.golden")

	_, stderr, code := runCLI(t, "test", dir, "--update")
	require.Equal(t, ExitSuccess, code, stderr)
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"output":"EVONZ"`)
	assert.Contains(t, string(data), `"session":"cli-test"`)

	_, stderr, code = runCLI(t, "test", dir)
	require.Equal(t, ExitSuccess, code, stderr)

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario_name":"hello"}`), 0o644))
	stdout, _, code := runCLI(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "transcript does not match golden file")
}

func TestTest_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\n"), 0o644))

	stdout, _, code := runCLI(t, "test", dir)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ bad")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTest_NoScenarios(t *testing.T) {
	stdout, stderr, code := runCLI(t, "test", t.TempDir())
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "No scenarios found.")
}

func TestTest_MissingDirectory(t *testing.T) {
	_, stderr, code := runCLI(t, "test", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "scenarios directory not found")
}

func TestFindScenarioFiles_BadPattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte{}, 0o644))

	_, err := findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("s", "golden", "x.golden"), goldenFilePath(filepath.Join("s", "x.yaml")))
}
