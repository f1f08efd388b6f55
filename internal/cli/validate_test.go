package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Directory(t *testing.T) {
	stdout, stderr, code := runCLI(t, "validate", machinesDir)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "✓ 4 machine(s) valid")
}

func TestValidate_JSON(t *testing.T) {
	stdout, stderr, code := runCLI(t, "--format", "json", "validate", armyFile)
	require.Equal(t, ExitSuccess, code, stderr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, []any{"army", "army_legacy", "army_odometer"}, data["machines"])
}

func TestValidate_Invalid(t *testing.T) {
	stdout, _, code := runCLI(t, "validate", brokenFile)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "E104")
	assert.Contains(t, stdout, "E105")
	assert.Contains(t, stdout, "broken.")
}

func TestValidate_InvalidJSON(t *testing.T) {
	stdout, _, code := runCLI(t, "--format", "json", "validate", brokenFile)
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)

	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["valid"])
	assert.GreaterOrEqual(t, len(data["errors"].([]any)), 2)
}

func TestValidate_NotFound(t *testing.T) {
	stdout, _, code := runCLI(t, "validate", "/nonexistent/machines")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, ErrCodeNotFound)
	assert.Contains(t, stdout, "not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	stdout, _, code := runCLI(t, "validate", t.TempDir())
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, ErrCodeNoFiles)
}

func TestValidate_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(hexaFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), data, 0o644))

	stdout, _, code := runCLI(t, "validate", dir)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout, ErrCodeDuplicate)
	assert.Contains(t, stdout, `"hexa" is defined more than once`)
}

func TestValidate_CUESyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("machine: army: {\n"), 0o644))

	_, _, code := runCLI(t, "validate", path)
	assert.Equal(t, ExitCommandError, code)
}

func TestLoadMachines_Directory(t *testing.T) {
	result, err := LoadMachines(machinesDir)
	require.NoError(t, err)

	names := make([]string, len(result.Machines))
	for i, m := range result.Machines {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"army", "army_legacy", "army_odometer", "hexa"}, names)
	assert.Len(t, result.Files, 2)
}

func TestLoadMachines_Errors(t *testing.T) {
	_, err := LoadMachines(filepath.Join(t.TempDir(), "missing.cue"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)

	path := filepath.Join(t.TempDir(), "machines.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err = LoadMachines(path)
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeGeneric, loadErr.Code)
	assert.Contains(t, loadErr.Message, "unsupported machine file")
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, "E101", MapFieldToErrorCode("reflector"))
	assert.Equal(t, "E102", MapFieldToErrorCode("rotors"))
	assert.Equal(t, ErrCodeBuildFailed, MapFieldToErrorCode("cue"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("somewhere"))
}
