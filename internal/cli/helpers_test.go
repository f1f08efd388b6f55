package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	machinesDir = filepath.Join("testdata", "machines")
	armyFile    = filepath.Join("testdata", "machines", "army.cue")
	hexaFile    = filepath.Join("testdata", "machines", "hexa.yaml")
	brokenFile  = filepath.Join("testdata", "invalid", "broken.yaml")
)

// runCLI executes the CLI as main would and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

// dbPath returns a fresh journal path in a temp directory.
func dbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "journal.db")
}

// journalHello records "HELLO" then " WORLD" in session s1.
func journalHello(t *testing.T, db string) {
	t.Helper()
	for _, text := range []string{"HELLO", " WORLD"} {
		_, stderr, code := runCLI(t, "encipher", "-c", armyFile, "-m", "army", "--db", db, "--session", "s1", "-t", text)
		require.Equal(t, ExitSuccess, code, stderr)
	}
}
