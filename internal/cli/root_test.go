package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "enigma", cmd.Use)
	assert.Contains(t, cmd.Long, "rotor machines")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"encipher", "decipher", "validate", "inspect", "journal", "replay", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCipherCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"encipher", "decipher"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)

		for flag, short := range map[string]string{"config": "c", "machine": "m", "text": "t", "file": "f"} {
			f := sub.Flags().Lookup(flag)
			require.NotNil(t, f, "%s --%s", name, flag)
			assert.Equal(t, short, f.Shorthand)
		}
		assert.NotNil(t, sub.Flags().Lookup("db"))
		assert.NotNil(t, sub.Flags().Lookup("session"))
	}
}

func TestJournalAndReplayRequireDB(t *testing.T) {
	for _, name := range []string{"journal", "replay"} {
		t.Run(name, func(t *testing.T) {
			_, stderr, code := runCLI(t, name)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, `required flag(s) "db" not set`)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, stderr, code := runCLI(t, "--format", "xml", "inspect", armyFile)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, `invalid format "xml"`)
}

func TestUnknownFlag(t *testing.T) {
	_, stderr, code := runCLI(t, "encipher", "--rotor", "I")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown flag: --rotor")
}
