package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mjscene", cmd.Use)
	assert.Contains(t, cmd.Long, "MuJoCo")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "search", "assets", "resolve", "runs"}

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

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	assetsFlag := compileCmd.Flags().Lookup("assets")
	require.NotNil(t, assetsFlag)
	assert.Equal(t, "a", assetsFlag.Shorthand)

	seedFlag := compileCmd.Flags().Lookup("seed")
	require.NotNil(t, seedFlag)
	assert.Equal(t, "42", seedFlag.DefValue)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	recordFlag := compileCmd.Flags().Lookup("record")
	require.NotNil(t, recordFlag)
	assert.Equal(t, "", recordFlag.DefValue)
}

func TestRunsCommandStructure(t *testing.T) {
	cmd := NewRootCommand()

	listCmd, _, err := cmd.Find([]string{"runs", "list"})
	require.NoError(t, err)
	assert.Equal(t, "list", listCmd.Name())
	require.NotNil(t, listCmd.Flags().Lookup("db"))
	require.NotNil(t, listCmd.Flags().Lookup("scene"))

	verifyCmd, _, err := cmd.Find([]string{"runs", "verify"})
	require.NoError(t, err)
	assert.Equal(t, "verify", verifyCmd.Name())
	require.NotNil(t, verifyCmd.Flags().Lookup("db"))
	require.NotNil(t, verifyCmd.Flags().Lookup("assets"))
	require.NotNil(t, verifyCmd.Flags().Lookup("scene"))
}

func TestInvalidFormatRejected(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"assets", "--assets", t.TempDir(), "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "validation failed")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	wrapped := WrapExitError(ExitCommandError, "open database", errors.New("no such file"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "open database")
	assert.Contains(t, wrapped.Error(), "no such file")
}
