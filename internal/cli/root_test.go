package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wtd/internal/clierr"
)

func TestRootCommand_RejectsMissingSpecifier(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.Error(t, err)
	var cliErr *clierr.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "Usage", cliErr.Kind)
}

func TestRootCommand_RejectsUnknownLogLevel(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--log-level", "verbose", "octocat/hello-world"})
	err := cmd.Execute()

	require.Error(t, err)
	var cliErr *clierr.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierr.ExitUsage, cliErr.Code)
}

func TestRootCommand_RejectsExtraPositionalArgsWithoutDash(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"octocat/hello-world", "echo", "hi"})
	err := cmd.Execute()

	require.Error(t, err)
	var cliErr *clierr.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, "Usage", cliErr.Kind)
}

func TestRootCommand_HasCompletionSubcommand(t *testing.T) {
	cmd := NewRootCommand()
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRootCommand_PruneFlagDefaultsToEmptyMeaningPruneAll(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, " ", cmd.Flags().Lookup("prune").NoOptDefVal)
}
