package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithArgs_Version(t *testing.T) {
	output := captureOutput(t, func() {
		err := RunWithArgs("1.2.3", []string{"--version"})
		require.NoError(t, err)
	})
	assert.Equal(t, "dwell 1.2.3\n", output)
}

func TestRunWithArgs_UnknownCommand(t *testing.T) {
	err := RunWithArgs("test", []string{"frobnicate"})
	require.Error(t, err)
}

func TestBuildParser_RegistersAllCommands(t *testing.T) {
	parser, _, _ := buildParser("test")

	names := make([]string, 0, 5)
	for _, cmd := range parser.Commands() {
		names = append(names, cmd.Name)
	}

	assert.ElementsMatch(t, []string{"track", "stats", "status", "prune", "clear"}, names)
}
