package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "sitecache", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"provision", "list", "status", "doctor", "version", "completion"} {
		assert.Contains(t, names, expected)
	}
}

func TestProvision_Flags(t *testing.T) {
	cmd := Provision()

	for _, flag := range []string{"settings", "site", "mode", "port", "memory", "yes"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
	assert.Equal(t, "y", cmd.Flags().Lookup("yes").Shorthand)
}

func TestStatus_Flags(t *testing.T) {
	cmd := Status()

	assert.NotNil(t, cmd.Flags().Lookup("watch"))
	assert.NotNil(t, cmd.Flags().Lookup("json"))
}

func TestCompletion_ValidArgs(t *testing.T) {
	cmd := Completion()

	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
	assert.True(t, cmd.DisableFlagsInUseLine)
}

func TestCompletion_BashOutput(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
}

func TestVersion_Defaults(t *testing.T) {
	assert.Equal(t, "dev", version)
	assert.NotNil(t, Version().Run)
}
