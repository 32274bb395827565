package prerequisites

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapLookPath(t *testing.T, available map[string]string) {
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if path, ok := available[name]; ok {
			return path, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCheckAllPresent(t *testing.T) {
	swapLookPath(t, map[string]string{
		"systemctl":    "/usr/bin/systemctl",
		"redis-server": "/usr/bin/redis-server",
	})

	results := Check(DefaultTools())
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
	require.Len(t, results.Results, 2)
	assert.Equal(t, "/usr/bin/systemctl", results.Results[0].Path)
}

func TestCheckMissingRequired(t *testing.T) {
	swapLookPath(t, map[string]string{"systemctl": "/usr/bin/systemctl"})

	results := Check(DefaultTools())
	assert.True(t, results.HasErrors())
	err := results.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis-server")
	assert.NotContains(t, err.Error(), "systemctl")
}

func TestCheckMissingOptionalIsNotAnError(t *testing.T) {
	swapLookPath(t, nil)

	results := Check(IntegrationTools())
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
	require.Len(t, results.Missing, 1)
	assert.Equal(t, "wp", results.Missing[0].Name)
}
