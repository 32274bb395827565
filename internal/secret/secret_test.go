package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredential(t *testing.T) {
	a, err := NewCredential()
	require.NoError(t, err)
	assert.Len(t, a, CredentialBytes*2)

	b, err := NewCredential()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
