package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, Verify("secret1", hash))
	assert.False(t, Verify("wrongpw", hash))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate("secret"))
	assert.True(t, Validate("longer password"))
	assert.False(t, Validate("short"))
	assert.False(t, Validate(""))
}
