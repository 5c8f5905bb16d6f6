package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewBcrypt(4)

	digest, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", digest)

	assert.True(t, h.Verify(digest, "admin123"))
	assert.False(t, h.Verify(digest, "wrong"))
	assert.False(t, h.Verify("not-a-digest", "admin123"))
}
