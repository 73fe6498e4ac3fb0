package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/club-service/internal/security"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, security.CheckPassword(hash, "s3cret"))
	assert.False(t, security.CheckPassword(hash, "wrong"))
	assert.False(t, security.CheckPassword("not-a-hash", "s3cret"))
}
