package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenUsesSecretAtCallTime(t *testing.T) {
	// The secret is set after package init, the way godotenv loads it.
	t.Setenv("JWT_SECRET", "first-secret")

	token, err := GenerateToken("u-1", "jane@cro.example", "member")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@cro.example", claims.Email)
	assert.Equal(t, "member", claims.Role)

	t.Setenv("JWT_SECRET", "rotated-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err, "a token signed under the old secret must not validate")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
