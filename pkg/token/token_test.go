package token

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	Configure("test-secret", 1)

	signed, err := GenerateToken("user-123", true)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	Configure("test-secret", 1)

	signed, err := GenerateToken("user-123", false)
	require.NoError(t, err)

	_, err = ValidateToken(signed + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	Configure("secret-a", 1)
	signed, err := GenerateToken("user-123", false)
	require.NoError(t, err)

	Configure("secret-b", 1)
	_, err = ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateRejectsWrongAlgorithm(t *testing.T) {
	Configure("test-secret", 1)

	// alg=none 的token必须被拒绝
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-123"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(raw)
	assert.Error(t, err)
}

func TestConfigurePanicsOnEmptySecret(t *testing.T) {
	assert.Panics(t, func() { Configure("", 1) })
}
