package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewTokenMaker_KeyLength(t *testing.T) {
	_, err := NewTokenMaker("short")
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	maker, err := NewTokenMaker(testKey)
	require.NoError(t, err)
	assert.NotNil(t, maker)
}

func TestTokenRoundTrip(t *testing.T) {
	maker, err := NewTokenMaker(testKey)
	require.NoError(t, err)

	access, refresh, err := maker.GenerateTokens(42, "Dentist")
	require.NoError(t, err)

	claims, err := maker.ValidateToken(access, TokenKindAccess)
	require.NoError(t, err)
	id, err := claims.OperatorID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "Dentist", claims.Role)

	_, err = maker.ValidateToken(refresh, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenWrongKind)
	_, err = maker.ValidateToken(access, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenWrongKind)
}

func TestValidateToken_Rejects(t *testing.T) {
	maker, err := NewTokenMaker(testKey)
	require.NoError(t, err)
	token, err := maker.GenerateAccessToken(7, "Admin")
	require.NoError(t, err)

	other, err := NewTokenMaker("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
	_, err = other.ValidateToken(token, TokenKindAccess)
	assert.Error(t, err)

	_, err = maker.ValidateToken("v2.local.garbage", TokenKindAccess)
	assert.Error(t, err)

	maker.now = func() time.Time { return time.Now().Add(AccessTokenExpiry + time.Minute) }
	_, err = maker.ValidateToken(token, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestOperatorID_Malformed(t *testing.T) {
	_, err := TokenClaims{UserID: "abc"}.OperatorID()
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "secret123!"))
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateResetCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
