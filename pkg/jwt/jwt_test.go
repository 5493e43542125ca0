package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil()

	token, err := util.GenerateToken("user123", "owner@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "aaaogo-backend", claims.Issuer)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	util := NewJWTUtil()

	_, err := util.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	a := &JWTUtil{secretKey: []byte("secret-a"), expiry: time.Hour}
	b := &JWTUtil{secretKey: []byte("secret-b"), expiry: time.Hour}

	token, err := a.GenerateToken("user123", "owner@example.com", "admin")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenKeepsFreshToken(t *testing.T) {
	util := NewJWTUtil()

	token, err := util.GenerateToken("user123", "owner@example.com", "driver")
	require.NoError(t, err)

	refreshed, err := util.RefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, token, refreshed)
}
