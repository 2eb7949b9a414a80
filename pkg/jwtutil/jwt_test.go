package jwtutil

import (
	"testing"
	"time"

	"github.com/GrabRush/grabrush-app/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	token, err := GenerateToken("bakery@example.com", 42, "Corner Bakery", RoleVendor)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bakery@example.com", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Corner Bakery", claims.Name)
	assert.Equal(t, RoleVendor, claims.Role)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	token, err := GenerateToken("ada@example.com", 1, "Ada", RoleCustomer)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: -time.Minute})

	token, err := GenerateToken("ada@example.com", 1, "Ada", RoleCustomer)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "key-one", ExpirationTime: time.Hour})
	token, err := GenerateToken("ada@example.com", 1, "Ada", RoleCustomer)
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "key-two", ExpirationTime: time.Hour})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
