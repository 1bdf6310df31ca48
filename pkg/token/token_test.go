package token_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rewardsuite/rms-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	svc := token.NewService("secret", 3600)

	signed, err := svc.Generate("64b0c1", "admin", "owner@cafe.example")
	require.NoError(t, err)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "64b0c1", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "owner@cafe.example", claims["email"])
}

func TestParseWrongSecret(t *testing.T) {
	signed, err := token.NewService("secret-a", 3600).Generate("64b0c1", "admin", "owner@cafe.example")
	require.NoError(t, err)

	_, err = token.NewService("secret-b", 3600).Parse(signed)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	signed, err := token.NewService("secret", -60).Generate("64b0c1", "admin", "owner@cafe.example")
	require.NoError(t, err)

	_, err = token.NewService("secret", 3600).Parse(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseGarbage(t *testing.T) {
	_, err := token.NewService("secret", 3600).Parse("not.a.token")
	assert.Error(t, err)
}
