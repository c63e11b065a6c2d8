package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, VerifyPassword("password123", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRE", "1h")

	tokenString, err := GenerateJWT("64c9a1b2c3d4e5f6a7b8c9d0", "publisher")
	assert.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "64c9a1b2c3d4e5f6a7b8c9d0", claims["user_id"])
	assert.Equal(t, "publisher", claims["role"])

	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWTBadExpireFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRE", "not-a-duration")

	tokenString, err := GenerateJWT("64c9a1b2c3d4e5f6a7b8c9d0", "user")
	assert.NoError(t, err)

	token, _ := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	claims := token.Claims.(jwt.MapClaims)
	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(720*time.Hour), exp.Time, time.Minute)
}

func TestNewDemoSessionID(t *testing.T) {
	first, err := NewDemoSessionID()
	assert.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := NewDemoSessionID()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashResetTokenIsStable(t *testing.T) {
	a := hashResetToken("sometoken")
	b := hashResetToken("sometoken")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, hashResetToken("othertoken"))
}
