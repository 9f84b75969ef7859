package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "cashier@cafe.test", "Asha", "cashier")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "cashier@cafe.test", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "cashier", claims.Role)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	a := NewJWTManager("secret-a", time.Hour, time.Hour)
	b := NewJWTManager("secret-b", time.Hour, time.Hour)

	token, err := a.GenerateAccessToken(uuid.New(), "x@y.z", "X", "admin")
	require.NoError(t, err)

	_, err = b.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New(), "x@y.z", "X", "admin")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenIsNotAccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	id := uuid.New()

	refresh, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	access, err := m.GenerateAccessToken(id, "x@y.z", "X", "admin")
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coffee & Tea", "coffee-tea"},
		{"  Fresh Salads ", "fresh-salads"},
		{"Cold--Drinks!", "cold-drinks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestGenerateOrderCode(t *testing.T) {
	assert.Equal(t, "ORD-0001", GenerateOrderCode("ORD", 1))
	assert.Equal(t, "ORD-12345", GenerateOrderCode("ORD", 12345))
}
