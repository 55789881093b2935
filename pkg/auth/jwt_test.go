package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateToken(t *testing.T) {
	manager := NewJWTManager("testsecret123", 15*time.Minute)

	t.Run("generates valid token for user ID", func(t *testing.T) {
		token, err := manager.GenerateToken("5c8a1d5b0190b214360dc057")

		require.NoError(t, err)
		// Token should be a valid JWT format (3 parts separated by dots)
		assert.Regexp(t, `^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`, token)
	})

	t.Run("token contains correct user ID and issue time", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		m := NewJWTManager("testsecret123", time.Hour)
		m.now = func() time.Time { return fixed }

		token, _ := m.GenerateToken("user-1")
		claims, err := m.ValidateToken(token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.True(t, fixed.Equal(claims.IssuedAtTime()))
		assert.True(t, fixed.Add(time.Hour).Equal(claims.ExpiresAt.Time))
	})
}

func TestJWTManager_ValidateToken(t *testing.T) {
	manager := NewJWTManager("testsecret123", 15*time.Minute)

	t.Run("returns error for expired token", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		m := NewJWTManager("testsecret123", time.Hour)
		m.now = func() time.Time { return issued }
		token, _ := m.GenerateToken("user123")

		claims, err := manager.ValidateToken(token)

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("returns error for wrong secret", func(t *testing.T) {
		other := NewJWTManager("secret2", 15*time.Minute)
		token, _ := other.GenerateToken("user123")

		claims, err := manager.ValidateToken(token)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("rejects other signing methods", func(t *testing.T) {
		claims := &Claims{UserID: "user123", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		parsed, err := manager.ValidateToken(token)

		assert.Error(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("rejects token without user", func(t *testing.T) {
		token, _ := manager.GenerateToken("")

		claims, err := manager.ValidateToken(token)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("returns error for malformed and tampered tokens", func(t *testing.T) {
		token, _ := manager.GenerateToken("user123")

		for _, bad := range []string{"", "not.a.valid.token", token[:len(token)-5] + "XXXXX"} {
			claims, err := manager.ValidateToken(bad)
			assert.Error(t, err, bad)
			assert.Nil(t, claims)
		}
	})
}

func BenchmarkJWTManager_ValidateToken(b *testing.B) {
	manager := NewJWTManager("benchmarksecret", 15*time.Minute)
	token, _ := manager.GenerateToken("user123")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.ValidateToken(token)
	}
}
