package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	t.Run("produces a bcrypt hash at the configured cost", func(t *testing.T) {
		hash, err := HashPassword("test1234")

		require.NoError(t, err)
		assert.NotEqual(t, "test1234", hash)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, PasswordCost, cost)
	})

	t.Run("salts every hash", func(t *testing.T) {
		h1, _ := HashPassword("test1234")
		h2, _ := HashPassword("test1234")

		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects passwords over 72 bytes", func(t *testing.T) {
		_, err := HashPassword(string(make([]byte, 100)))

		assert.Error(t, err)
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pass word 1234")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		ok       bool
	}{
		{"matching password", "pass word 1234", hash, true},
		{"wrong password", "password1234", hash, false},
		{"case sensitive", "PASS WORD 1234", hash, false},
		{"empty password", "", hash, false},
		{"invalid hash", "pass word 1234", "notavalidhash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, tt.hash)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
