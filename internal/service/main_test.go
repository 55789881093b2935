package service

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"tours-api/pkg/auth"
)

func TestMain(m *testing.M) {
	auth.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}
