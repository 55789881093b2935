//go:build api

package testserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"tours-api/internal/models"
	"tours-api/pkg/auth"
	"tours-api/test/fixtures"
	"tours-api/test/testutil"
)

// DefaultPassword is the password of every user created by the helpers.
const DefaultPassword = "test1234"

// AuthHelper provides authentication helpers for API tests.
type AuthHelper struct {
	server *TestServer
}

// NewAuthHelper creates a new auth helper.
func NewAuthHelper(server *TestServer) *AuthHelper {
	return &AuthHelper{server: server}
}

// Signup registers a user through the API and returns the user and token.
func (ah *AuthHelper) Signup(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	req := models.SignupRequest{
		Name:            name,
		Email:           email,
		Password:        DefaultPassword,
		PasswordConfirm: DefaultPassword,
	}

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/users/signup", req)
	require.Equal(t, http.StatusCreated, w.Code, "signup should return 201, got: %s", w.Body.String())

	var user models.User
	env := testutil.ParseEnvelope(t, w, "user", &user)
	require.NotEmpty(t, env.Token, "signup should return a token")
	return &user, env.Token
}

// Login logs in and returns the token.
func (ah *AuthHelper) Login(t *testing.T, email, password string) string {
	t.Helper()

	w := testutil.MakeRequest(t, ah.server.Router, http.MethodPost, "/api/v1/users/login",
		models.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, "login should return 200, got: %s", w.Body.String())

	env := testutil.ParseEnvelope(t, w, "", nil)
	require.NotEmpty(t, env.Token)
	return env.Token
}

// SeedUser inserts a user with DefaultPassword directly into the database
// and returns it with a signed token. Roles other than "user" can only be
// created this way.
func (ah *AuthHelper) SeedUser(t *testing.T, b *fixtures.UserBuilder) (*models.User, string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := b.WithPassword(hash).BuildPtr()
	require.NoError(t, ah.server.UserRepo.Create(ctx, user), "failed to seed user")

	token, err := ah.server.JWTManager.GenerateToken(user.ID.Hex())
	require.NoError(t, err)
	return user, token
}

// Admin seeds an admin and returns its token.
func (ah *AuthHelper) Admin(t *testing.T) (*models.User, string) {
	t.Helper()
	return ah.SeedUser(t, fixtures.NewUser().WithName("Admin").WithEmail("admin@tours.test").AsAdmin())
}

// TourHelper creates tours through the API.
type TourHelper struct {
	server *TestServer
}

// NewTourHelper creates a new tour helper.
func NewTourHelper(server *TestServer) *TourHelper {
	return &TourHelper{server: server}
}

// TourRequest returns a valid creation payload for a tour named name.
func TourRequest(name string, price float64, difficulty string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"duration":     5,
		"maxGroupSize": 10,
		"difficulty":   difficulty,
		"price":        price,
		"summary":      "A tour called " + name,
		"imageCover":   "cover.jpg",
	}
}

// Create posts body as adminToken and returns the created tour.
func (th *TourHelper) Create(t *testing.T, adminToken string, body map[string]interface{}) *models.Tour {
	t.Helper()

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/tours", adminToken, body)
	require.Equal(t, http.StatusCreated, w.Code, "create tour should return 201, got: %s", w.Body.String())

	var tour models.Tour
	testutil.ParseEnvelope(t, w, "tour", &tour)
	return &tour
}

// ReviewHelper creates reviews through the API.
type ReviewHelper struct {
	server *TestServer
}

// NewReviewHelper creates a new review helper.
func NewReviewHelper(server *TestServer) *ReviewHelper {
	return &ReviewHelper{server: server}
}

// Create posts a review of tourID as the user behind token.
func (rh *ReviewHelper) Create(t *testing.T, token, tourID string, rating float64) *models.Review {
	t.Helper()

	w := testutil.MakeAuthRequest(t, rh.server.Router, http.MethodPost, "/api/v1/tours/"+tourID+"/reviews", token,
		map[string]interface{}{"review": "Review with rating", "rating": rating})
	require.Equal(t, http.StatusCreated, w.Code, "create review should return 201, got: %s", w.Body.String())

	var review models.Review
	testutil.ParseEnvelope(t, w, "review", &review)
	return &review
}
