//go:build api

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours-api/internal/models"
	"tours-api/test/api/testserver"
	"tours-api/test/fixtures"
	"tours-api/test/testutil"
)

func TestMe(t *testing.T) {
	authHelper := testserver.NewAuthHelper(testServer)

	t.Run("get me", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		signedUp, token := authHelper.Signup(t, "Jonas", "jonas@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var me models.User
		testutil.ParseEnvelope(t, w, "user", &me)
		assert.Equal(t, signedUp.ID, me.ID)
		assert.Equal(t, "jonas@example.com", me.Email)
	})

	t.Run("update me changes only allowed fields", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, token := authHelper.Signup(t, "Jonas", "jonas@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPatch, "/api/v1/users/update-me", token,
			map[string]string{"name": "Jonas S", "role": "admin"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var me models.User
		testutil.ParseEnvelope(t, w, "user", &me)
		assert.Equal(t, "Jonas S", me.Name)
		assert.Equal(t, models.RoleUser, me.Role)

		// The cached identity was dropped, so /me sees the new name
		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/me", token, nil)
		testutil.ParseEnvelope(t, w, "user", &me)
		assert.Equal(t, "Jonas S", me.Name)
	})

	t.Run("update me refuses passwords", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, token := authHelper.Signup(t, "Jonas", "jonas@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPatch, "/api/v1/users/update-me", token,
			map[string]string{"password": "newpass123", "passwordConfirm": "newpass123"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "/update-my-password")
	})

	t.Run("delete me deactivates the account", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		user, token := authHelper.Signup(t, "Jonas", "jonas@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/users/delete-me", token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.MakeRequest(t, testServer.Router, http.MethodPost, "/api/v1/users/login",
			models.LoginRequest{Email: "jonas@example.com", Password: testserver.DefaultPassword})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		// Inactive users disappear from the admin listing too
		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users/"+user.ID.Hex(), adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("photo upload url", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		user, token := authHelper.Signup(t, "Jonas", "jonas@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/users/me/photo-upload-url", token,
			models.UploadURLRequest{ContentType: "image/png"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var upload models.UploadURLResponse
		testutil.ParseEnvelope(t, w, "upload", &upload)
		assert.True(t, strings.HasPrefix(upload.Key, "users/"+user.ID.Hex()+"/"), upload.Key)
		assert.NotEmpty(t, upload.UploadURL)

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/users/me/photo-upload-url", token,
			models.UploadURLRequest{ContentType: "application/pdf"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserAdministration(t *testing.T) {
	authHelper := testserver.NewAuthHelper(testServer)

	t.Run("admin lists and filters users", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		authHelper.SeedUser(t, fixtures.NewUser().WithName("Guide One").AsGuide())
		authHelper.SeedUser(t, fixtures.NewUser().WithName("Guide Two").AsGuide())
		authHelper.Signup(t, "Laura", "laura@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users?role=guide&sort=name", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var users []models.User
		env := testutil.ParseEnvelope(t, w, "users", &users)
		assert.Equal(t, 2, *env.Results)
		require.Len(t, users, 2)
		assert.Equal(t, "Guide One", users[0].Name)
		assert.NotContains(t, w.Body.String(), "$2a$")
	})

	t.Run("admin changes a role", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		user, userToken := authHelper.Signup(t, "Laura", "laura@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPatch, "/api/v1/users/"+user.ID.Hex()+"/role", adminToken,
			map[string]string{"role": "lead-guide"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// The promoted user can now manage tours with the same token
		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours", userToken,
			testserver.TourRequest("The Park Camper", 100, models.DifficultyEasy))
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("unknown role", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		user, _ := authHelper.Signup(t, "Laura", "laura@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPatch, "/api/v1/users/"+user.ID.Hex()+"/role", adminToken,
			map[string]string{"role": "owner"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		user, _ := authHelper.Signup(t, "Laura", "laura@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/users/"+user.ID.Hex(), adminToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		ctx, cancel := testutil.TestContext()
		defer cancel()
		_, err := testServer.UserRepo.FindByID(ctx, user.ID)
		assert.Error(t, err)
	})

	t.Run("non admins are refused", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, leadToken := authHelper.SeedUser(t, fixtures.NewUser().AsLeadGuide())

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/users", leadToken, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "You do not have permission to perform this action")
	})
}

func TestRateLimit(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	defer testServer.CleanupBetweenTests(t)

	var last int
	for i := 0; i < testserver.TestRateLimit+1; i++ {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours", nil)
		last = w.Code
		if i == 0 {
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
