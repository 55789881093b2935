package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authFunc adapts a function to Authenticator.
type authFunc func(ctx context.Context, token string) (*models.User, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

var testUser = &models.User{ID: primitive.NewObjectID(), Name: "Jonas", Role: models.RoleUser}

func tokenAuth(valid string, user *models.User) Authenticator {
	return authFunc(func(ctx context.Context, token string) (*models.User, error) {
		if token == valid {
			return user, nil
		}
		return nil, apperrors.ErrInvalidToken
	})
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(false))
	r.Use(mw...)
	return r
}

func TestProtect(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectUser     bool
	}{
		{"valid token", "Bearer good", http.StatusOK, true},
		{"lowercase scheme", "bearer good", http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"no bearer prefix", "good", http.StatusUnauthorized, false},
		{"basic scheme", "Basic good", http.StatusUnauthorized, false},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			r := newTestRouter(Protect(tokenAuth("good", testUser)))
			r.GET("/", func(c *gin.Context) {
				captured = GetUser(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectUser {
				assert.Equal(t, testUser, captured)
			} else {
				assert.Nil(t, captured)
			}
		})
	}

	t.Run("missing token message", func(t *testing.T) {
		r := newTestRouter(Protect(tokenAuth("good", testUser)))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, w.Body.String(), "You are not logged in!")
	})

	t.Run("authentication error is rendered as is", func(t *testing.T) {
		r := newTestRouter(Protect(authFunc(func(ctx context.Context, token string) (*models.User, error) {
			return nil, apperrors.ErrPasswordChanged
		})))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer stale")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User recently changed password!")
	})
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		expectUser bool
	}{
		{"valid token", "Bearer good", true},
		{"anonymous", "", false},
		{"invalid token continues anonymously", "Bearer bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *models.User
			r := newTestRouter(Identify(tokenAuth("good", testUser)))
			r.GET("/", func(c *gin.Context) {
				captured = GetUser(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectUser, captured != nil)
		})
	}
}

func TestGetUser(t *testing.T) {
	t.Run("returns nil when not set", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.Nil(t, GetUser(c))
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(UserKey, "not-a-user")

		assert.Nil(t, GetUser(c))
	})
}
