package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tours-api/internal/middleware"
	"tours-api/internal/models"
	"tours-api/internal/validator"
)

// SetupRouter creates a Gin router in test mode with the production error
// renderer and custom validators installed.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.RegisterCustomValidators()

	r := gin.New()
	r.Use(middleware.ErrorHandler(false))
	return r
}

// AsUser simulates an authenticated request. A nil user is anonymous.
func AsUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserKey, user)
		}
		c.Next()
	}
}

// MakeRequest creates and executes a test HTTP request.
func MakeRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return MakeAuthRequest(t, router, method, path, "", body)
}

// MakeAuthRequest creates a request with Authorization header. An empty
// token sends no header.
func MakeAuthRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	switch b := body.(type) {
	case nil:
	case string:
		reqBody.WriteString(b)
	default:
		jsonBody, err := json.Marshal(b)
		require.NoError(t, err)
		reqBody.Write(jsonBody)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

// ParseResponse parses JSON response into target struct.
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err)
}

// Envelope is the decoded form of every API response.
type Envelope struct {
	Status  string                     `json:"status"`
	Results *int                       `json:"results"`
	Token   string                     `json:"token"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

// ParseEnvelope decodes the response and, when key is not empty, unmarshals
// data[key] into target.
func ParseEnvelope(t *testing.T, w *httptest.ResponseRecorder, key string, target interface{}) Envelope {
	t.Helper()

	var env Envelope
	ParseResponse(t, w, &env)
	if key != "" && target != nil {
		raw, ok := env.Data[key]
		require.True(t, ok, "response data has no %q: %s", key, w.Body.String())
		require.NoError(t, json.Unmarshal(raw, target))
	}
	return env
}
