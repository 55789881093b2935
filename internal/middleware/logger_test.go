package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours-api/internal/logger"
)

func TestRequestLogger(t *testing.T) {
	newRouter := func(buf *bytes.Buffer) *gin.Engine {
		log := &logger.Logger{Logger: zerolog.New(buf)}
		r := gin.New()
		r.Use(RequestLogger(log))
		r.GET("/tours", func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Info().Msg("inside handler")
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("generates a request id", func(t *testing.T) {
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tours", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var handlerLine, accessLine map[string]interface{}
		require.NoError(t, json.Unmarshal(lines[0], &handlerLine))
		require.NoError(t, json.Unmarshal(lines[1], &accessLine))

		assert.Equal(t, id, handlerLine["request_id"])
		assert.Equal(t, id, accessLine["request_id"])
		assert.Equal(t, "GET", accessLine["method"])
		assert.Equal(t, "/tours", accessLine["path"])
		assert.Equal(t, float64(200), accessLine["status"])
		assert.Equal(t, "info", accessLine["level"])
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		var buf bytes.Buffer
		req := httptest.NewRequest(http.MethodGet, "/tours", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newRouter(&buf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})
}
