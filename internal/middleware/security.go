package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the standard hardening headers.
func SecurityHeaders(development bool) gin.HandlerFunc {
	return secure.New(secure.Config{
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "no-referrer",
		STSSeconds:           15552000,
		STSIncludeSubdomains: true,
		IENoOpen:             true,
		IsDevelopment:        development,
	})
}

// CORS allows any origin to call the API.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:          24 * time.Hour,
	})
}

// BodyLimit caps the request body at limit bytes. Reads past the limit fail
// with *http.MaxBytesError, which the error handler renders as 413.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// Sanitize removes keys starting with "$" from JSON bodies and the query
// string so they can never reach a MongoDB filter.
func Sanitize() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		dirty := false
		for key := range query {
			if strings.HasPrefix(key, "$") {
				query.Del(key)
				dirty = true
			}
		}
		if dirty {
			c.Request.URL.RawQuery = query.Encode()
		}

		if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(sanitizeJSON(raw)))
		c.Next()
	}
}

// sanitizeJSON returns raw with operator keys removed. Bodies that are not
// valid JSON are returned unchanged so binding can report them.
func sanitizeJSON(raw []byte) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return raw
	}
	if !stripOperators(doc) {
		return raw
	}

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return raw
	}
	return out.Bytes()
}

// stripOperators reports whether anything was removed.
func stripOperators(v interface{}) bool {
	removed := false
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if strings.HasPrefix(k, "$") {
				delete(t, k)
				removed = true
				continue
			}
			if stripOperators(child) {
				removed = true
			}
		}
	case []interface{}:
		for _, child := range t {
			if stripOperators(child) {
				removed = true
			}
		}
	}
	return removed
}
