package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/authz"
	"tours-api/internal/models"
)

func TestRestrictTo(t *testing.T) {
	tests := []struct {
		name           string
		user           *models.User
		action         string
		expectedStatus int
	}{
		{"admin writes tours", &models.User{Role: models.RoleAdmin}, authz.ActionTourWrite, http.StatusOK},
		{"lead guide writes tours", &models.User{Role: models.RoleLeadGuide}, authz.ActionTourWrite, http.StatusOK},
		{"guide cannot write tours", &models.User{Role: models.RoleGuide}, authz.ActionTourWrite, http.StatusForbidden},
		{"guide sees the monthly plan", &models.User{Role: models.RoleGuide}, authz.ActionTourPlan, http.StatusOK},
		{"admin cannot post reviews", &models.User{Role: models.RoleAdmin}, authz.ActionReviewCreate, http.StatusForbidden},
		{"no user", nil, authz.ActionTourWrite, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			setUser := func(c *gin.Context) {
				if tt.user != nil {
					c.Set(UserKey, tt.user)
				}
				c.Next()
			}
			r := newTestRouter(setUser, RestrictTo(authz.DefaultPolicy, tt.action))
			r.GET("/", func(c *gin.Context) {
				handlerCalled = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, handlerCalled)
		})
	}

	t.Run("forbidden message", func(t *testing.T) {
		setUser := func(c *gin.Context) { c.Set(UserKey, &models.User{Role: models.RoleUser}); c.Next() }
		r := newTestRouter(setUser, RestrictTo(authz.DefaultPolicy, authz.ActionUserAdmin))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.JSONEq(t, `{"status":"fail","message":"You do not have permission to perform this action"}`, w.Body.String())
	})
}

func TestNestedTour(t *testing.T) {
	t.Run("stores the tour id", func(t *testing.T) {
		id := primitive.NewObjectID()
		var captured primitive.ObjectID
		r := newTestRouter()
		r.GET("/tours/:id/reviews", NestedTour("id"), func(c *gin.Context) {
			captured = GetTourID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tours/"+id.Hex()+"/reviews", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, captured)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/tours/:id/reviews", NestedTour("id"), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tours/abc/reviews", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid id: abc.")
	})

	t.Run("zero id outside nested routes", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		assert.True(t, GetTourID(c).IsZero())
	})
}
