package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/authz"
	apperrors "tours-api/internal/errors"
)

// Context keys for storing nested route data
const (
	TourIDKey = "tourID"
)

// RestrictTo returns a middleware that lets the request through only when
// the user's role may perform action. Must run after Protect.
func RestrictTo(authorizer authz.Authorizer, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			abortWithError(c, apperrors.ErrNotLoggedIn)
			return
		}

		if !authorizer.Can(user.Role, action) {
			abortWithError(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// NestedTour reads the tour id of a nested route such as
// /tours/:id/reviews from param and stores it in the context.
func NestedTour(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(param)
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, apperrors.InvalidID(raw))
			return
		}

		c.Set(TourIDKey, id)
		c.Next()
	}
}

// GetTourID returns the tour id set by NestedTour, or the zero id outside a
// nested route.
func GetTourID(c *gin.Context) primitive.ObjectID {
	v, exists := c.Get(TourIDKey)
	if !exists {
		return primitive.NilObjectID
	}
	id, _ := v.(primitive.ObjectID)
	return id
}
