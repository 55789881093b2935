// Package handler contains HTTP handlers for the API.
package handler

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/query"
	"tours-api/pkg/response"
)

// Handlers never render errors. They hand them to the error middleware with
// c.Error and return.

// parseID reads an ObjectID path parameter.
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	raw := c.Param(param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		_ = c.Error(apperrors.InvalidID(raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON binds and validates the request body into req.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}

// getAll runs a list query and renders the (projected) results under key.
func getAll[T any](c *gin.Context, key string, alias url.Values, schema query.Schema,
	list func(ctx context.Context, f *query.Features) ([]T, error)) {
	f := query.New(c.Request.URL.Query(), alias, schema).
		Filter().
		Sort().
		LimitFields().
		Paginate()
	if err := f.Err(); err != nil {
		_ = c.Error(err)
		return
	}

	items, err := list(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shaped, err := f.Shape(items)
	if err != nil {
		_ = c.Error(apperrors.Internal(err))
		return
	}
	response.List(c, key, shaped, len(items))
}

// getOne loads the document named by the :id parameter.
func getOne[T any](c *gin.Context, key string, get func(ctx context.Context, id primitive.ObjectID) (T, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, err := get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, key, doc)
}

// createOne binds a request of type R and renders the created document with 201.
func createOne[R, T any](c *gin.Context, key string, create func(ctx context.Context, req *R) (T, error)) {
	var req R
	if !bindJSON(c, &req) {
		return
	}

	doc, err := create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, key, doc)
}

// updateOne binds a partial update and renders the document after the update.
func updateOne[R, T any](c *gin.Context, key string, update func(ctx context.Context, id primitive.ObjectID, req *R) (T, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req R
	if !bindJSON(c, &req) {
		return
	}

	doc, err := update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, key, doc)
}

// deleteOne removes the document named by :id and answers 204.
func deleteOne(c *gin.Context, remove func(ctx context.Context, id primitive.ObjectID) error) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.NoContent(c)
}
