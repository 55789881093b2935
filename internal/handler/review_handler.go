package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/middleware"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
	"tours-api/internal/service"
)

// ReviewHandler handles HTTP requests for review operations. The same
// handlers serve /reviews and the nested /tours/:id/reviews routes.
type ReviewHandler struct {
	service service.ReviewServicer
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service service.ReviewServicer) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews godoc
// @Summary      List reviews
// @Description  All reviews, or the reviews of one tour on the nested route
// @Tags         reviews
// @Produce      json
// @Param        sort    query     string  false  "Sort fields"
// @Param        rating  query     number  false  "Filter by rating"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]models.Review}
// @Failure      401     {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /reviews [get]
// @Router       /tours/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	tourID := middleware.GetTourID(c)
	getAll(c, "reviews", nil, repository.ReviewFilterSchema, func(ctx context.Context, f *query.Features) ([]models.Review, error) {
		return h.service.ListReviews(ctx, tourID, f)
	})
}

// GetReview godoc
// @Summary      Get review by ID
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  response.Response{data=models.Review}
// @Failure      404  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	getOne(c, "review", h.service.GetReview)
}

// CreateReview godoc
// @Summary      Create review
// @Description  Review a tour. The tour comes from the nested route or from the body.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateReviewRequest  true  "Review"
// @Success      201      {object}  response.Response{data=models.Review}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      403      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /reviews [post]
// @Router       /tours/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	author := middleware.GetUser(c)
	tourID := middleware.GetTourID(c)
	createOne(c, "review", func(ctx context.Context, req *models.CreateReviewRequest) (*models.Review, error) {
		return h.service.CreateReview(ctx, author, tourID, req)
	})
}

// UpdateReview godoc
// @Summary      Update review
// @Description  Authors edit their own reviews; admins edit any
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Review ID"
// @Param        request  body      models.UpdateReviewRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.Review}
// @Failure      403      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor := middleware.GetUser(c)
	updateOne(c, "review", func(ctx context.Context, id primitive.ObjectID, req *models.UpdateReviewRequest) (*models.Review, error) {
		return h.service.UpdateReview(ctx, actor, id, req)
	})
}

// DeleteReview godoc
// @Summary      Delete review
// @Tags         reviews
// @Param        id   path  string  true  "Review ID"
// @Success      204
// @Failure      403  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor := middleware.GetUser(c)
	deleteOne(c, func(ctx context.Context, id primitive.ObjectID) error {
		return h.service.DeleteReview(ctx, actor, id)
	})
}
