package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"tours-api/internal/middleware"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
	"tours-api/internal/service"
	"tours-api/pkg/response"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service service.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service service.UserServicer) *UserHandler {
	return &UserHandler{service: service}
}

// GetMe godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=models.User}
// @Failure      401  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.GetUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "user", user)
}

// UpdateMe godoc
// @Summary      Update current user
// @Description  Change name, email or photo. Passwords are changed through /users/update-my-password.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.UpdateMeRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/update-me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateMe(c.Request.Context(), middleware.GetUser(c).ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "user", user)
}

// DeleteMe godoc
// @Summary      Deactivate current user
// @Tags         users
// @Success      204
// @Security     BearerAuth
// @Router       /users/delete-me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.service.DeleteMe(c.Request.Context(), middleware.GetUser(c).ID); err != nil {
		_ = c.Error(err)
		return
	}
	response.NoContent(c)
}

// CreatePhotoUploadURL godoc
// @Summary      Profile photo upload URL
// @Description  Presigned PUT URL for a new profile photo. Save the returned key with update-me.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      models.UploadURLRequest  true  "Image content type"
// @Success      200      {object}  response.Response{data=models.UploadURLResponse}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      503      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/photo-upload-url [post]
func (h *UserHandler) CreatePhotoUploadURL(c *gin.Context) {
	var req models.UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.service.CreatePhotoUploadURL(c.Request.Context(), middleware.GetUser(c).ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "upload", upload)
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        sort    query     string  false  "Sort fields"
// @Param        fields  query     string  false  "Projected fields"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]models.User}
// @Failure      403     {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	getAll(c, "users", nil, repository.UserFilterSchema, func(ctx context.Context, f *query.Features) ([]models.User, error) {
		return h.service.ListUsers(ctx, f)
	})
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=models.User}
// @Failure      404  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	getOne(c, "user", h.service.GetUser)
}

// UpdateUser godoc
// @Summary      Update user
// @Description  Admin edit of name, email and photo
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "User ID"
// @Param        request  body      models.UpdateUserRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	updateOne(c, "user", h.service.UpdateUser)
}

// UpdateRole godoc
// @Summary      Change role
// @Description  Assign user, guide, lead-guide or admin
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "User ID"
// @Param        request  body      models.UpdateRoleRequest  true  "New role"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	updateOne(c, "user", h.service.UpdateRole)
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         users
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	deleteOne(c, h.service.DeleteUser)
}
