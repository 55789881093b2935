package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tours-api/internal/middleware"
	"tours-api/internal/models"
	"tours-api/internal/service"
	"tours-api/pkg/response"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	service service.AuthServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service service.AuthServicer) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup godoc
// @Summary      Sign up
// @Description  Create a user account and log it in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.SignupRequest  true  "Account details"
// @Success      201      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Router       /users/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Token(c, http.StatusCreated, result.Token, result.User)
}

// Login godoc
// @Summary      Log in
// @Description  Exchange email and password for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Token(c, http.StatusOK, result.Token, result.User)
}

// ForgotPassword godoc
// @Summary      Forgot password
// @Description  Email a password reset link. The answer is the same whether or not the address is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /users/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		_ = c.Error(err)
		return
	}

	response.Message(c, "Token sent to email!")
}

// ResetPassword godoc
// @Summary      Reset password
// @Description  Set a new password with the token from the reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token    path      string                       true  "Reset token"
// @Param        request  body      models.ResetPasswordRequest  true  "New password"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Router       /users/reset-password/{token} [patch]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Token(c, http.StatusOK, result.Token, result.User)
}

// UpdatePassword godoc
// @Summary      Update password
// @Description  Change the password of the logged in user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.UpdatePasswordRequest  true  "Current and new password"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /users/update-my-password [patch]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req models.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user := middleware.GetUser(c)
	result, err := h.service.UpdatePassword(c.Request.Context(), user.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Token(c, http.StatusOK, result.Token, result.User)
}
