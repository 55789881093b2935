// Package response provides standard API response helpers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API response format.
type Response struct {
	Status  string      `json:"status" example:"success"`
	Results *int        `json:"results,omitempty" example:"9"`
	Token   string      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is rendered for every failed request. Error and Stack are
// only filled in development.
type ErrorResponse struct {
	Status  string       `json:"status" example:"fail"`
	Message string       `json:"message" example:"No document found with that ID"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Stack   string       `json:"stack,omitempty"`
}

// ErrorDetail describes the underlying error in development responses.
type ErrorDetail struct {
	Name       string `json:"name"`
	StatusCode int    `json:"statusCode"`
	Details    string `json:"details,omitempty"`
}

// StatusSuccess is the status of every successful response.
const StatusSuccess = "success"

// Success sends a 200 response with data under key.
func Success(c *gin.Context, key string, value interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   gin.H{key: value},
	})
}

// Created sends a 201 response with data under key.
func Created(c *gin.Context, key string, value interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: StatusSuccess,
		Data:   gin.H{key: value},
	})
}

// List sends a 200 response with a result count.
func List(c *gin.Context, key string, items interface{}, count int) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Results: &count,
		Data:    gin.H{key: items},
	})
}

// Token sends a response carrying a signed token and the user it belongs to.
func Token(c *gin.Context, status int, token string, user interface{}) {
	c.JSON(status, Response{
		Status: StatusSuccess,
		Token:  token,
		Data:   gin.H{"user": user},
	})
}

// Message sends a 200 response with a message and no data.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
	})
}

// NoContent sends a 204 No Content response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error aborts the request with an error body.
func Error(c *gin.Context, status int, body ErrorResponse) {
	c.AbortWithStatusJSON(status, body)
}
