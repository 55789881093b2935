// Package errors provides custom error types for the application.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is an error that carries the HTTP status it should be rendered
// with. Operational errors are expected failures whose message is safe to
// show to clients.
type AppError struct {
	StatusCode  int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status is "fail" for client errors and "error" for everything else.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// New creates an operational error.
func New(statusCode int, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Operational: true}
}

// Internal wraps an unexpected failure. Its message is hidden in production.
func Internal(err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: "Internal Server Error", Err: err}
}

// InvalidID reports a value that is not a valid document id.
func InvalidID(value string) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf("Invalid id: %s.", value))
}

// InvalidValue reports a query or path value that cannot be cast to the field type.
func InvalidValue(field, value string) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s.", field, value))
}

// Duplicate reports a unique index violation.
func Duplicate(value string) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf("Duplicate field value: %s. Please use another value!", value))
}

// Validation joins field messages into a single 400 error.
func Validation(messages []string) *AppError {
	return New(http.StatusBadRequest, "Invalid input data. "+strings.Join(messages, ". "))
}

// From returns the *AppError inside err, if any.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Document errors
var (
	ErrDocumentNotFound = New(http.StatusNotFound, "No document found with that ID")
	ErrPageNotFound     = New(http.StatusNotFound, "This page does not exist")
	ErrRouteNotFound    = New(http.StatusNotFound, "Can't find this route on this server")
)

// Auth errors
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Incorrect email or password")
	ErrNotLoggedIn        = New(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token. Please log in again!")
	ErrTokenExpired       = New(http.StatusUnauthorized, "Your token has expired! Please log in again.")
	ErrUserNoLongerExists = New(http.StatusUnauthorized, "The user belonging to this token does no longer exist.")
	ErrPasswordChanged    = New(http.StatusUnauthorized, "User recently changed password! Please log in again.")
	ErrForbidden          = New(http.StatusForbidden, "You do not have permission to perform this action")
)

// Password errors
var (
	ErrWrongPassword      = New(http.StatusUnauthorized, "Your current password is wrong.")
	ErrPasswordsDiffer    = New(http.StatusBadRequest, "Passwords are not the same!")
	ErrResetTokenInvalid  = New(http.StatusBadRequest, "Token is invalid or has expired")
	ErrEmailDelivery      = New(http.StatusInternalServerError, "There was an error sending the email. Try again later!")
	ErrPasswordUpdateOnly = New(http.StatusBadRequest, "This route is not for password updates. Please use /update-my-password.")
)

// User errors
var (
	ErrEmailTaken  = Duplicate("email")
	ErrInvalidRole = New(http.StatusBadRequest, "Invalid or missing role value")
)

// Tour errors
var (
	ErrInvalidLatLng     = New(http.StatusBadRequest, "Please provide latitude and longitude in the format lat,lng.")
	ErrInvalidUnit       = New(http.StatusBadRequest, "Unit must be either mi or km.")
	ErrInvalidDistance   = New(http.StatusBadRequest, "Distance must be a positive number.")
	ErrInvalidYear       = New(http.StatusBadRequest, "Year must be a four digit number.")
	ErrDiscountTooHigh   = New(http.StatusBadRequest, "Discount price should be below regular price")
	ErrStorageDisabled   = New(http.StatusServiceUnavailable, "File uploads are not configured")
	ErrInvalidUploadType = New(http.StatusBadRequest, "Only jpeg, png and webp images can be uploaded")
)

// Review errors
var (
	ErrNotReviewOwner = New(http.StatusForbidden, "You can only modify your own reviews")
	ErrTourRequired   = New(http.StatusBadRequest, "Review must belong to a tour")
	ErrReviewExists   = New(http.StatusBadRequest, "You have already reviewed this tour")
)

// Request errors
var (
	ErrTooManyRequests = New(http.StatusTooManyRequests, "Too many requests from this IP, please try again in an hour!")
	ErrBodyTooLarge    = New(http.StatusRequestEntityTooLarge, "Request body is too large")
	ErrMalformedBody   = New(http.StatusBadRequest, "Malformed request body")
)
