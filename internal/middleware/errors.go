package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/logger"
	customvalidator "tours-api/internal/validator"
	"tours-api/pkg/response"
)

// dupValue matches the quoted key value in a MongoDB E11000 message.
var dupValue = regexp.MustCompile(`(["'])(\\?.)*?["']`)

// PanicError carries a recovered panic to the error handler.
type PanicError struct {
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Development responses include the error detail and stack; production
// responses hide the message of anything that is not operational.
func ErrorHandler(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		cause := c.Errors.Last().Err
		appErr := Normalize(cause)

		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).Error().
				Err(cause).
				Str("path", c.Request.URL.Path).
				Msg("request failed")
		}

		if c.Writer.Written() {
			return
		}
		response.Error(c, appErr.StatusCode, render(appErr, cause, development))
	}
}

func render(appErr *apperrors.AppError, cause error, development bool) response.ErrorResponse {
	body := response.ErrorResponse{Status: appErr.Status(), Message: appErr.Message}

	if development {
		body.Error = &response.ErrorDetail{
			Name:       fmt.Sprintf("%T", cause),
			StatusCode: appErr.StatusCode,
			Details:    cause.Error(),
		}
		var panicErr *PanicError
		if errors.As(cause, &panicErr) {
			body.Stack = panicErr.Stack
		}
		return body
	}

	if !appErr.Operational && appErr.StatusCode >= http.StatusInternalServerError {
		body.Message = "Internal Server Error"
	}
	return body
}

// Normalize maps driver, decoding and validation errors onto AppErrors.
// Anything unrecognised becomes a non-operational 500.
func Normalize(err error) *apperrors.AppError {
	if appErr, ok := apperrors.From(err); ok {
		return appErr
	}

	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		maxBytesErr    *http.MaxBytesError
	)

	switch {
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Duplicate(duplicateValue(err))
	case errors.Is(err, primitive.ErrInvalidHex):
		return apperrors.New(http.StatusBadRequest, "Invalid id.")
	case errors.As(err, &validationErrs):
		return apperrors.Validation(customvalidator.Messages(validationErrs))
	case errors.As(err, &maxBytesErr):
		return apperrors.ErrBodyTooLarge
	case errors.As(err, &typeErr):
		return apperrors.InvalidValue(typeErr.Field, typeErr.Value)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.ErrMalformedBody
	}

	return apperrors.Internal(err)
}

func duplicateValue(err error) string {
	if v := dupValue.FindString(err.Error()); v != "" {
		return v
	}
	return "value"
}

// Recovery turns a panic into a 500 rendered by ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if r == http.ErrAbortHandler {
					panic(r)
				}
				abortWithError(c, &PanicError{Value: r, Stack: string(debug.Stack())})
			}
		}()
		c.Next()
	}
}
