package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/service/mocks"
	"tours-api/test/fixtures"
	"tours-api/test/testutil"
)

func newAuthRouter(svc *mocks.MockAuthService, user *models.User) *gin.Engine {
	h := NewAuthHandler(svc)
	r := testutil.SetupRouter()
	r.Use(testutil.AsUser(user))
	r.POST("/users/signup", h.Signup)
	r.POST("/users/login", h.Login)
	r.POST("/users/forgot-password", h.ForgotPassword)
	r.PATCH("/users/reset-password/:token", h.ResetPassword)
	r.PATCH("/users/update-my-password", h.UpdatePassword)
	return r
}

func TestNewAuthHandler(t *testing.T) {
	mockService := &mocks.MockAuthService{}
	handler := NewAuthHandler(mockService)

	assert.NotNil(t, handler)
	assert.Equal(t, mockService, handler.service)
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*mocks.MockAuthService)
		expectedStatus int
		checkResponse  func(*testing.T, testutil.Envelope, string)
	}{
		{
			name: "successful signup",
			body: map[string]string{
				"name":            "Laura",
				"email":           "laura@example.com",
				"password":        "test1234",
				"passwordConfirm": "test1234",
			},
			mockSetup: func(m *mocks.MockAuthService) {
				m.SignupFunc = func(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
					assert.Equal(t, "laura@example.com", req.Email)
					return &models.AuthResponse{Token: "jwt", User: fixtures.NewUser().WithEmail(req.Email).BuildPtr()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, env testutil.Envelope, body string) {
				assert.Equal(t, "success", env.Status)
				assert.Equal(t, "jwt", env.Token)
				assert.Contains(t, env.Data, "user")
				assert.NotContains(t, body, "password")
			},
		},
		{
			name: "passwords differ",
			body: map[string]string{
				"name":            "Laura",
				"email":           "laura@example.com",
				"password":        "test1234",
				"passwordConfirm": "test4321",
			},
			mockSetup:      func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, env testutil.Envelope, body string) {
				assert.Equal(t, "fail", env.Status)
				assert.Contains(t, env.Message, "Invalid input data.")
			},
		},
		{
			name: "email taken",
			body: map[string]string{
				"name":            "Laura",
				"email":           "laura@example.com",
				"password":        "test1234",
				"passwordConfirm": "test1234",
			},
			mockSetup: func(m *mocks.MockAuthService) {
				m.SignupFunc = func(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
					return nil, apperrors.ErrEmailTaken
				}
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, env testutil.Envelope, body string) {
				assert.Equal(t, apperrors.ErrEmailTaken.Message, env.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockAuthService{}
			tt.mockSetup(mockService)

			w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPost, "/users/signup", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := testutil.ParseEnvelope(t, w, "", nil)
			tt.checkResponse(t, env, w.Body.String())
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
		expectedMsg    string
	}{
		{"successful login", map[string]string{"email": "admin@natours.io", "password": "test1234"}, nil, http.StatusOK, ""},
		{"wrong credentials", map[string]string{"email": "admin@natours.io", "password": "nope"}, apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
		{"missing password", map[string]string{"email": "admin@natours.io"}, nil, http.StatusBadRequest, "Invalid input data."},
		{"unexpected failure", map[string]string{"email": "admin@natours.io", "password": "x"}, errors.New("db down"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockAuthService{
				LoginFunc: func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.AuthResponse{Token: "jwt", User: fixtures.NewUser().BuildPtr()}, nil
				},
			}

			w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPost, "/users/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := testutil.ParseEnvelope(t, w, "", nil)
			if tt.expectedMsg != "" {
				assert.Contains(t, env.Message, tt.expectedMsg)
				assert.Empty(t, env.Token)
				return
			}
			assert.Equal(t, "jwt", env.Token)
		})
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	t.Run("answers with a message", func(t *testing.T) {
		mockService := &mocks.MockAuthService{
			ForgotPasswordFunc: func(ctx context.Context, req *models.ForgotPasswordRequest) error {
				assert.Equal(t, "jonas@example.com", req.Email)
				return nil
			},
		}

		w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPost, "/users/forgot-password",
			map[string]string{"email": "jonas@example.com"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"success","message":"Token sent to email!"}`, w.Body.String())
	})

	t.Run("delivery failure", func(t *testing.T) {
		mockService := &mocks.MockAuthService{
			ForgotPasswordFunc: func(ctx context.Context, req *models.ForgotPasswordRequest) error {
				return apperrors.ErrEmailDelivery
			},
		}

		w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPost, "/users/forgot-password",
			map[string]string{"email": "jonas@example.com"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "There was an error sending the email. Try again later!")
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("passes the token from the path", func(t *testing.T) {
		mockService := &mocks.MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error) {
				assert.Equal(t, "abc123", token)
				assert.Equal(t, "newpass123", req.Password)
				return &models.AuthResponse{Token: "fresh", User: fixtures.NewUser().BuildPtr()}, nil
			},
		}

		w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPatch, "/users/reset-password/abc123",
			map[string]string{"password": "newpass123", "passwordConfirm": "newpass123"})

		assert.Equal(t, http.StatusOK, w.Code)
		env := testutil.ParseEnvelope(t, w, "", nil)
		assert.Equal(t, "fresh", env.Token)
	})

	t.Run("expired token", func(t *testing.T) {
		mockService := &mocks.MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error) {
				return nil, apperrors.ErrResetTokenInvalid
			},
		}

		w := testutil.MakeRequest(t, newAuthRouter(mockService, nil), http.MethodPatch, "/users/reset-password/abc123",
			map[string]string{"password": "newpass123", "passwordConfirm": "newpass123"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"fail","message":"Token is invalid or has expired"}`, w.Body.String())
	})
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	user := fixtures.NewUser().BuildPtr()

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"updated", nil, http.StatusOK},
		{"wrong current password", apperrors.ErrWrongPassword, http.StatusUnauthorized},
		{"passwords differ", apperrors.ErrPasswordsDiffer, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockAuthService{
				UpdatePasswordFunc: func(ctx context.Context, userID primitive.ObjectID, req *models.UpdatePasswordRequest) (*models.AuthResponse, error) {
					assert.Equal(t, user.ID, userID)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.AuthResponse{Token: "fresh", User: user}, nil
				},
			}

			w := testutil.MakeRequest(t, newAuthRouter(mockService, user), http.MethodPatch, "/users/update-my-password",
				map[string]string{"passwordCurrent": "test1234", "password": "newpass123", "passwordConfirm": "newpass123"})

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
