// Package service contains business logic for the application.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/models"
	"tours-api/internal/query"
)

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error)
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, req *models.UpdatePasswordRequest) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// UserServicer defines the interface for user operations.
type UserServicer interface {
	ListUsers(ctx context.Context, f *query.Features) ([]models.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, req *models.UpdateRoleRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	UpdateMe(ctx context.Context, userID primitive.ObjectID, req *models.UpdateMeRequest) (*models.User, error)
	DeleteMe(ctx context.Context, userID primitive.ObjectID) error
	CreatePhotoUploadURL(ctx context.Context, userID primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error)
}

// TourServicer defines the interface for tour operations. viewer is the
// caller, or nil for anonymous requests; it decides secret tour visibility.
type TourServicer interface {
	ListTours(ctx context.Context, viewer *models.User, f *query.Features) ([]models.Tour, error)
	GetTour(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.TourDetail, error)
	CreateTour(ctx context.Context, req *models.CreateTourRequest) (*models.Tour, error)
	UpdateTour(ctx context.Context, id primitive.ObjectID, req *models.UpdateTourRequest) (*models.Tour, error)
	DeleteTour(ctx context.Context, id primitive.ObjectID) error
	GetTourStats(ctx context.Context, viewer *models.User) ([]models.TourStats, error)
	GetMonthlyPlan(ctx context.Context, viewer *models.User, year int) ([]models.MonthlyPlan, error)
	GetToursWithin(ctx context.Context, viewer *models.User, distance float64, geo models.GeoQuery) ([]models.Tour, error)
	GetDistances(ctx context.Context, viewer *models.User, geo models.GeoQuery) ([]models.TourDistance, error)
	CreateImageUploadURL(ctx context.Context, id primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error)
}

// ReviewServicer defines the interface for review operations. A zero tourID
// lists reviews of every tour.
type ReviewServicer interface {
	ListReviews(ctx context.Context, tourID primitive.ObjectID, f *query.Features) ([]models.Review, error)
	GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	CreateReview(ctx context.Context, author *models.User, tourID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, actor *models.User, id primitive.ObjectID, req *models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, actor *models.User, id primitive.ObjectID) error
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer   = (*AuthService)(nil)
	_ UserServicer   = (*UserService)(nil)
	_ TourServicer   = (*TourService)(nil)
	_ ReviewServicer = (*ReviewService)(nil)
)
