// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/models"
	"tours-api/internal/query"
)

// MockAuthService is a mock implementation of AuthServicer.
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	LoginFunc          func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	ForgotPasswordFunc func(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPasswordFunc  func(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error)
	UpdatePasswordFunc func(ctx context.Context, userID primitive.ObjectID, req *models.UpdatePasswordRequest) (*models.AuthResponse, error)
	AuthenticateFunc   func(ctx context.Context, token string) (*models.User, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, req)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token string, req *models.ResetPasswordRequest) (*models.AuthResponse, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, req)
	}
	return nil, nil
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, req *models.UpdatePasswordRequest) (*models.AuthResponse, error) {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, nil
}

// MockUserService is a mock implementation of UserServicer.
type MockUserService struct {
	ListUsersFunc            func(ctx context.Context, f *query.Features) ([]models.User, error)
	GetUserFunc              func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUserFunc           func(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error)
	UpdateRoleFunc           func(ctx context.Context, id primitive.ObjectID, req *models.UpdateRoleRequest) (*models.User, error)
	DeleteUserFunc           func(ctx context.Context, id primitive.ObjectID) error
	UpdateMeFunc             func(ctx context.Context, userID primitive.ObjectID, req *models.UpdateMeRequest) (*models.User, error)
	DeleteMeFunc             func(ctx context.Context, userID primitive.ObjectID) error
	CreatePhotoUploadURLFunc func(ctx context.Context, userID primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error)
}

func (m *MockUserService) ListUsers(ctx context.Context, f *query.Features) ([]models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, f)
	}
	return nil, nil
}

func (m *MockUserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockUserService) UpdateRole(ctx context.Context, id primitive.ObjectID, req *models.UpdateRoleRequest) (*models.User, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *MockUserService) UpdateMe(ctx context.Context, userID primitive.ObjectID, req *models.UpdateMeRequest) (*models.User, error) {
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockUserService) DeleteMe(ctx context.Context, userID primitive.ObjectID) error {
	if m.DeleteMeFunc != nil {
		return m.DeleteMeFunc(ctx, userID)
	}
	return nil
}

func (m *MockUserService) CreatePhotoUploadURL(ctx context.Context, userID primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error) {
	if m.CreatePhotoUploadURLFunc != nil {
		return m.CreatePhotoUploadURLFunc(ctx, userID, req)
	}
	return nil, nil
}

// MockTourService is a mock implementation of TourServicer.
type MockTourService struct {
	ListToursFunc            func(ctx context.Context, viewer *models.User, f *query.Features) ([]models.Tour, error)
	GetTourFunc              func(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.TourDetail, error)
	CreateTourFunc           func(ctx context.Context, req *models.CreateTourRequest) (*models.Tour, error)
	UpdateTourFunc           func(ctx context.Context, id primitive.ObjectID, req *models.UpdateTourRequest) (*models.Tour, error)
	DeleteTourFunc           func(ctx context.Context, id primitive.ObjectID) error
	GetTourStatsFunc         func(ctx context.Context, viewer *models.User) ([]models.TourStats, error)
	GetMonthlyPlanFunc       func(ctx context.Context, viewer *models.User, year int) ([]models.MonthlyPlan, error)
	GetToursWithinFunc       func(ctx context.Context, viewer *models.User, distance float64, geo models.GeoQuery) ([]models.Tour, error)
	GetDistancesFunc         func(ctx context.Context, viewer *models.User, geo models.GeoQuery) ([]models.TourDistance, error)
	CreateImageUploadURLFunc func(ctx context.Context, id primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error)
}

func (m *MockTourService) ListTours(ctx context.Context, viewer *models.User, f *query.Features) ([]models.Tour, error) {
	if m.ListToursFunc != nil {
		return m.ListToursFunc(ctx, viewer, f)
	}
	return nil, nil
}

func (m *MockTourService) GetTour(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.TourDetail, error) {
	if m.GetTourFunc != nil {
		return m.GetTourFunc(ctx, viewer, id)
	}
	return nil, nil
}

func (m *MockTourService) CreateTour(ctx context.Context, req *models.CreateTourRequest) (*models.Tour, error) {
	if m.CreateTourFunc != nil {
		return m.CreateTourFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockTourService) UpdateTour(ctx context.Context, id primitive.ObjectID, req *models.UpdateTourRequest) (*models.Tour, error) {
	if m.UpdateTourFunc != nil {
		return m.UpdateTourFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockTourService) DeleteTour(ctx context.Context, id primitive.ObjectID) error {
	if m.DeleteTourFunc != nil {
		return m.DeleteTourFunc(ctx, id)
	}
	return nil
}

func (m *MockTourService) GetTourStats(ctx context.Context, viewer *models.User) ([]models.TourStats, error) {
	if m.GetTourStatsFunc != nil {
		return m.GetTourStatsFunc(ctx, viewer)
	}
	return nil, nil
}

func (m *MockTourService) GetMonthlyPlan(ctx context.Context, viewer *models.User, year int) ([]models.MonthlyPlan, error) {
	if m.GetMonthlyPlanFunc != nil {
		return m.GetMonthlyPlanFunc(ctx, viewer, year)
	}
	return nil, nil
}

func (m *MockTourService) GetToursWithin(ctx context.Context, viewer *models.User, distance float64, geo models.GeoQuery) ([]models.Tour, error) {
	if m.GetToursWithinFunc != nil {
		return m.GetToursWithinFunc(ctx, viewer, distance, geo)
	}
	return nil, nil
}

func (m *MockTourService) GetDistances(ctx context.Context, viewer *models.User, geo models.GeoQuery) ([]models.TourDistance, error) {
	if m.GetDistancesFunc != nil {
		return m.GetDistancesFunc(ctx, viewer, geo)
	}
	return nil, nil
}

func (m *MockTourService) CreateImageUploadURL(ctx context.Context, id primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error) {
	if m.CreateImageUploadURLFunc != nil {
		return m.CreateImageUploadURLFunc(ctx, id, req)
	}
	return nil, nil
}

// MockReviewService is a mock implementation of ReviewServicer.
type MockReviewService struct {
	ListReviewsFunc  func(ctx context.Context, tourID primitive.ObjectID, f *query.Features) ([]models.Review, error)
	GetReviewFunc    func(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	CreateReviewFunc func(ctx context.Context, author *models.User, tourID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, error)
	UpdateReviewFunc func(ctx context.Context, actor *models.User, id primitive.ObjectID, req *models.UpdateReviewRequest) (*models.Review, error)
	DeleteReviewFunc func(ctx context.Context, actor *models.User, id primitive.ObjectID) error
}

func (m *MockReviewService) ListReviews(ctx context.Context, tourID primitive.ObjectID, f *query.Features) ([]models.Review, error) {
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, tourID, f)
	}
	return nil, nil
}

func (m *MockReviewService) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	if m.GetReviewFunc != nil {
		return m.GetReviewFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockReviewService) CreateReview(ctx context.Context, author *models.User, tourID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, error) {
	if m.CreateReviewFunc != nil {
		return m.CreateReviewFunc(ctx, author, tourID, req)
	}
	return nil, nil
}

func (m *MockReviewService) UpdateReview(ctx context.Context, actor *models.User, id primitive.ObjectID, req *models.UpdateReviewRequest) (*models.Review, error) {
	if m.UpdateReviewFunc != nil {
		return m.UpdateReviewFunc(ctx, actor, id, req)
	}
	return nil, nil
}

func (m *MockReviewService) DeleteReview(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if m.DeleteReviewFunc != nil {
		return m.DeleteReviewFunc(ctx, actor, id)
	}
	return nil
}
