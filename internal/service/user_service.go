package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/cache"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
	"tours-api/internal/storage"
)

// UserService handles business logic for user operations.
type UserService struct {
	repo    repository.UserRepository
	cache   cache.Cache
	storage storage.Storage
}

// NewUserService creates a new UserService. store may be nil when uploads
// are not configured.
func NewUserService(repo repository.UserRepository, cache cache.Cache, store storage.Storage) *UserService {
	return &UserService{
		repo:    repo,
		cache:   cache,
		storage: store,
	}
}

// ListUsers runs a list query over active users.
func (s *UserService) ListUsers(ctx context.Context, f *query.Features) ([]models.User, error) {
	if err := f.ValidatePage(ctx, s.repo); err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, f)
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser updates a user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, s.cache, id)
	return user, nil
}

// UpdateRole assigns one of the known roles.
func (s *UserService) UpdateRole(ctx context.Context, id primitive.ObjectID, req *models.UpdateRoleRequest) (*models.User, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, s.cache, id)
	return user, nil
}

// DeleteUser removes a user permanently.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateUser(ctx, s.cache, id)
	return nil
}

// UpdateMe updates the caller's own name, email and photo. Password changes
// are refused here.
func (s *UserService) UpdateMe(ctx context.Context, userID primitive.ObjectID, req *models.UpdateMeRequest) (*models.User, error) {
	if req.Password != nil || req.PasswordConfirm != nil {
		return nil, apperrors.ErrPasswordUpdateOnly
	}

	return s.UpdateUser(ctx, userID, &models.UpdateUserRequest{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
}

// DeleteMe deactivates the caller's account.
func (s *UserService) DeleteMe(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}

	invalidateUser(ctx, s.cache, userID)
	return nil
}

// CreatePhotoUploadURL issues a presigned URL for a new profile photo.
func (s *UserService) CreatePhotoUploadURL(ctx context.Context, userID primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error) {
	return presignImage(ctx, s.storage, req.ContentType, func(ext string) string {
		return storage.UserPhotoKey(userID.Hex(), ext)
	})
}

// presignImage checks the content type and signs an upload for the key built by keyFn.
func presignImage(ctx context.Context, store storage.Storage, contentType string, keyFn func(ext string) string) (*models.UploadURLResponse, error) {
	if store == nil {
		return nil, apperrors.ErrStorageDisabled
	}

	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		return nil, apperrors.ErrInvalidUploadType
	}

	key := keyFn(ext)
	url, err := store.GetPresignedPutURL(ctx, key, contentType, storage.UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &models.UploadURLResponse{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(storage.UploadURLExpiry.Seconds()),
	}, nil
}
