package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tours-api/internal/database"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/query"
)

//go:generate mockgen -destination=mocks/mock_user_repository.go -package=mocks tours-api/internal/repository UserRepository

// UserRepository defines the interface for user data operations.
// Deactivated users are invisible to every method except Delete.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	Find(ctx context.Context, f *query.Features) ([]models.User, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update *models.UpdateUserRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string, changedAt time.Time) (*models.User, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserFilterSchema lists the user fields a list query may filter on.
var UserFilterSchema = query.Schema{
	"name":  query.String,
	"email": query.String,
	"role":  query.String,
	"photo": query.String,
}

// activeOnly hides soft-deleted users. Documents without the flag are active.
var activeOnly = bson.M{"active": bson.M{"$ne": false}}

// userRepository implements UserRepository using MongoDB
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection(database.UsersCollection),
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	// Check if user with email already exists
	existing, _ := r.FindByEmail(ctx, user.Email)
	if existing != nil {
		return apperrors.ErrEmailTaken
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Photo == "" {
		user.Photo = models.DefaultPhoto
	}
	user.Active = true
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, and(filter, activeOnly)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByID finds a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds a user by their email, including the password hash.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// FindSummaries loads the public profile of each listed user.
func (r *userRepository) FindSummaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "photo": 1, "role": 1})
	cursor, err := r.collection.Find(ctx, and(bson.M{"_id": bson.M{"$in": ids}}, activeOnly), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	// Keep the order of ids.
	byID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]models.UserSummary, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

// Find runs a list query.
func (r *userRepository) Find(ctx context.Context, f *query.Features) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, and(f.FilterDoc(), activeOnly), f.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	// Return empty slice instead of nil
	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// Count counts active users matching filter.
func (r *userRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, and(filter, activeOnly))
}

func (r *userRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		and(bson.M{"_id": id}, activeOnly),
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update updates a user's profile fields
func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, update *models.UpdateUserRequest) (*models.User, error) {
	set := bson.M{}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		// Check if new email is already taken by another user
		existing, _ := r.FindByEmail(ctx, email)
		if existing != nil && existing.ID != id {
			return nil, apperrors.ErrEmailTaken
		}
		set["email"] = email
	}
	if update.Name != nil {
		set["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Photo != nil {
		set["photo"] = *update.Photo
	}

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.updateOne(ctx, id, bson.M{"$set": set})
}

// UpdateRole changes only the role field.
func (r *userRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"role": role}})
}

// SetPassword stores a new hash and stamps the change time.
func (r *userRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error {
	_, err := r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": hash, "passwordChangedAt": changedAt}})
	return err
}

// SetResetToken stores the hashed reset token and its expiry.
func (r *userRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": expires,
	}})
	return err
}

// ClearResetToken removes any pending reset token.
func (r *userRepository) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.updateOne(ctx, id, bson.M{"$unset": bson.M{
		"passwordResetToken":   "",
		"passwordResetExpires": "",
	}})
	return err
}

// ConsumeResetToken atomically finds the user holding an unexpired token,
// sets the new password and clears the token, so a token works only once.
func (r *userRepository) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string, changedAt time.Time) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		and(bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": bson.M{"$gt": now},
		}, activeOnly),
		bson.M{
			"$set":   bson.M{"password": passwordHash, "passwordChangedAt": changedAt},
			"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &user, nil
}

// Deactivate soft-deletes a user.
func (r *userRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.updateOne(ctx, id, bson.M{"$set": bson.M{"active": false}})
	return err
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrDocumentNotFound
	}

	return nil
}
