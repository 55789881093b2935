package repository

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/query"
)

func newUser(name, email string) *models.User {
	return &models.User{Name: name, Email: email, Password: "hashedpassword"}
}

func TestUserRepository_Create(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	t.Run("applies defaults and lowercases email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")
		user := newUser("Jonas", " Jonas@Example.com ")

		require.NoError(t, repo.Create(ctx, user))

		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "jonas@example.com", user.Email)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, models.DefaultPhoto, user.Photo)
		assert.True(t, user.Active)
	})

	t.Run("returns error for duplicate email", func(t *testing.T) {
		tdb.ClearCollection(t, "users")
		require.NoError(t, repo.Create(ctx, newUser("User One", "dup@example.com")))

		err := repo.Create(ctx, newUser("User Two", "DUP@example.com"))

		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})
}

func TestUserRepository_SoftDelete(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	active := newUser("Active", "active@example.com")
	gone := newUser("Gone", "gone@example.com")
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, gone))

	require.NoError(t, repo.Deactivate(ctx, gone.ID))

	t.Run("deactivated user is invisible", func(t *testing.T) {
		_, err := repo.FindByID(ctx, gone.ID)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)

		_, err = repo.FindByEmail(ctx, "gone@example.com")
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})

	t.Run("lists and counts exclude deactivated users", func(t *testing.T) {
		f := query.New(url.Values{}, nil, UserFilterSchema).Filter().Sort().LimitFields().Paginate()

		users, err := repo.Find(ctx, f)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, active.ID, users[0].ID)

		count, err := repo.Count(ctx, f.FilterDoc())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("summaries skip deactivated users and keep order", func(t *testing.T) {
		other := newUser("Other", "other@example.com")
		require.NoError(t, repo.Create(ctx, other))

		summaries, err := repo.FindSummaries(ctx, []primitive.ObjectID{other.ID, gone.ID, active.ID})

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Other", summaries[0].Name)
		assert.Equal(t, "Active", summaries[1].Name)
	})
}

func TestUserRepository_Update(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	a := newUser("Alice", "alice@example.com")
	b := newUser("Bob", "bob@example.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	t.Run("updates profile fields", func(t *testing.T) {
		name := "Alicia"
		updated, err := repo.Update(ctx, a.ID, &models.UpdateUserRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
	})

	t.Run("rejects email of another user", func(t *testing.T) {
		email := "bob@example.com"
		_, err := repo.Update(ctx, a.ID, &models.UpdateUserRequest{Email: &email})

		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("changes role", func(t *testing.T) {
		updated, err := repo.UpdateRole(ctx, b.ID, models.RoleGuide)

		require.NoError(t, err)
		assert.Equal(t, models.RoleGuide, updated.Role)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.UpdateRole(ctx, primitive.NewObjectID(), models.RoleGuide)

		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})

	t.Run("sets password and change time", func(t *testing.T) {
		changed := time.Now().Add(-time.Second).Truncate(time.Millisecond)
		require.NoError(t, repo.SetPassword(ctx, a.ID, "newhash", changed))

		user, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "newhash", user.Password)
		require.NotNil(t, user.PasswordChangedAt)
		assert.True(t, changed.Equal(*user.PasswordChangedAt))
	})
}

func TestUserRepository_ResetToken(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	user := newUser("Reset", "reset@example.com")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("token is single use", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.SetResetToken(ctx, user.ID, "tokenhash", now.Add(10*time.Minute)))

		consumed, err := repo.ConsumeResetToken(ctx, "tokenhash", now, "newhash", now)
		require.NoError(t, err)
		assert.Equal(t, user.ID, consumed.ID)
		assert.Equal(t, "newhash", consumed.Password)
		assert.Empty(t, consumed.PasswordResetToken)
		assert.Nil(t, consumed.PasswordResetExpires)

		_, err = repo.ConsumeResetToken(ctx, "tokenhash", now, "otherhash", now)
		assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.SetResetToken(ctx, user.ID, "expiredhash", now.Add(-time.Minute)))

		_, err := repo.ConsumeResetToken(ctx, "expiredhash", now, "newhash", now)

		assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
	})

	t.Run("cleared token is rejected", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.SetResetToken(ctx, user.ID, "clearedhash", now.Add(10*time.Minute)))
		require.NoError(t, repo.ClearResetToken(ctx, user.ID))

		_, err := repo.ConsumeResetToken(ctx, "clearedhash", now, "newhash", now)

		assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewUserRepository(tdb.Database)
	ctx := context.Background()

	user := newUser("Doomed", "doomed@example.com")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), apperrors.ErrDocumentNotFound)
}
