package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/cache"
	"tours-api/internal/logger"
	"tours-api/internal/models"
	"tours-api/internal/repository"
)

// userLoader reads users through the identity cache. Cache failures are
// logged and fall through to MongoDB.
type userLoader struct {
	users repository.UserRepository
	cache cache.Cache
	ttl   time.Duration
}

func (l *userLoader) load(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	key := cache.UserCacheKey(id.Hex())

	if l.cache != nil {
		var cached models.User
		found, err := l.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("user cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	user, err := l.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, user, l.ttl); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("user cache write failed")
		}
	}
	return user, nil
}

// invalidateUser drops the cached identity after any user mutation.
func invalidateUser(ctx context.Context, c cache.Cache, id primitive.ObjectID) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, cache.UserCacheKey(id.Hex())); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("user", id.Hex()).Msg("user cache invalidation failed")
	}
}
