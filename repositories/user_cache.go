package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"friendgraph-api/models"
)

const usernameKeyPrefix = "friendgraph:username:"

// CachedUserRepository reads usernames through redis. User rows are never
// updated by this service, so entries only expire by TTL. Redis failures fall
// back to the wrapped repository.
type CachedUserRepository struct {
	next UserRepository
	rdb  *redis.Client
	ttl  time.Duration
}

var _ UserRepository = (*CachedUserRepository)(nil)

func NewCachedUserRepository(next UserRepository, rdb *redis.Client, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{next: next, rdb: rdb, ttl: ttl}
}

func (r *CachedUserRepository) UserExists(ctx context.Context, id string) (bool, error) {
	if _, err := r.rdb.Get(ctx, usernameKeyPrefix+id).Result(); err == nil {
		return true, nil
	}
	return r.next.UserExists(ctx, id)
}

func (r *CachedUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := r.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, user.ID, user.Username)
	return user, nil
}

func (r *CachedUserRepository) GetUsername(ctx context.Context, id string) (string, error) {
	username, err := r.rdb.Get(ctx, usernameKeyPrefix+id).Result()
	if err == nil {
		return username, nil
	}
	if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return "", ctx.Err()
	}

	username, err = r.next.GetUsername(ctx, id)
	if err != nil {
		return "", err
	}
	r.remember(ctx, id, username)
	return username, nil
}

func (r *CachedUserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.next.CountUsers(ctx)
}

func (r *CachedUserRepository) remember(ctx context.Context, id, username string) {
	_ = r.rdb.Set(ctx, usernameKeyPrefix+id, username, r.ttl).Err()
}
