package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "tasktracker:user:email:"

// UserCache keeps session users in a process-local LRU (L1) backed by an
// optional Redis (L2). Users are never updated or deleted, so entries only
// expire by capacity and TTL.
type UserCache struct {
	l1    *LRU[string, models.User]
	l2    *redis.Client
	l2TTL time.Duration
}

// NewUserCache builds a cache; redisClient may be nil to run L1 only.
func NewUserCache(l1Capacity int, redisClient *redis.Client, l2TTL time.Duration) *UserCache {
	return &UserCache{
		l1:    NewLRU[string, models.User](l1Capacity),
		l2:    redisClient,
		l2TTL: l2TTL,
	}
}

type cachedUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// GetUser returns the cached user for email. Redis failures count as misses.
func (c *UserCache) GetUser(ctx context.Context, email string) (*models.User, bool) {
	if user, found := c.l1.Get(email); found {
		return &user, true
	}

	if c.l2 == nil {
		return nil, false
	}

	val, err := c.l2.Get(ctx, userKeyPrefix+email).Result()
	if err != nil {
		return nil, false
	}

	var cached cachedUser
	if err := json.Unmarshal([]byte(val), &cached); err != nil || cached.Email != email {
		return nil, false
	}

	user := models.User{ID: cached.ID, Email: cached.Email}
	c.l1.Set(email, user)
	return &user, true
}

// SetUser caches the user without its password hash.
func (c *UserCache) SetUser(ctx context.Context, user *models.User) error {
	stripped := models.User{ID: user.ID, Email: user.Email}
	c.l1.Set(user.Email, stripped)

	if c.l2 == nil {
		return nil
	}

	data, err := json.Marshal(cachedUser{ID: user.ID, Email: user.Email})
	if err != nil {
		return err
	}

	if err := c.l2.Set(ctx, userKeyPrefix+user.Email, data, c.l2TTL).Err(); err != nil {
		return fmt.Errorf("failed to write user to redis: %w", err)
	}
	return nil
}

func (c *UserCache) Delete(ctx context.Context, email string) error {
	c.l1.Delete(email)

	if c.l2 == nil {
		return nil
	}
	if err := c.l2.Del(ctx, userKeyPrefix+email).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (c *UserCache) Len() int {
	return c.l1.Len()
}
