// Package cache puts a Redis read-through layer in front of user lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/streamhub/internal/model"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/pkg/logger"
)

// userSnapshot 缓存的用户资料，不含密码与 refresh token
type userSnapshot struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserCache 用户资料创建后不再修改，按 TTL 过期即可。
// Create 与 ExistsByUsernameOrEmail 直接透传。
type UserCache struct {
	repository.UserRepository
	rdb redis.UniversalClient
	ttl time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

var _ repository.UserRepository = (*UserCache)(nil)

func NewUserCache(inner repository.UserRepository, rdb redis.UniversalClient, ttl time.Duration) *UserCache {
	return &UserCache{UserRepository: inner, rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("streamhub:user:%s", id) }

// GetByID Redis 不可用时退化为直接查库
func (c *UserCache) GetByID(ctx context.Context, id string) (*model.User, error) {
	if data, err := c.rdb.Get(ctx, key(id)).Bytes(); err == nil {
		var snap userSnapshot
		if uErr := json.Unmarshal(data, &snap); uErr == nil {
			c.hits.Add(1)
			return snap.user(), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("user cache get failed", zap.String("user_id", id), zap.Error(err))
	}

	c.misses.Add(1)
	u, err := c.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(snapshotOf(u)); err == nil {
		if err := c.rdb.Set(ctx, key(id), payload, c.ttl).Err(); err != nil {
			logger.Warn("user cache set failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return u, nil
}

// Counters 命中与回源次数
func (c *UserCache) Counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func snapshotOf(u *model.User) userSnapshot {
	return userSnapshot{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (s userSnapshot) user() *model.User {
	return &model.User{
		ID:         s.ID,
		Username:   s.Username,
		Email:      s.Email,
		FullName:   s.FullName,
		Avatar:     s.Avatar,
		CoverImage: s.CoverImage,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
