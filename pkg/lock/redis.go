package lock

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/streamhub/pkg/logger"
)

// Redis 基于 redsync 的分布式互斥，多实例部署时使用
type Redis struct {
	rs     *redsync.Redsync
	expiry time.Duration
	tries  int
	prefix string
}

// NewRedis expiry 为锁的自动过期时间，tries 为获取失败时的重试次数
func NewRedis(client redis.UniversalClient, expiry time.Duration, tries int) *Redis {
	if expiry <= 0 {
		expiry = 5 * time.Second
	}
	if tries <= 0 {
		tries = 32
	}
	return &Redis{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		tries:  tries,
		prefix: "streamhub:lock:",
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	m := r.rs.NewMutex(r.prefix+key,
		redsync.WithExpiry(r.expiry),
		redsync.WithTries(r.tries),
		redsync.WithRetryDelay(10*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, errors.Wrapf(ErrNotAcquired, "%s: %v", key, err)
	}
	return func() {
		// 请求 ctx 可能已取消，解锁使用独立的超时
		uctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if ok, err := m.UnlockContext(uctx); !ok || err != nil {
			logger.Warn("release lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
