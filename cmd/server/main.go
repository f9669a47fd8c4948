package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/streamhub/config"
	"github.com/d60-Lab/streamhub/internal/api"
	"github.com/d60-Lab/streamhub/internal/api/handler"
	"github.com/d60-Lab/streamhub/internal/cache"
	"github.com/d60-Lab/streamhub/internal/repository"
	"github.com/d60-Lab/streamhub/internal/service"
	"github.com/d60-Lab/streamhub/pkg/database"
	"github.com/d60-Lab/streamhub/pkg/lock"
	"github.com/d60-Lab/streamhub/pkg/logger"
	"github.com/d60-Lab/streamhub/pkg/monitor"
	"github.com/d60-Lab/streamhub/pkg/storage"
	"github.com/d60-Lab/streamhub/pkg/tracing"
)

// @title StreamHub API
// @version 1.0
// @description 视频平台社交关系与互动聚合服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer logger.Sync()

	flush, err := monitor.Init(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer database.Close(db)

	var rdb *redis.Client
	if cfg.Lock.Provider == "redis" || cfg.Cache.ProfileTTL > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.Lock.Provider == "redis" {
		locker = lock.NewRedis(rdb, cfg.Lock.Expiry, cfg.Lock.Tries)
	}

	media, err := storage.NewMinio(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// repositories & services
	users := repository.NewUserRepository(db)
	if cfg.Cache.ProfileTTL > 0 {
		users = cache.NewUserCache(users, rdb, cfg.Cache.ProfileTTL)
	}
	videos := repository.NewVideoRepository(db)
	likes := repository.NewLikeRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	views := repository.NewViewRepository(db)

	h := handler.New(handler.Services{
		Relationship: service.NewRelationshipService(service.NewToggler(likes, subs, locker), views),
		Video:        service.NewVideoService(videos, views, media),
		Comment:      service.NewCommentService(repository.NewCommentRepository(db), views),
		Tweet:        service.NewTweetService(repository.NewTweetRepository(db), views),
		Playlist:     service.NewPlaylistService(repository.NewPlaylistRepository(db), videos, views),
		Dashboard:    service.NewDashboardService(videos, subs, likes, views),
		User:         service.NewUserService(users),
	}, "")
	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(cfg, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("lock", cfg.Lock.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
