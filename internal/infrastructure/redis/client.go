// Package redis builds the optional Redis client used for sessions and
// login rate limiting.
package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
)

// NewClient creates a Redis client and performs a health check.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goRedis.Client, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// Optional connects when REDIS_URL is set. A failed connection is logged and
// yields nil so callers can fall back to local behaviour.
func Optional(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *goRedis.Client {
	if cfg.URL == "" {
		return nil
	}
	client, err := NewClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable", zap.Error(err))
		return nil
	}
	logger.Info("connected to redis")
	return client
}
