package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/config"
)

// Redis wraps the go-redis client used as the dashboard statistics cache.
// The cache is optional: with no address configured Enabled reports false and
// statistics are computed directly on every call.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. An empty
// address disables the cache entirely.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; stats cache disabled")
		return &Redis{Client: nil}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Enabled reports whether a cache client is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
