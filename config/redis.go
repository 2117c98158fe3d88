package config

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedis connects to redis. A nil client is returned when the server is
// unreachable; callers treat nil as "caching and rate limiting disabled".
func NewRedis(cfg *Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn("failed to connect to redis, caching disabled",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return nil
	}
	logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return client
}
