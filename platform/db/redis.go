package db

import (
	"context"
	"crypto/tls"
	"fmt"

	"estate_portal_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the configured redis URL and verifies the
// connection. Returns nil, nil when no URL is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisHealth adapts a redis client to the readiness checker.
type RedisHealth struct {
	client redis.UniversalClient
}

// NewRedisHealth wraps client for readiness checks.
func NewRedisHealth(client redis.UniversalClient) *RedisHealth {
	return &RedisHealth{client: client}
}

// Ping reports whether redis answers.
func (h *RedisHealth) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
