package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xelth-com/zapstock/internal/config"
)

// Redis stores snapshots as plain string keys
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redis and verifies the connection
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return v, nil
}

// Put writes all entries in one MULTI/EXEC block
func (r *Redis) Put(ctx context.Context, entries map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range entries {
			pipe.Set(ctx, key, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
