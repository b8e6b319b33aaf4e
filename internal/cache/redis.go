package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 500

type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	logger.Debug("Initializing redis cache store")

	return &RedisStore{
		client: client,
		logger: logger.With("component", "redis_store"),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	if err := s.client.Set(ctx, key, []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Scan(ctx context.Context, suffix string) ([]Entry, error) {
	logger := s.logger.With("operation", "scan", "suffix", suffix)

	var keys []string
	iter := s.client.Scan(ctx, 0, "*"+suffix, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", suffix, err)
	}

	entries := make([]Entry, 0, len(keys))
	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		batch := keys[start:end]

		values, err := s.client.MGet(ctx, batch...).Result()
		if err != nil {
			return nil, fmt.Errorf("redis mget: %w", err)
		}

		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				// removed between SCAN and MGET
				continue
			}
			entries = append(entries, Entry{Key: batch[i], Value: json.RawMessage(str)})
		}
	}

	logger.Debug("Scan completed", "count", len(entries))
	return entries, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
