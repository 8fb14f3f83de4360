package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"LogonSessionStats/internal/config"
)

// RedisStore хранит ключи выгруженных сессий в множестве Redis
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	// Создаём клиента Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	// Проверяем подключение с тайм-аутом
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}
	return &RedisStore{client: rdb, key: cfg.Key}, nil
}

func (r *RedisStore) Load() (map[string]int64, error) {
	ctx := context.Background()
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	processed := make(map[string]int64, len(members))
	for _, m := range members {
		processed[m] = 0
	}
	return processed, nil
}

func (r *RedisStore) Save(data map[string]int64) error {
	if len(data) == 0 {
		return nil
	}
	ctx := context.Background()
	members := make([]interface{}, 0, len(data))
	for k := range data {
		members = append(members, k)
	}
	return r.client.SAdd(ctx, r.key, members...).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
