package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const markerPrefix = "aqua:replenishment:run:"

// Marker keys stay readable for two days so operators can inspect the
// last run, then expire on their own.
const markerTTL = 48 * time.Hour

type RedisRunMarker struct {
	client *redis.Client
}

func NewRedisRunMarker(addr string, password string, db int) *RedisRunMarker {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisRunMarker{client: client}
}

func (m *RedisRunMarker) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisRunMarker) Close() error {
	return m.client.Close()
}

func (m *RedisRunMarker) TryAcquire(ctx context.Context, key string) (bool, error) {
	stamp := time.Now().UTC().Format(time.RFC3339)
	return m.client.SetNX(ctx, markerPrefix+key, stamp, markerTTL).Result()
}

func (m *RedisRunMarker) LastRun(ctx context.Context, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, markerPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
