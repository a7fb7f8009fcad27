package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

const (
	sequenceKeyPrefix = "lotseq:"
	idempotencyKeyTTL = 24 * time.Hour
)

// RedisAdapter keeps one hash per tenant, field = lot base, value = last
// issued index. Durability follows the server's AOF/RDB settings.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Increment(ctx context.Context, key domain.SequenceKey) (int64, error) {
	index, err := r.client.HIncrBy(ctx, sequenceKeyPrefix+key.TenantID, key.LotBase, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby %s: %w", key, err)
	}
	return index, nil
}

// Current reads the last issued index without advancing it.
func (r *RedisAdapter) Current(ctx context.Context, key domain.SequenceKey) (int64, error) {
	index, err := r.client.HGet(ctx, sequenceKeyPrefix+key.TenantID, key.LotBase).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hget %s: %w", key, err)
	}
	return index, nil
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
