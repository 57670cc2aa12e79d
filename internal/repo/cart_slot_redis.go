package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront/internal/redissvc"
)

type RedisCartSlotRepository struct {
	rdb *redis.Client
	ctx context.Context
	ttl time.Duration
}

// NewRedisCartSlotRepository keeps slots in Redis. A zero ttl keeps them
// until they are overwritten or purged. Cancelling the service context does
// not fail slot operations; each one is bounded by its own timeout.
func NewRedisCartSlotRepository(rs *redissvc.RedisService, ttl time.Duration) *RedisCartSlotRepository {
	return &RedisCartSlotRepository{
		rdb: rs.Rdb(),
		ctx: context.WithoutCancel(rs.Ctx()),
		ttl: ttl,
	}
}

func (r *RedisCartSlotRepository) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisCartSlotRepository) Save(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
