package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/cache"
)

const keyPrefix = "storefront-checkout:"

type RedisStateStore struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewRedisStateStore(c *cache.RedisClient, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{cache: c, ttl: ttl}
}

func (s *RedisStateStore) Load(ctx context.Context, sessionID string) (*checkout.State, error) {
	var st checkout.State
	if err := s.cache.GetJSON(ctx, keyPrefix+sessionID, &st); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (s *RedisStateStore) Save(ctx context.Context, sessionID string, st checkout.State) error {
	return s.cache.SetJSON(ctx, keyPrefix+sessionID, st, s.ttl)
}
