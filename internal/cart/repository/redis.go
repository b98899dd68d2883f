package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/cache"
)

const keyPrefix = "storefront-cart:"

type RedisStore struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewRedisStore(c *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

// Load returns an empty cart for sessions that never stored one.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	var c model.Cart
	err := s.cache.GetJSON(ctx, keyPrefix+sessionID, &c)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return model.Cart{Items: []model.CartItem{}}, nil
		}
		return model.Cart{}, err
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, c model.Cart) error {
	return s.cache.SetJSON(ctx, keyPrefix+sessionID, c, s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, keyPrefix+sessionID)
}
