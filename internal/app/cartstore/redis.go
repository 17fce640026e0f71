package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// RedisStore keeps one JSON document per session. Every write refreshes the TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.EmptyCart(), nil
	}
	if err != nil {
		logger.Error("Failed to read cart from redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// A corrupt document is dropped rather than blocking the customer.
		logger.Warn("Discarding unreadable cart document", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return model.EmptyCart(), nil
	}
	return recompute(&cart), nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, cart *model.Cart) error {
	data, err := json.Marshal(recompute(cart))
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		logger.Error("Failed to write cart to redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
