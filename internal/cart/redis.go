package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastcm/shophub-be/internal/models"
)

// cartTTL bounds how long an abandoned cart lingers in Redis. Every save
// refreshes it.
const cartTTL = 7 * 24 * time.Hour

// RedisStore keeps session carts in Redis so they survive restarts and can
// be shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore against the given address.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load returns the cart for a session, or an empty cart for an unknown one.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Cart{Items: []models.CartItem{}}, nil
		}
		return models.Cart{}, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// Save stores the cart for a session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, cart models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(sessionID), data, cartTTL).Err()
}

// Delete drops a session's cart.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKey(sessionID)).Err()
}
