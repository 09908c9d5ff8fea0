package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

var ErrTokenUnknown = errors.New("unknown or expired token")

// TokenStore issues opaque bearer tokens and resolves them back to an
// identity. Tokens are revocable and expire server-side.
type TokenStore interface {
	Issue(ctx context.Context, id Identity) (string, error)
	Resolve(ctx context.Context, token string) (Identity, error)
	Revoke(ctx context.Context, token string) error
}

type tokenRecord struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// RedisTokens keeps token records in redis under auth:token:{token} with a
// TTL, so logout and expiry need no database round trip.
type RedisTokens struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (s *RedisTokens) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return redisx.TTLAuthToken
}

func (s *RedisTokens) Issue(ctx context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(tokenRecord{UserID: id.UserID, IsAdmin: id.IsAdmin})
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(redisx.KeyAuthToken, token)
	if err := s.Redis.Set(ctx, key, b, s.ttl()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisTokens) Resolve(ctx context.Context, token string) (Identity, error) {
	key := fmt.Sprintf(redisx.KeyAuthToken, token)
	b, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrTokenUnknown
	}
	if err != nil {
		return Identity{}, err
	}
	var rec tokenRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: rec.UserID, IsAdmin: rec.IsAdmin}, nil
}

func (s *RedisTokens) Revoke(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyAuthToken, token)).Err()
}
