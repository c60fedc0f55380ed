package tokenstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "amount2words:tokens:"

// RedisStore keeps each portal's tokens in a Redis hash.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{Client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func redisKey(domain string) string {
	return redisKeyPrefix + domain
}

// Save writes only the non-empty fields, which leaves the others as they
// were.
func (r *RedisStore) Save(ctx context.Context, domain string, t Tokens) error {
	if err := checkDomain(domain); err != nil {
		return err
	}

	fields := make(map[string]any)
	for k, v := range map[string]string{
		"access_token":    t.AccessToken,
		"refresh_token":   t.RefreshToken,
		"client_endpoint": t.ClientEndpoint,
		"expires":         t.Expires,
	} {
		if v != "" {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		// HSET needs at least one field; make sure the portal is known anyway.
		fields["access_token"] = ""
		exists, err := r.Client.Exists(ctx, redisKey(domain)).Result()
		if err != nil {
			return fmt.Errorf("redis exists: %w", err)
		}
		if exists > 0 {
			return nil
		}
	}

	if err := r.Client.HSet(ctx, redisKey(domain), fields).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, domain string) (Tokens, error) {
	vals, err := r.Client.HGetAll(ctx, redisKey(domain)).Result()
	if err != nil {
		return Tokens{}, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(vals) == 0 {
		return Tokens{}, ErrNotFound
	}
	return Tokens{
		AccessToken:    vals["access_token"],
		RefreshToken:   vals["refresh_token"],
		ClientEndpoint: vals["client_endpoint"],
		Expires:        vals["expires"],
	}, nil
}

func (r *RedisStore) Close() error {
	return r.Client.Close()
}
