package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"storefront/internal/domain"
)

const keyPrefix = "storefront:session:"

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores bindings as JSON under storefront:session:<id>, refreshing the TTL on every save.
func NewRedis(client *redis.Client, ttl time.Duration) Repository {
	return &redisRepo{client: client, ttl: ttl}
}

// Dial parses a redis:// URL, falling back to treating it as host:port, and pings the server.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", opts.Addr)
	}
	return client, nil
}

func (r *redisRepo) Get(ctx context.Context, sessionID string) (*Binding, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "get session binding")
	}
	var b Binding
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "decode session binding")
	}
	return &b, nil
}

func (r *redisRepo) Save(ctx context.Context, b Binding) error {
	if strings.TrimSpace(b.SessionID) == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	data, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "encode session binding")
	}
	if err := r.client.Set(ctx, keyPrefix+b.SessionID, data, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "save session binding")
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return errors.Wrap(err, "delete session binding")
	}
	return nil
}
