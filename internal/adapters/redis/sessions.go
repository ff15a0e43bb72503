package redisad

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const keyPrefix = "session:"

// Sessions keeps login sessions as "session:<sid>" -> user id, expired by Redis.
type Sessions struct{ c *redis.Client }

var _ domain.SessionStore = (*Sessions)(nil)

func New(addr, pass string, db int) *Sessions {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(c *redis.Client) *Sessions { return &Sessions{c: c} }

func (r *Sessions) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Sessions) Close() error { return r.c.Close() }

func (r *Sessions) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()
	if err := r.c.Set(ctx, keyPrefix+sid, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	observability.ObserveSession("redis", "create")
	return sid, nil
}

func (r *Sessions) Lookup(ctx context.Context, sid string) (int64, error) {
	v, err := r.c.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("redis", "miss")
		return 0, domain.ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("redis get session: %w", err)
	}
	uid, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session %s: corrupt value %q", sid, v)
	}
	observability.ObserveSession("redis", "hit")
	return uid, nil
}

func (r *Sessions) Delete(ctx context.Context, sid string) error {
	observability.ObserveSession("redis", "del")
	return r.c.Del(ctx, keyPrefix+sid).Err()
}
