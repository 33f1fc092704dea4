// Package ratelimit limits request rates per client key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a request for key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TokenBucket is an in-memory limiter refilling perMinute tokens per minute
type TokenBucket struct {
	capacity int
	rate     int
	now      func() time.Time

	mu        sync.Mutex
	state     map[string]*bucket
	lastSweep time.Time
}

// sweepInterval is how often Allow drops buckets that have refilled completely
const sweepInterval = time.Minute

type bucket struct {
	tokens int
	last   time.Time
}

// NewTokenBucket creates limiter with capacity tokens and rate per minute.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		now:      time.Now,
		state:    make(map[string]*bucket),
	}
}

// Allow implements Limiter
func (l *TokenBucket) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true, nil
	}

	refill := l.refill(b, now)
	if refill > 0 {
		b.tokens = min(b.tokens+refill, l.capacity)
		b.last = now
	}
	if b.tokens <= 0 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

func (l *TokenBucket) refill(b *bucket, now time.Time) int {
	return int(now.Sub(b.last).Minutes() * float64(l.rate))
}

// sweep removes buckets that would be full again; a full bucket behaves like an absent key.
// Caller holds l.mu.
func (l *TokenBucket) sweep(now time.Time) {
	for key, b := range l.state {
		if b.tokens+l.refill(b, now) >= l.capacity {
			delete(l.state, key)
		}
	}
	l.lastSweep = now
}

// RedisWindow is a fixed one-minute window counter shared by all API instances
type RedisWindow struct {
	client    redis.UniversalClient
	perMinute int
	prefix    string
	now       func() time.Time
}

// NewRedisWindow creates a redis backed limiter
func NewRedisWindow(client redis.UniversalClient, perMinute int) *RedisWindow {
	return &RedisWindow{
		client:    client,
		perMinute: perMinute,
		prefix:    "ehsas:ratelimit:",
		now:       time.Now,
	}
}

// Allow implements Limiter
func (l *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Unix() / 60
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= int64(l.perMinute), nil
}
