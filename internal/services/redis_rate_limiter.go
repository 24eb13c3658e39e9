package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/redis/go-redis/v9"
)

const redisLimiterPrefix = "salaryiq:ratelimit:"

// RedisRateLimiter shares the two sliding windows between instances. Each
// window is a sorted set of request ids scored by unix milliseconds.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limits RateLimits
	now    func() time.Time
}

// NewRedisRateLimiter returns a limiter backed by rdb. A nil clock uses time.Now.
func NewRedisRateLimiter(rdb *redis.Client, limits RateLimits, now func() time.Time) *RedisRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisRateLimiter{rdb: rdb, limits: limits, now: now}
}

type windowState struct {
	count  int64
	oldest time.Time
}

func windowKey(name string) string { return redisLimiterPrefix + name }

// load prunes the window and returns its size and oldest entry.
func (l *RedisRateLimiter) load(ctx context.Context, name string, window time.Duration, now time.Time) (windowState, error) {
	key := windowKey(name)
	cutoff := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	var card *redis.IntCmd
	var first *redis.ZSliceCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		card = p.ZCard(ctx, key)
		first = p.ZRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil {
		return windowState{}, fmt.Errorf("redis window %s: %w", name, err)
	}

	st := windowState{count: card.Val()}
	if zs := first.Val(); len(zs) > 0 {
		st.oldest = time.UnixMilli(int64(zs[0].Score))
	}
	return st, nil
}

func (l *RedisRateLimiter) Check(ctx context.Context) error {
	now := l.now()

	minute, err := l.load(ctx, "minute", minuteWindow, now)
	if err != nil {
		return err
	}
	if minute.count >= int64(l.limits.PerMinute) && minute.count > 0 {
		return minuteDenied(l.limits.PerMinute, minuteWindow-now.Sub(minute.oldest))
	}

	day, err := l.load(ctx, "day", dayWindow, now)
	if err != nil {
		return err
	}
	if day.count >= int64(l.limits.PerDay) && day.count > 0 {
		return dayDenied(l.limits.PerDay, dayWindow-now.Sub(day.oldest))
	}
	return nil
}

func (l *RedisRateLimiter) Record(ctx context.Context) error {
	now := l.now()
	member := redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()}

	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, windowKey("minute"), member)
		p.Expire(ctx, windowKey("minute"), minuteWindow)
		p.ZAdd(ctx, windowKey("day"), member)
		p.Expire(ctx, windowKey("day"), dayWindow)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) Status(ctx context.Context) (dtos.RateLimitStatus, error) {
	now := l.now()

	minute, err := l.load(ctx, "minute", minuteWindow, now)
	if err != nil {
		return dtos.RateLimitStatus{}, err
	}
	day, err := l.load(ctx, "day", dayWindow, now)
	if err != nil {
		return dtos.RateLimitStatus{}, err
	}

	return dtos.RateLimitStatus{
		RPM: usage(int(minute.count), l.limits.PerMinute),
		RPD: usage(int(day.count), l.limits.PerDay),
	}, nil
}
