package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/dtos"
)

const (
	minuteWindow = time.Minute
	dayWindow    = 24 * time.Hour
)

// RateLimits are the provider ceilings per window.
type RateLimits struct {
	PerMinute int
	PerDay    int
}

// DefaultRateLimits matches the Gemini free tier: 15 RPM, 200 RPD.
var DefaultRateLimits = RateLimits{PerMinute: 15, PerDay: 200}

// RateLimitError is returned by Check when a window is full.
type RateLimitError struct {
	Window     string // "minute" or "day"
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string { return e.Message }

// RetryAfterSeconds is the Retry-After header value, rounded up.
func (e *RateLimitError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// RateLimiter gates AI calls. Check returns a *RateLimitError when denied.
// Record must only be called after a successful AI call.
type RateLimiter interface {
	Check(ctx context.Context) error
	Record(ctx context.Context) error
	Status(ctx context.Context) (dtos.RateLimitStatus, error)
}

func minuteDenied(limit int, retry time.Duration) *RateLimitError {
	e := &RateLimitError{Window: "minute", RetryAfter: retry}
	e.Message = fmt.Sprintf("Rate limit exceeded: %d requests per minute. Please try again in %d seconds.",
		limit, e.RetryAfterSeconds())
	return e
}

func dayDenied(limit int, retry time.Duration) *RateLimitError {
	e := &RateLimitError{Window: "day", RetryAfter: retry}
	hours := int(math.Ceil(float64(e.RetryAfterSeconds()) / 3600))
	e.Message = fmt.Sprintf("Daily rate limit exceeded: %d requests per day. Please try again in %d hours.",
		limit, hours)
	return e
}

func usage(used, limit int) dtos.WindowUsage {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return dtos.WindowUsage{Used: used, Limit: limit, Remaining: remaining}
}

// SlidingWindowLimiter keeps request timestamps in process memory.
// State is lost on restart and is not shared between instances; use
// RedisRateLimiter when running more than one replica.
type SlidingWindowLimiter struct {
	mu        sync.Mutex
	limits    RateLimits
	now       func() time.Time
	perMinute []time.Time
	perDay    []time.Time
}

// NewSlidingWindowLimiter returns an empty limiter. A nil clock uses time.Now.
func NewSlidingWindowLimiter(limits RateLimits, now func() time.Time) *SlidingWindowLimiter {
	if now == nil {
		now = time.Now
	}
	return &SlidingWindowLimiter{limits: limits, now: now}
}

func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := stamps[:0]
	for _, t := range stamps {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	return kept
}

func oldest(stamps []time.Time) time.Time {
	first := stamps[0]
	for _, t := range stamps[1:] {
		if t.Before(first) {
			first = t
		}
	}
	return first
}

// Check prunes both windows and reports the minute denial before the day one.
func (l *SlidingWindowLimiter) Check(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.perMinute = prune(l.perMinute, now, minuteWindow)
	l.perDay = prune(l.perDay, now, dayWindow)

	if len(l.perMinute) >= l.limits.PerMinute && len(l.perMinute) > 0 {
		return minuteDenied(l.limits.PerMinute, minuteWindow-now.Sub(oldest(l.perMinute)))
	}
	if len(l.perDay) >= l.limits.PerDay && len(l.perDay) > 0 {
		return dayDenied(l.limits.PerDay, dayWindow-now.Sub(oldest(l.perDay)))
	}
	return nil
}

// Record appends the current time to both windows.
func (l *SlidingWindowLimiter) Record(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.perMinute = append(l.perMinute, now)
	l.perDay = append(l.perDay, now)
	return nil
}

// Status reports current usage of both windows.
func (l *SlidingWindowLimiter) Status(ctx context.Context) (dtos.RateLimitStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.perMinute = prune(l.perMinute, now, minuteWindow)
	l.perDay = prune(l.perDay, now, dayWindow)

	return dtos.RateLimitStatus{
		RPM: usage(len(l.perMinute), l.limits.PerMinute),
		RPD: usage(len(l.perDay), l.limits.PerDay),
	}, nil
}
