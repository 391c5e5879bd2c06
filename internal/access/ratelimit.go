package access

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

type RateLimitState int

const (
	RateLimitNotLimited RateLimitState = iota
	RateLimitLimited
	// RateLimitUnknown means the counter store could not be consulted.
	RateLimitUnknown
)

// RateLimit is the limiter state of one user. Seconds is set when Limited,
// Err when Unknown.
type RateLimit struct {
	State   RateLimitState
	Seconds int
	Err     error
}

func (r RateLimit) Duration() time.Duration {
	return time.Duration(r.Seconds) * time.Second
}

var errNoCounter = errors.New("attempt counter is not configured")

func attemptsKey(userID int64) string {
	return fmt.Sprintf("access_code_attempts:%d", userID)
}

// CheckRateLimit reports whether the user is currently blocked from
// entering codes.
func (e *Engine) CheckRateLimit(ctx context.Context, userID int64) RateLimit {
	if e.counter == nil {
		return RateLimit{State: RateLimitUnknown, Err: errNoCounter}
	}
	key := attemptsKey(userID)

	n, err := e.counter.Get(ctx, key)
	if err != nil {
		return RateLimit{State: RateLimitUnknown, Err: err}
	}
	if n < int64(e.cfg.MaxAttempts) {
		return RateLimit{State: RateLimitNotLimited}
	}

	ttl, err := e.counter.TTL(ctx, key)
	if err != nil {
		return RateLimit{State: RateLimitUnknown, Err: err}
	}
	if ttl <= 0 {
		return RateLimit{State: RateLimitNotLimited}
	}
	return RateLimit{State: RateLimitLimited, Seconds: int(math.Ceil(ttl.Seconds()))}
}

// RecordFailedAttempt counts a failed attempt within the sliding window.
// When the count reaches the maximum the key is held for the block duration
// and that duration in seconds is returned; otherwise 0.
func (e *Engine) RecordFailedAttempt(ctx context.Context, userID int64) (int, error) {
	if e.counter == nil {
		return 0, errNoCounter
	}
	key := attemptsKey(userID)

	n, err := e.counter.Increment(ctx, key, e.cfg.AttemptWindow())
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	if n < int64(e.cfg.MaxAttempts) {
		return 0, nil
	}
	if err := e.counter.Expire(ctx, key, e.cfg.BlockDuration()); err != nil {
		return 0, fmt.Errorf("set block: %w", err)
	}
	return e.cfg.BlockSeconds, nil
}

// ResetAttempts clears the user's failed attempt counter.
func (e *Engine) ResetAttempts(ctx context.Context, userID int64) error {
	if e.counter == nil {
		return nil
	}
	if err := e.counter.Delete(ctx, attemptsKey(userID)); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}
