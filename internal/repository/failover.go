package repository

import (
	"context"
	"sync/atomic"
	"time"

	"wishbot/internal/domain"
	"wishbot/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// breaker tracks whether the primary backend is considered down and when it
// may be probed again.
type breaker struct {
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func (b *breaker) trip() {
	b.isDown.Store(true)
	b.lastCheck.Store(time.Now().UnixNano())
}

// usePrimary reports whether the primary should be tried for this call.
func (b *breaker) usePrimary() bool {
	if !b.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, b.lastCheck.Load())) > recoveryInterval
}

func (b *breaker) recovered() {
	b.isDown.Store(false)
}

type FailoverStateRepository struct {
	primary  domain.StateRepository
	fallback domain.StateRepository
	logger   *zerolog.Logger
	breaker
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) fail(err error) {
	if !r.isDown.Load() {
		r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	}
	r.trip()
}

func (r *FailoverStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	if r.usePrimary() {
		state, err := r.primary.GetState(ctx, userID)
		if err == nil {
			r.recovered()
			return state, nil
		}
		r.fail(err)
	}
	return r.fallback.GetState(ctx, userID)
}

func (r *FailoverStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	if r.usePrimary() {
		err := r.primary.SetState(ctx, state)
		if err == nil {
			r.recovered()
			return nil
		}
		r.fail(err)
	}
	return r.fallback.SetState(ctx, state)
}

func (r *FailoverStateRepository) ClearState(ctx context.Context, userID int64) error {
	if r.usePrimary() {
		err := r.primary.ClearState(ctx, userID)
		if err == nil {
			r.recovered()
			return nil
		}
		r.fail(err)
	}
	return r.fallback.ClearState(ctx, userID)
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.recovered()
			return allowed, nil
		}
		r.fail(err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}

// FailoverCounter switches attempt counting to the fallback while the
// primary counter store is unreachable.
type FailoverCounter struct {
	primary  domain.Counter
	fallback domain.Counter
	logger   *zerolog.Logger
	breaker
}

func NewFailoverCounter(primary, fallback domain.Counter, logger *zerolog.Logger) *FailoverCounter {
	return &FailoverCounter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverCounter) fail(err error) {
	if !c.isDown.Load() {
		c.logger.Warn().Err(err).Msg("Primary counter failed, falling back to memory")
	}
	c.trip()
}

func (c *FailoverCounter) Get(ctx context.Context, key string) (int64, error) {
	if c.usePrimary() {
		n, err := c.primary.Get(ctx, key)
		if err == nil {
			c.recovered()
			return n, nil
		}
		c.fail(err)
	}
	return c.fallback.Get(ctx, key)
}

func (c *FailoverCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if c.usePrimary() {
		n, err := c.primary.Increment(ctx, key, window)
		if err == nil {
			c.recovered()
			return n, nil
		}
		c.fail(err)
	}
	return c.fallback.Increment(ctx, key, window)
}

func (c *FailoverCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	if c.usePrimary() {
		ttl, err := c.primary.TTL(ctx, key)
		if err == nil {
			c.recovered()
			return ttl, nil
		}
		c.fail(err)
	}
	return c.fallback.TTL(ctx, key)
}

func (c *FailoverCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if c.usePrimary() {
		err := c.primary.Expire(ctx, key, ttl)
		if err == nil {
			c.recovered()
			return nil
		}
		c.fail(err)
	}
	return c.fallback.Expire(ctx, key, ttl)
}

func (c *FailoverCounter) Delete(ctx context.Context, key string) error {
	// clear both so a recovered primary does not resurrect a stale block
	fbErr := c.fallback.Delete(ctx, key)
	if c.usePrimary() {
		err := c.primary.Delete(ctx, key)
		if err == nil {
			c.recovered()
			return nil
		}
		c.fail(err)
	}
	return fbErr
}
