package repository

import (
	"context"
	"sync"
	"time"

	"wishbot/internal/models"

	"github.com/google/uuid"
)

type MemoryStateRepository struct {
	states     sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		ttl: ttl,
	}
}

type stateEntry struct {
	state     *models.UserState
	expiresAt time.Time
}

func (r *MemoryStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	val, ok := r.states.Load(userID)
	if !ok {
		return nil, nil
	}
	entry := val.(stateEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		r.states.Delete(userID)
		return nil, nil
	}
	return entry.state, nil
}

func (r *MemoryStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	entry := stateEntry{state: state}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}
	r.states.Store(state.UserID, entry)
	return nil
}

func (r *MemoryStateRepository) ClearState(ctx context.Context, userID int64) error {
	r.states.Delete(userID)
	return nil
}

type rateLimitEntry struct {
	mu        sync.Mutex
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, _ := r.rateLimits.LoadOrStore(userID, &rateLimitEntry{})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.count == 0 || now.After(entry.expiresAt) {
		entry.count = 1
		entry.expiresAt = now.Add(window)
	} else {
		entry.count++
	}
	return entry.count <= limit, nil
}

type counterEntry struct {
	value     int64
	expiresAt time.Time
}

// MemoryCounter is the in-process Counter used when Redis is not configured
// or unavailable.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*counterEntry
	now     func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*counterEntry),
		now:     time.Now,
	}
}

// live returns the entry for key, dropping it when expired. Callers hold mu.
func (c *MemoryCounter) live(key string) *counterEntry {
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return e
}

func (c *MemoryCounter) Get(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.live(key); e != nil {
		return e.value, nil
	}
	return 0, nil
}

func (c *MemoryCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.live(key)
	if e == nil {
		e = &counterEntry{}
		c.entries[key] = e
	}
	e.value++
	e.expiresAt = c.now().Add(window)
	return e.value, nil
}

func (c *MemoryCounter) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.live(key)
	if e == nil || e.expiresAt.IsZero() {
		return 0, nil
	}
	return e.expiresAt.Sub(c.now()), nil
}

func (c *MemoryCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.live(key); e != nil {
		e.expiresAt = c.now().Add(ttl)
	}
	return nil
}

func (c *MemoryCounter) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

type leaseEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryLease only coordinates goroutines of a single process.
type MemoryLease struct {
	mu     sync.Mutex
	leases map[string]leaseEntry
}

func NewMemoryLease() *MemoryLease {
	return &MemoryLease{leases: make(map[string]leaseEntry)}
}

func (l *MemoryLease) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.leases[key]; ok && time.Now().Before(e.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.leases[key] = leaseEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return token, true, nil
}

func (l *MemoryLease) Refresh(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.leases[key]
	if !ok || e.token != token {
		return false, nil
	}
	e.expiresAt = time.Now().Add(ttl)
	l.leases[key] = e
	return true, nil
}

func (l *MemoryLease) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.leases[key]; ok && e.token == token {
		delete(l.leases, key)
	}
	return nil
}
