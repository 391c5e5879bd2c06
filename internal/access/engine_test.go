package access

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wishbot/internal/config"
	"wishbot/internal/database"
	"wishbot/internal/domain"
	"wishbot/internal/models"
	"wishbot/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccessConfig = config.AccessConfig{
	CodeLength:            10,
	MaxAttempts:           3,
	BlockSeconds:          900,
	AttemptWindowSeconds:  900,
	MaxGenerationAttempts: 5,
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	db     *database.DB
	engine *Engine
	redis  *miniredis.Miniredis
	owner  *models.User
	guest  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	owner, err := db.UpsertUser(ctx, &models.User{TelegramID: 100, FirstName: "Anna"})
	require.NoError(t, err)
	guest, err := db.UpsertUser(ctx, &models.User{TelegramID: 200, FirstName: "Boris"})
	require.NoError(t, err)

	return &fixture{
		db:     db,
		engine: NewEngine(db, repository.NewRedisCounter(client), testAccessConfig, nil),
		redis:  s,
		owner:  owner,
		guest:  guest,
	}
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name, OwnerID: f.owner.ID}
	require.NoError(t, f.db.CreateCategory(context.Background(), cat))
	return cat
}

func (f *fixture) share(t *testing.T, cat *models.Category, sharingType models.SharingType) string {
	t.Helper()
	change, err := f.engine.UpdateSharingType(context.Background(), cat, sharingType)
	require.NoError(t, err)
	*cat = *change.Category
	return change.Code
}

func TestCanEditCanView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	viewer, err := f.db.UpsertUser(ctx, &models.User{TelegramID: 300})
	require.NoError(t, err)
	stranger, err := f.db.UpsertUser(ctx, &models.User{TelegramID: 400})
	require.NoError(t, err)

	cat := f.category(t, "Trip")
	f.share(t, cat, models.SharingCollaborative)
	require.NoError(t, f.db.InsertSharedAccess(ctx, &models.SharedAccess{CategoryID: cat.ID, UserID: f.guest.ID, CanEdit: true}))
	require.NoError(t, f.db.InsertSharedAccess(ctx, &models.SharedAccess{CategoryID: cat.ID, UserID: viewer.ID}))

	tests := []struct {
		name     string
		userID   int64
		viaCode  bool
		wantEdit bool
		wantView bool
	}{
		{"owner", f.owner.ID, false, true, true},
		{"editor", f.guest.ID, false, true, true},
		{"viewer", viewer.ID, false, false, true},
		{"stranger", stranger.ID, false, false, false},
		{"stranger resolving code", stranger.ID, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canEdit, err := f.engine.CanEdit(ctx, cat, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEdit, canEdit)

			canView, err := f.engine.CanView(ctx, cat, tt.userID, tt.viaCode)
			require.NoError(t, err)
			assert.Equal(t, tt.wantView, canView)
		})
	}

	t.Run("private category is not visible via code", func(t *testing.T) {
		private := f.category(t, "Private")
		ok, err := f.engine.CanView(ctx, private, stranger.ID, true)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("require helpers", func(t *testing.T) {
		assert.NoError(t, f.engine.RequireEdit(ctx, cat, f.guest.ID))
		assert.ErrorIs(t, f.engine.RequireEdit(ctx, cat, viewer.ID), ErrForbidden)
		assert.NoError(t, f.engine.RequireView(ctx, cat, viewer.ID))
		assert.ErrorIs(t, f.engine.RequireView(ctx, cat, stranger.ID), ErrForbidden)
		assert.NoError(t, f.engine.RequireOwner(cat, f.owner.ID))
		assert.ErrorIs(t, f.engine.RequireOwner(cat, f.guest.ID), ErrForbidden)
	})
}

func TestEnsureShareCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("private category", func(t *testing.T) {
		cat := f.category(t, "Private")
		_, err := f.engine.EnsureShareCode(ctx, cat, 0)
		assert.ErrorIs(t, err, ErrCategoryIsPrivate)
	})

	t.Run("issues and keeps code", func(t *testing.T) {
		cat := f.category(t, "Shared")
		code := f.share(t, cat, models.SharingViewOnly)
		require.Len(t, code, 10)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected rune %q", r)
		}

		again, err := f.engine.EnsureShareCode(ctx, cat, 0)
		require.NoError(t, err)
		assert.Equal(t, code, again)

		stored, err := f.db.FindCategoryByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, code, stored.Code())
	})

	t.Run("rotates code of a different length", func(t *testing.T) {
		cat := f.category(t, "Rotate")
		code := f.share(t, cat, models.SharingViewOnly)

		rotated, err := f.engine.EnsureShareCode(ctx, cat, 12)
		require.NoError(t, err)
		assert.Len(t, rotated, 12)
		assert.NotEqual(t, code, rotated)
	})
}

func TestEnsureShareCode_Collisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	taken := f.category(t, "Taken")
	require.NoError(t, f.db.UpdateCategorySharing(ctx, taken.ID, models.SharingViewOnly, "TAKEN23456"))

	t.Run("retries after collision", func(t *testing.T) {
		codes := []string{"TAKEN23456", "FRESH23456"}
		calls := 0
		f.engine.generate = func(alphabet string, size int) (string, error) {
			code := codes[calls]
			calls++
			return code, nil
		}

		cat := f.category(t, "Retry")
		code := f.share(t, cat, models.SharingCollaborative)
		assert.Equal(t, "FRESH23456", code)
		assert.Equal(t, 2, calls)
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		f.engine.generate = func(alphabet string, size int) (string, error) {
			calls++
			return "TAKEN23456", nil
		}

		cat := f.category(t, "Exhausted")
		_, err := f.engine.UpdateSharingType(ctx, cat, models.SharingViewOnly)
		assert.ErrorIs(t, err, ErrCodeGenerationExhausted)
		assert.Equal(t, KindExhausted, KindOf(err))
		assert.Equal(t, testAccessConfig.MaxGenerationAttempts, calls)

		stored, err := f.db.FindCategoryByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SharingPrivate, stored.SharingType)
		assert.Empty(t, stored.Code())
	})
}

func TestUpdateSharingType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Trip")

	t.Run("invalid type", func(t *testing.T) {
		_, err := f.engine.UpdateSharingType(ctx, cat, "public")
		assert.ErrorIs(t, err, ErrInvalidSharingType)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	code := f.share(t, cat, models.SharingCollaborative)
	redemption, err := f.engine.RedeemCode(ctx, code, f.guest.ID)
	require.NoError(t, err)
	require.True(t, redemption.CanEdit)

	t.Run("collaborative to view only keeps code and grants", func(t *testing.T) {
		change, err := f.engine.UpdateSharingType(ctx, cat, models.SharingViewOnly)
		require.NoError(t, err)
		assert.Equal(t, code, change.Code)
		assert.Equal(t, models.SharingViewOnly, change.Category.SharingType)
		*cat = *change.Category

		grant, err := f.db.FindSharedAccess(ctx, cat.ID, f.guest.ID)
		require.NoError(t, err)
		assert.True(t, grant.CanEdit)
	})

	t.Run("back to private revokes everyone", func(t *testing.T) {
		change, err := f.engine.UpdateSharingType(ctx, cat, models.SharingPrivate)
		require.NoError(t, err)
		assert.Equal(t, []int64{f.guest.ID}, change.Revoked)
		assert.Empty(t, change.Code)
		assert.Equal(t, models.SharingPrivate, change.Category.SharingType)

		n, err := f.db.CountSharedUsers(ctx, cat.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		stored, err := f.db.FindCategoryByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.False(t, stored.ShareCode.Valid)
		*cat = *change.Category
	})

	t.Run("sharing again issues a new code", func(t *testing.T) {
		again := f.share(t, cat, models.SharingViewOnly)
		assert.Len(t, again, 10)
		_, err := f.db.FindCategoryByCode(ctx, code)
		if again != code {
			assert.ErrorIs(t, err, database.ErrNotFound)
		}
	})
}

func TestRedeemCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	viewOnly := f.category(t, "View")
	viewCode := f.share(t, viewOnly, models.SharingViewOnly)
	collab := f.category(t, "Collab")
	collabCode := f.share(t, collab, models.SharingCollaborative)

	t.Run("view only grant", func(t *testing.T) {
		r, err := f.engine.RedeemCode(ctx, "  "+strings.ToLower(viewCode)+" ", f.guest.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeGranted, r.Outcome)
		assert.False(t, r.CanEdit)
		assert.Equal(t, viewOnly.ID, r.Category.ID)
	})

	t.Run("already member", func(t *testing.T) {
		r, err := f.engine.RedeemCode(ctx, viewCode, f.guest.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyMember, r.Outcome)

		n, err := f.db.CountSharedUsers(ctx, viewOnly.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("collaborative grant", func(t *testing.T) {
		r, err := f.engine.RedeemCode(ctx, collabCode, f.guest.ID)
		require.NoError(t, err)
		assert.Equal(t, OutcomeGranted, r.Outcome)
		assert.True(t, r.CanEdit)
	})

	t.Run("self owned", func(t *testing.T) {
		r, err := f.engine.RedeemCode(ctx, collabCode, f.owner.ID)
		assert.ErrorIs(t, err, ErrSelfOwned)
		require.NotNil(t, r.Category)
		assert.Equal(t, collab.ID, r.Category.ID)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.engine.RedeemCode(ctx, "ZZZZZZZZZZ", f.guest.ID)
		assert.ErrorIs(t, err, ErrCodeNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("malformed code", func(t *testing.T) {
		_, err := f.engine.RedeemCode(ctx, "abc!", f.guest.ID)
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestRedeemCode_RateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Trip")
	code := f.share(t, cat, models.SharingCollaborative)

	for i := 1; i < testAccessConfig.MaxAttempts; i++ {
		_, err := f.engine.RedeemCode(ctx, "WRONG23456", f.guest.ID)
		require.ErrorIs(t, err, ErrCodeNotFound)
		assert.NotErrorIs(t, err, ErrRateLimited)
	}

	// the attempt that reaches the maximum starts the block
	_, err := f.engine.RedeemCode(ctx, "bad", f.guest.ID)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, testAccessConfig.BlockDuration(), RetryAfter(err))

	// even the correct code is rejected while blocked
	_, err = f.engine.RedeemCode(ctx, code, f.guest.ID)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Greater(t, RetryAfter(err), time.Duration(0))

	rl := f.engine.CheckRateLimit(ctx, f.guest.ID)
	assert.Equal(t, RateLimitLimited, rl.State)
	assert.Equal(t, testAccessConfig.BlockSeconds, rl.Seconds)

	f.redis.FastForward(testAccessConfig.BlockDuration() + time.Second)

	r, err := f.engine.RedeemCode(ctx, code, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGranted, r.Outcome)
	assert.False(t, f.redis.Exists(attemptsKey(f.guest.ID)))
}

func TestRecordFailedAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i < testAccessConfig.MaxAttempts; i++ {
		blocked, err := f.engine.RecordFailedAttempt(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, blocked)
	}
	blocked, err := f.engine.RecordFailedAttempt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, testAccessConfig.BlockSeconds, blocked)

	require.NoError(t, f.engine.ResetAttempts(ctx, 1))
	assert.Equal(t, RateLimitNotLimited, f.engine.CheckRateLimit(ctx, 1).State)
}

type brokenCounter struct {
	domain.Counter
}

var errCounterDown = errors.New("counter down")

func (brokenCounter) Get(context.Context, string) (int64, error) { return 0, errCounterDown }
func (brokenCounter) Increment(context.Context, string, time.Duration) (int64, error) {
	return 0, errCounterDown
}
func (brokenCounter) Delete(context.Context, string) error { return errCounterDown }

func TestRedeemCode_FailsOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Trip")
	code := f.share(t, cat, models.SharingViewOnly)

	engine := NewEngine(f.db, brokenCounter{}, testAccessConfig, nil)

	rl := engine.CheckRateLimit(ctx, f.guest.ID)
	assert.Equal(t, RateLimitUnknown, rl.State)
	assert.ErrorIs(t, rl.Err, errCounterDown)

	for i := 0; i < testAccessConfig.MaxAttempts+2; i++ {
		_, err := engine.RedeemCode(ctx, "WRONG23456", f.guest.ID)
		assert.ErrorIs(t, err, ErrCodeNotFound)
	}

	r, err := engine.RedeemCode(ctx, code, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeGranted, r.Outcome)

	nilCounter := NewEngine(f.db, nil, testAccessConfig, nil)
	assert.Equal(t, RateLimitUnknown, nilCounter.CheckRateLimit(ctx, f.guest.ID).State)
}

func TestErrorKinds(t *testing.T) {
	err := &Error{Kind: KindRateLimited, RetryAfter: time.Minute, Err: ErrCodeNotFound}
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.NotErrorIs(t, err, ErrSelfOwned)
	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.Equal(t, time.Minute, RetryAfter(err))
	assert.Contains(t, err.Error(), "retry after")
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
