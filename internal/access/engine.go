// Package access decides who may read and write a category and manages the
// share code lifecycle: issuing, rotating, redeeming and revoking codes, and
// limiting code guessing per user.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wishbot/internal/config"
	"wishbot/internal/database"
	"wishbot/internal/domain"
	"wishbot/internal/metrics"
	"wishbot/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// CodeAlphabet excludes characters that are easy to confuse (0/O, 1/I/L).
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Outcome int

const (
	OutcomeGranted Outcome = iota + 1
	OutcomeAlreadyMember
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeAlreadyMember:
		return "already_member"
	default:
		return "none"
	}
}

// Redemption is the result of a code redemption. Category is set whenever
// the code resolved to a category, including the SelfOwned failure.
type Redemption struct {
	Outcome  Outcome
	Category *models.Category
	CanEdit  bool
}

// SharingChange describes the result of UpdateSharingType. Revoked lists
// the users that lost access when the category became private.
type SharingChange struct {
	Category *models.Category
	Code     string
	Revoked  []int64
}

type Engine struct {
	store    domain.AccessStore
	counter  domain.Counter
	cfg      config.AccessConfig
	logger   *zerolog.Logger
	generate func(alphabet string, size int) (string, error)
}

// NewEngine creates the access engine. counter may be nil, in which case
// rate limiting always reports an unknown state and fails open.
func NewEngine(store domain.AccessStore, counter domain.Counter, cfg config.AccessConfig, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 10
	}
	if cfg.MaxGenerationAttempts <= 0 {
		cfg.MaxGenerationAttempts = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BlockSeconds <= 0 {
		cfg.BlockSeconds = 900
	}
	if cfg.AttemptWindowSeconds <= 0 {
		cfg.AttemptWindowSeconds = cfg.BlockSeconds
	}
	return &Engine{
		store:    store,
		counter:  counter,
		cfg:      cfg,
		logger:   logger,
		generate: gonanoid.Generate,
	}
}

// CanEdit reports whether userID owns the category or holds an edit grant.
func (e *Engine) CanEdit(ctx context.Context, category *models.Category, userID int64) (bool, error) {
	if category == nil {
		return false, nil
	}
	if category.OwnerID == userID {
		return true, nil
	}
	grant, err := e.grant(ctx, category.ID, userID)
	if err != nil || grant == nil {
		return false, err
	}
	return grant.CanEdit, nil
}

// CanView reports whether userID may read the category. viaCode grants a
// pre-redemption read of a shared category while a code is being resolved.
func (e *Engine) CanView(ctx context.Context, category *models.Category, userID int64, viaCode bool) (bool, error) {
	if category == nil {
		return false, nil
	}
	if category.OwnerID == userID {
		return true, nil
	}
	grant, err := e.grant(ctx, category.ID, userID)
	if err != nil {
		return false, err
	}
	if grant != nil {
		return true, nil
	}
	return viaCode && category.SharingType.IsShared(), nil
}

// RequireEdit returns ErrForbidden unless CanEdit holds.
func (e *Engine) RequireEdit(ctx context.Context, category *models.Category, userID int64) error {
	ok, err := e.CanEdit(ctx, category, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireView returns ErrForbidden unless the user may read the category.
func (e *Engine) RequireView(ctx context.Context, category *models.Category, userID int64) error {
	ok, err := e.CanView(ctx, category, userID, false)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireOwner guards operations reserved to the owner (rename, sharing, delete).
func (e *Engine) RequireOwner(category *models.Category, userID int64) error {
	if category == nil || category.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func (e *Engine) grant(ctx context.Context, categoryID, userID int64) (*models.SharedAccess, error) {
	grant, err := e.store.FindSharedAccess(ctx, categoryID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find shared access: %w", err)
	}
	return grant, nil
}

// EnsureShareCode returns the category's code when it exists and has the
// expected length, otherwise issues a fresh one. The category must already
// carry a shared sharing type. On success category is updated in place.
func (e *Engine) EnsureShareCode(ctx context.Context, category *models.Category, length int) (string, error) {
	if length <= 0 {
		length = e.cfg.CodeLength
	}
	if !category.SharingType.IsShared() {
		return "", ErrCategoryIsPrivate
	}
	if code := category.Code(); len(code) == length {
		return code, nil
	}
	return e.issueCode(ctx, category, category.SharingType, length)
}

// issueCode generates codes until one is accepted by the unique constraint
// and persists it together with sharingType.
func (e *Engine) issueCode(ctx context.Context, category *models.Category, sharingType models.SharingType, length int) (string, error) {
	for attempt := 1; attempt <= e.cfg.MaxGenerationAttempts; attempt++ {
		code, err := e.generate(CodeAlphabet, length)
		if err != nil {
			return "", fmt.Errorf("generate share code: %w", err)
		}

		err = e.store.UpdateCategorySharing(ctx, category.ID, sharingType, code)
		if errors.Is(err, database.ErrConflict) {
			e.logger.Debug().Int64("category_id", category.ID).Int("attempt", attempt).Msg("Share code collision")
			continue
		}
		if err != nil {
			return "", fmt.Errorf("store share code: %w", err)
		}

		category.SharingType = sharingType
		category.ShareCode.String, category.ShareCode.Valid = code, true
		return code, nil
	}

	e.logger.Error().
		Int64("category_id", category.ID).
		Int("attempts", e.cfg.MaxGenerationAttempts).
		Int("code_length", length).
		Msg("Share code generation exhausted; increase access.code_length")
	return "", ErrCodeGenerationExhausted
}

// UpdateSharingType moves the category through its sharing lifecycle.
// Switching to private revokes every grant and clears the code atomically.
// Switching between shared types keeps the code and the existing grants.
func (e *Engine) UpdateSharingType(ctx context.Context, category *models.Category, newType models.SharingType) (SharingChange, error) {
	if !newType.Valid() {
		return SharingChange{}, ErrInvalidSharingType
	}
	updated := *category

	if newType == models.SharingPrivate {
		revoked, err := e.store.RevokeSharing(ctx, category.ID)
		if err != nil {
			return SharingChange{}, fmt.Errorf("revoke sharing: %w", err)
		}
		updated.SharingType = models.SharingPrivate
		updated.ShareCode.String, updated.ShareCode.Valid = "", false
		e.logger.Info().Int64("category_id", category.ID).Int("revoked", len(revoked)).Msg("Category made private")
		return SharingChange{Category: &updated, Revoked: revoked}, nil
	}

	if code := category.Code(); len(code) == e.cfg.CodeLength {
		if category.SharingType != newType {
			if err := e.store.UpdateCategorySharing(ctx, category.ID, newType, code); err != nil {
				return SharingChange{}, fmt.Errorf("update sharing type: %w", err)
			}
			updated.SharingType = newType
		}
		return SharingChange{Category: &updated, Code: code}, nil
	}

	code, err := e.issueCode(ctx, &updated, newType, e.cfg.CodeLength)
	if err != nil {
		return SharingChange{}, err
	}
	e.logger.Info().Int64("category_id", category.ID).Str("sharing_type", string(newType)).Msg("Share code issued")
	return SharingChange{Category: &updated, Code: code}, nil
}

// NormalizeCode trims and upper-cases user input.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (e *Engine) validFormat(code string) bool {
	if len(code) != e.cfg.CodeLength {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// RedeemCode resolves a share code and grants the caller access to its
// category. Malformed and unknown codes count as failed attempts.
func (e *Engine) RedeemCode(ctx context.Context, code string, userID int64) (Redemption, error) {
	logger := e.logger.With().Int64("user_id", userID).Logger()

	switch rl := e.CheckRateLimit(ctx, userID); rl.State {
	case RateLimitLimited:
		metrics.IncRedemption("rate_limited")
		return Redemption{}, &Error{Kind: KindRateLimited, Msg: ErrRateLimited.Msg, RetryAfter: rl.Duration()}
	case RateLimitUnknown:
		metrics.IncRateLimitDegraded()
		logger.Warn().Err(rl.Err).Msg("Rate limit state unknown, continuing without limit")
	}

	code = NormalizeCode(code)
	if !e.validFormat(code) {
		return Redemption{}, e.failed(ctx, userID, ErrInvalidCode)
	}

	category, err := e.store.FindCategoryByCode(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		return Redemption{}, e.failed(ctx, userID, ErrCodeNotFound)
	}
	if err != nil {
		return Redemption{}, fmt.Errorf("find category by code: %w", err)
	}

	if !category.SharingType.IsShared() {
		return Redemption{}, ErrCategoryIsPrivate
	}
	if category.OwnerID == userID {
		return Redemption{Category: category}, ErrSelfOwned
	}

	existing, err := e.grant(ctx, category.ID, userID)
	if err != nil {
		return Redemption{}, err
	}
	if existing != nil {
		e.resetQuietly(ctx, userID)
		metrics.IncRedemption(OutcomeAlreadyMember.String())
		return Redemption{Outcome: OutcomeAlreadyMember, Category: category, CanEdit: existing.CanEdit}, nil
	}

	grant := &models.SharedAccess{
		CategoryID: category.ID,
		UserID:     userID,
		CanEdit:    category.SharingType == models.SharingCollaborative,
	}
	if err := e.store.InsertSharedAccess(ctx, grant); err != nil {
		if !errors.Is(err, database.ErrConflict) {
			return Redemption{}, fmt.Errorf("insert shared access: %w", err)
		}
		// a concurrent redemption by the same user won the insert
		existing, err := e.grant(ctx, category.ID, userID)
		if err != nil || existing == nil {
			return Redemption{}, fmt.Errorf("reload shared access: %w", errors.Join(err, database.ErrNotFound))
		}
		e.resetQuietly(ctx, userID)
		metrics.IncRedemption(OutcomeAlreadyMember.String())
		return Redemption{Outcome: OutcomeAlreadyMember, Category: category, CanEdit: existing.CanEdit}, nil
	}

	e.resetQuietly(ctx, userID)
	metrics.IncRedemption(OutcomeGranted.String())
	logger.Info().Int64("category_id", category.ID).Bool("can_edit", grant.CanEdit).Msg("Share code redeemed")
	return Redemption{Outcome: OutcomeGranted, Category: category, CanEdit: grant.CanEdit}, nil
}

// failed records a failed attempt and returns cause, or a rate-limit error
// wrapping cause when this attempt triggered the block.
func (e *Engine) failed(ctx context.Context, userID int64, cause *Error) error {
	metrics.IncFailedAttempt()
	blocked, err := e.RecordFailedAttempt(ctx, userID)
	if err != nil {
		metrics.IncRateLimitDegraded()
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record code attempt")
		return cause
	}
	if blocked > 0 {
		e.logger.Info().Int64("user_id", userID).Int("blocked_seconds", blocked).Msg("Code attempts blocked")
		return &Error{Kind: KindRateLimited, Msg: ErrRateLimited.Msg, RetryAfter: e.cfg.BlockDuration(), Err: cause}
	}
	return cause
}

func (e *Engine) resetQuietly(ctx context.Context, userID int64) {
	if err := e.ResetAttempts(ctx, userID); err != nil {
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to reset code attempts")
	}
}
