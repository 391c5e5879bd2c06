package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"wishbot/internal/access"
	"wishbot/internal/config"
	"wishbot/internal/domain"
	"wishbot/internal/events"
	"wishbot/internal/models"

	"github.com/rs/zerolog"
)

const maxCategoryName = 100

type CategoryService struct {
	repo      domain.CategoryStore
	access    *access.Engine
	publisher domain.EventPublisher
	limits    config.LimitsConfig
	logger    *zerolog.Logger
}

func NewCategoryService(
	repo domain.CategoryStore,
	engine *access.Engine,
	publisher domain.EventPublisher,
	limits config.LimitsConfig,
	logger *zerolog.Logger,
) *CategoryService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "categories").Logger()
	return &CategoryService{
		repo:      repo,
		access:    engine,
		publisher: publisher,
		limits:    limits,
		logger:    &l,
	}
}

func cleanCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("category name is empty")
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "", invalid("category name is longer than %d characters", maxCategoryName)
	}
	return name, nil
}

// Create adds a private category owned by the user.
func (s *CategoryService) Create(ctx context.Context, owner *models.User, name string, date *time.Time) (*models.Category, error) {
	name, err := cleanCategoryName(name)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountCategoriesByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	if s.limits.MaxCategoriesPerUser > 0 && count >= s.limits.MaxCategoriesPerUser {
		return nil, ErrCategoryLimit
	}

	category := &models.Category{
		Name:        name,
		OwnerID:     owner.ID,
		SharingType: models.SharingPrivate,
		Date:        date,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", owner.ID).Int64("category_id", category.ID).Msg("Category created")
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]*models.CategoryAccess, error) {
	return s.repo.ListCategoriesForUser(ctx, userID)
}

// ListEditable returns the categories the user may add items to.
func (s *CategoryService) ListEditable(ctx context.Context, userID int64) ([]*models.CategoryAccess, error) {
	return s.repo.ListEditableCategories(ctx, userID)
}

// Get loads a category the user may view, annotated with the user's role.
func (s *CategoryService) Get(ctx context.Context, userID, categoryID int64) (*models.CategoryAccess, error) {
	category, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireView(ctx, category, userID); err != nil {
		return nil, err
	}

	role := models.RoleViewer
	switch {
	case category.OwnerID == userID:
		role = models.RoleOwner
	default:
		canEdit, err := s.access.CanEdit(ctx, category, userID)
		if err != nil {
			return nil, err
		}
		if canEdit {
			role = models.RoleEditor
		}
	}
	return &models.CategoryAccess{Category: *category, Role: role}, nil
}

func (s *CategoryService) Rename(ctx context.Context, userID, categoryID int64, name string) error {
	name, err := cleanCategoryName(name)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, userID, categoryID); err != nil {
		return err
	}
	return lookup(s.repo.RenameCategory(ctx, categoryID, name), "category")
}

// SetDate sets or clears (nil) the category date used for its reminder.
func (s *CategoryService) SetDate(ctx context.Context, userID, categoryID int64, date *time.Time) error {
	if _, err := s.owned(ctx, userID, categoryID); err != nil {
		return err
	}
	return lookup(s.repo.SetCategoryDate(ctx, categoryID, date), "category")
}

// ChangeSharing moves the category to a new sharing type. Users that lose
// access are told about it.
func (s *CategoryService) ChangeSharing(ctx context.Context, userID, categoryID int64, sharingType models.SharingType) (access.SharingChange, error) {
	category, err := s.owned(ctx, userID, categoryID)
	if err != nil {
		return access.SharingChange{}, err
	}

	change, err := s.access.UpdateSharingType(ctx, category, sharingType)
	if err != nil {
		return access.SharingChange{}, err
	}

	if len(change.Revoked) > 0 {
		s.publish(events.EventAccessRevoked, events.AccessChangedPayload{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			SharingType:  string(change.Category.SharingType),
			OwnerID:      category.OwnerID,
			UserIDs:      change.Revoked,
		})
	}
	return change, nil
}

// ShareCode returns the live code of a shared category.
func (s *CategoryService) ShareCode(ctx context.Context, userID, categoryID int64) (string, error) {
	category, err := s.owned(ctx, userID, categoryID)
	if err != nil {
		return "", err
	}
	return s.access.EnsureShareCode(ctx, category, 0)
}

// RedeemCode joins the user to the category behind code.
func (s *CategoryService) RedeemCode(ctx context.Context, user *models.User, code string) (access.Redemption, error) {
	res, err := s.access.RedeemCode(ctx, code, user.ID)
	if err != nil {
		return res, err
	}

	if res.Outcome == access.OutcomeGranted {
		s.publish(events.EventAccessGranted, events.AccessChangedPayload{
			CategoryID:   res.Category.ID,
			CategoryName: res.Category.Name,
			SharingType:  string(res.Category.SharingType),
			OwnerID:      res.Category.OwnerID,
			UserIDs:      []int64{user.ID},
			CanEdit:      res.CanEdit,
		})
	}
	return res, nil
}

// Members lists the users holding a grant on the category.
func (s *CategoryService) Members(ctx context.Context, userID, categoryID int64) ([]*models.User, error) {
	if _, err := s.owned(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListSharedUsers(ctx, categoryID)
}

// Delete removes the category with its items and grants. Former members are
// told their access ended.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID int64) error {
	category, err := s.owned(ctx, userID, categoryID)
	if err != nil {
		return err
	}

	members, err := s.repo.ListSharedUsers(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return lookup(err, "category")
	}
	s.logger.Info().Int64("user_id", userID).Int64("category_id", categoryID).Int("members", len(members)).Msg("Category deleted")

	if len(members) > 0 {
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		s.publish(events.EventAccessRevoked, events.AccessChangedPayload{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			SharingType:  string(models.SharingPrivate),
			OwnerID:      category.OwnerID,
			UserIDs:      ids,
		})
	}
	return nil
}

func (s *CategoryService) load(ctx context.Context, categoryID int64) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, lookup(err, "category")
	}
	return category, nil
}

func (s *CategoryService) owned(ctx context.Context, userID, categoryID int64) (*models.Category, error) {
	category, err := s.load(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(category, userID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) publish(eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
