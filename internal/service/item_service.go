package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/config"
	"wishbot/internal/domain"
	"wishbot/internal/events"
	"wishbot/internal/filter"
	"wishbot/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ItemService struct {
	repo      domain.ItemRepository
	access    *access.Engine
	filter    *filter.Engine
	publisher domain.EventPublisher
	limits    config.LimitsConfig
	validate  *validator.Validate
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewItemService(
	repo domain.ItemRepository,
	engine *access.Engine,
	filterEngine *filter.Engine,
	publisher domain.EventPublisher,
	limits config.LimitsConfig,
	logger *zerolog.Logger,
) *ItemService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "items").Logger()
	return &ItemService{
		repo:      repo,
		access:    engine,
		filter:    filterEngine,
		publisher: publisher,
		limits:    limits,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    &l,
		now:       time.Now,
	}
}

// Create stores a new item in a category the actor may edit. New items
// always start with reminders on.
func (s *ItemService) Create(ctx context.Context, actor *models.User, item *models.Item) error {
	item.OwnerID = actor.ID
	item.NotificationsEnabled = true
	if err := s.check(item); err != nil {
		return err
	}

	category, err := s.category(ctx, item.CategoryID)
	if err != nil {
		return err
	}
	if err := s.access.RequireEdit(ctx, category, actor.ID); err != nil {
		return err
	}

	count, err := s.repo.CountItemsByOwner(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if s.limits.MaxItemsPerUser > 0 && count >= s.limits.MaxItemsPerUser {
		return ErrItemLimit
	}

	if err := s.saveLocation(ctx, actor.ID, item); err != nil {
		return err
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return err
	}
	s.countTags(ctx, actor.ID, item.Tags, nil)

	s.logger.Info().Int64("user_id", actor.ID).Int64("item_id", item.ID).Int64("category_id", category.ID).Msg("Item created")
	s.publishItem(events.EventItemAdded, actor, item, category)
	return nil
}

// Get returns an item the user may view and whether they may edit it.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (*models.ItemWithCategory, bool, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, false, lookup(err, "item")
	}

	category := categoryOf(item)
	canEdit, err := s.access.CanEdit(ctx, category, userID)
	if err != nil {
		return nil, false, err
	}
	if canEdit || item.OwnerID == userID {
		return item, canEdit, nil
	}
	if err := s.access.RequireView(ctx, category, userID); err != nil {
		return nil, false, err
	}
	return item, false, nil
}

// Update overwrites the editable attributes of an existing item. The
// category and owner cannot be changed here; use Move. The reminder flag
// only changes through ToggleNotifications.
func (s *ItemService) Update(ctx context.Context, actor *models.User, item *models.Item) error {
	existing, category, err := s.editable(ctx, actor.ID, item.ID)
	if err != nil {
		return err
	}

	item.CategoryID = existing.CategoryID
	item.OwnerID = existing.OwnerID
	item.CreatedAt = existing.CreatedAt
	item.NotificationsEnabled = existing.NotificationsEnabled
	if err := s.check(item); err != nil {
		return err
	}
	if err := s.saveLocation(ctx, actor.ID, item); err != nil {
		return err
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return lookup(err, "item")
	}
	s.countTags(ctx, actor.ID, item.Tags, existing.Tags)

	s.publishItem(events.EventItemEdited, actor, item, category)
	return nil
}

func (s *ItemService) Delete(ctx context.Context, actor *models.User, itemID int64) error {
	existing, category, err := s.editable(ctx, actor.ID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return lookup(err, "item")
	}

	s.logger.Info().Int64("user_id", actor.ID).Int64("item_id", itemID).Msg("Item deleted")
	s.publishItem(events.EventItemDeleted, actor, &existing.Item, category)
	return nil
}

// Move transfers the item to another category. The actor needs edit access
// on both sides; members of the destination are notified.
func (s *ItemService) Move(ctx context.Context, actor *models.User, itemID, targetCategoryID int64) error {
	existing, _, err := s.editable(ctx, actor.ID, itemID)
	if err != nil {
		return err
	}
	if existing.CategoryID == targetCategoryID {
		return invalid("item is already in this category")
	}

	target, err := s.category(ctx, targetCategoryID)
	if err != nil {
		return err
	}
	if err := s.access.RequireEdit(ctx, target, actor.ID); err != nil {
		return err
	}

	if err := s.repo.MoveItem(ctx, itemID, targetCategoryID); err != nil {
		return lookup(err, "item")
	}
	moved := existing.Item
	moved.CategoryID = targetCategoryID

	s.logger.Info().
		Int64("user_id", actor.ID).
		Int64("item_id", itemID).
		Int64("from", existing.CategoryID).
		Int64("to", targetCategoryID).
		Msg("Item moved")
	s.publishItem(events.EventItemMoved, actor, &moved, target)
	return nil
}

// ToggleNotifications flips the item's reminder flag and returns the new value.
func (s *ItemService) ToggleNotifications(ctx context.Context, actor *models.User, itemID int64) (bool, error) {
	existing, _, err := s.editable(ctx, actor.ID, itemID)
	if err != nil {
		return false, err
	}
	item := existing.Item
	item.NotificationsEnabled = !item.NotificationsEnabled
	if err := s.repo.UpdateItem(ctx, &item); err != nil {
		return existing.NotificationsEnabled, lookup(err, "item")
	}
	return item.NotificationsEnabled, nil
}

// Filter returns the items visible to the user that match f.
func (s *ItemService) Filter(ctx context.Context, userID int64, f models.ItemFilter) ([]*models.ItemWithCategory, error) {
	if err := s.validate.Struct(f); err != nil {
		return nil, validationError(err)
	}
	if f.LocationType != "" && !f.LocationType.Valid() {
		return nil, invalid("unknown location type %q", f.LocationType)
	}
	if f.ProductType != "" && !f.ProductType.Valid() {
		return nil, invalid("unknown product type %q", f.ProductType)
	}
	return s.filter.FilterItems(ctx, userID, f)
}

func (s *ItemService) PopularTags(ctx context.Context, userID int64) ([]*models.Tag, error) {
	return s.repo.PopularTags(ctx, userID, models.PopularTagsLimit)
}

// Locations returns the user's saved places of one type.
func (s *ItemService) Locations(ctx context.Context, userID int64, locationType models.LocationType) ([]*models.Location, error) {
	if !locationType.Valid() {
		return nil, invalid("unknown location type %q", locationType)
	}
	return s.repo.LocationsByType(ctx, userID, locationType, models.SavedLocationsLimit)
}

// check validates the item and normalizes its free-form attributes.
func (s *ItemService) check(item *models.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	item.LocationValue = strings.TrimSpace(item.LocationValue)
	item.Tags = models.ParseTags(item.Tags.String())
	if err := s.validate.Struct(item); err != nil {
		return validationError(err)
	}
	if item.Price.Valid && item.Price.Decimal.IsNegative() {
		return invalid("price must not be negative")
	}
	if item.LocationType != "" && !item.LocationType.Valid() {
		return invalid("unknown location type %q", item.LocationType)
	}
	if item.ProductType != "" && !item.ProductType.Valid() {
		return invalid("unknown product type %q", item.ProductType)
	}
	if item.DateTo != nil && item.DateFrom == nil {
		return invalid("end date without start date")
	}
	if item.DateTo != nil && models.Day(*item.DateTo).Before(models.Day(*item.DateFrom)) {
		return invalid("end date is before start date")
	}
	return nil
}

func (s *ItemService) saveLocation(ctx context.Context, userID int64, item *models.Item) error {
	if item.LocationType == "" || item.LocationValue == "" {
		item.LocationID = nil
		return nil
	}
	loc, err := s.repo.UpsertLocation(ctx, item.LocationType, item.LocationValue, userID)
	if err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	item.LocationID = &loc.ID
	return nil
}

// countTags bumps usage of tags that were not on the item before. Failures
// only cost suggestions, so they are logged.
func (s *ItemService) countTags(ctx context.Context, userID int64, tags, previous models.Tags) {
	seen := make(map[string]struct{}, len(previous))
	for _, t := range previous {
		seen[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		if _, err := s.repo.UpsertTag(ctx, t, userID); err != nil {
			s.logger.Warn().Err(err).Str("tag", t).Msg("Failed to count tag")
		}
	}
}

func (s *ItemService) category(ctx context.Context, categoryID int64) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, lookup(err, "category")
	}
	return category, nil
}

func (s *ItemService) editable(ctx context.Context, userID, itemID int64) (*models.ItemWithCategory, *models.Category, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, lookup(err, "item")
	}
	category := categoryOf(item)
	if err := s.access.RequireEdit(ctx, category, userID); err != nil {
		return nil, nil, err
	}
	return item, category, nil
}

func categoryOf(item *models.ItemWithCategory) *models.Category {
	return &models.Category{
		ID:          item.CategoryID,
		Name:        item.CategoryName,
		OwnerID:     item.CategoryOwnerID,
		SharingType: item.SharingType,
	}
}

func (s *ItemService) publishItem(eventType string, actor *models.User, item *models.Item, category *models.Category) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishJSON(eventType, events.ItemChangedPayload{
		ItemID:       item.ID,
		ItemName:     item.Name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		SharingType:  string(category.SharingType),
		ActorID:      actor.ID,
		ActorName:    actor.DisplayName(),
		PhotoRef:     item.PhotoFileID,
		ChangedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int64("item_id", item.ID).Msg("Failed to publish event")
	}
}
