package database

import (
	"context"
	"fmt"
	"strings"

	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
)

var itemFields = []string{
	"id", "name", "category_id", "owner_id", "location_id", "tags", "price",
	"location_type", "location_value", "date_from", "date_to", "url", "comment",
	"photo_file_id", "product_type", "notifications_enabled", "created_at", "updated_at",
}

// itemSelect lists item columns qualified by the items table plus the joined
// category attributes. Predicates passed to QueryItems may reference
// "items.<column>" and "c.<column>" for the category.
func itemSelect() []string {
	cols := make([]string, 0, len(itemFields)+3)
	for _, f := range itemFields {
		cols = append(cols, "items."+f)
	}
	return append(cols,
		"c.name AS category_name",
		"c.owner_id AS category_owner_id",
		"c.sharing_type AS category_sharing_type",
	)
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	ts := now()
	item.CreatedAt = ts
	item.UpdatedAt = ts
	normalizeItem(item)

	query := db.Rebind(`INSERT INTO items (
			name, category_id, owner_id, location_id, tags, price, location_type, location_value,
			date_from, date_to, url, comment, photo_file_id, product_type, notifications_enabled,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	err := db.QueryRowxContext(ctx, query,
		item.Name, item.CategoryID, item.OwnerID, item.LocationID, item.Tags, item.Price,
		item.LocationType, item.LocationValue, item.DateFrom, item.DateTo, item.URL, item.Comment,
		item.PhotoFileID, item.ProductType, item.NotificationsEnabled, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", mapError(err))
	}
	return nil
}

// GetItem returns the item joined with its category.
func (db *DB) GetItem(ctx context.Context, id int64) (*models.ItemWithCategory, error) {
	items, err := db.QueryItems(ctx, sq.Eq{"items.id": id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

// UpdateItem overwrites every mutable attribute of the item.
func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = now()
	normalizeItem(item)

	query, args, err := db.builder.Update("items").SetMap(map[string]interface{}{
		"name":                  item.Name,
		"location_id":           item.LocationID,
		"tags":                  item.Tags,
		"price":                 item.Price,
		"location_type":         item.LocationType,
		"location_value":        item.LocationValue,
		"date_from":             item.DateFrom,
		"date_to":               item.DateTo,
		"url":                   item.URL,
		"comment":               item.Comment,
		"photo_file_id":         item.PhotoFileID,
		"product_type":          item.ProductType,
		"notifications_enabled": item.NotificationsEnabled,
		"updated_at":            item.UpdatedAt,
	}).Where(sq.Eq{"id": item.ID}).ToSql()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", mapError(err))
	}
	return expectAffected(res)
}

func (db *DB) MoveItem(ctx context.Context, itemID, categoryID int64) error {
	res, err := db.ExecContext(ctx,
		db.Rebind(`UPDATE items SET category_id = ?, updated_at = ? WHERE id = ?`),
		categoryID, now(), itemID)
	if err != nil {
		return fmt.Errorf("failed to move item: %w", mapError(err))
	}
	return expectAffected(res)
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return expectAffected(res)
}

func (db *DB) CountItemsByOwner(ctx context.Context, ownerID int64) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM items WHERE owner_id = ?`), ownerID); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// QueryItems returns items matching pred joined with their category, newest
// first with ties broken by id.
func (db *DB) QueryItems(ctx context.Context, pred sq.Sqlizer) ([]*models.ItemWithCategory, error) {
	b := db.builder.
		Select(itemSelect()...).
		From("items").
		Join("categories c ON c.id = items.category_id").
		OrderBy("items.created_at DESC", "items.id DESC")
	if pred != nil {
		b = b.Where(pred)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	var items []*models.ItemWithCategory
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	return items, nil
}

func normalizeItem(item *models.Item) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Tags == nil {
		item.Tags = models.Tags{}
	}
	if item.ProductType == "" {
		item.ProductType = models.ProductItem
	}
	item.DateFrom = models.DayPtr(item.DateFrom)
	item.DateTo = models.DayPtr(item.DateTo)
	// a lone end date is stored as the start date
	if item.DateFrom == nil && item.DateTo != nil {
		item.DateFrom, item.DateTo = item.DateTo, nil
	}
}
