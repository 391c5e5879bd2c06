package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wishbot/internal/models"
)

var ErrEmptyName = errors.New("name must not be empty")

// UpsertTag normalizes the name and either inserts the tag or bumps the usage
// counter of the existing (name, user) row, returning it.
func (db *DB) UpsertTag(ctx context.Context, name string, userID int64) (*models.Tag, error) {
	name = models.NormalizeTag(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(`INSERT INTO tags (name, user_id, usage_count, created_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (name, user_id) DO UPDATE SET usage_count = tags.usage_count + 1
			RETURNING id`),
		name, userID, now(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tag: %w", mapError(err))
	}

	var tag models.Tag
	if err := db.GetContext(ctx, &tag,
		db.Rebind(`SELECT id, name, user_id, usage_count, created_at FROM tags WHERE id = ?`), id); err != nil {
		return nil, mapError(err)
	}
	return &tag, nil
}

// PopularTags returns the user's most used tags.
func (db *DB) PopularTags(ctx context.Context, userID int64, limit int) ([]*models.Tag, error) {
	if limit <= 0 {
		limit = models.PopularTagsLimit
	}
	var tags []*models.Tag
	err := db.SelectContext(ctx, &tags, db.Rebind(`SELECT id, name, user_id, usage_count, created_at
		FROM tags WHERE user_id = ?
		ORDER BY usage_count DESC, name
		LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular tags: %w", err)
	}
	return tags, nil
}

const locationColumns = `id, location_type, name, user_id, usage_count, created_at`

// UpsertLocation mirrors UpsertTag for saved places, unique per (type, name, user).
func (db *DB) UpsertLocation(ctx context.Context, locationType models.LocationType, name string, userID int64) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(`INSERT INTO locations (location_type, name, user_id, usage_count, created_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT (location_type, name, user_id) DO UPDATE SET usage_count = locations.usage_count + 1
			RETURNING id`),
		locationType, name, userID, now(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert location: %w", mapError(err))
	}
	return db.GetLocation(ctx, id)
}

func (db *DB) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	var loc models.Location
	if err := db.GetContext(ctx, &loc, db.Rebind(`SELECT `+locationColumns+` FROM locations WHERE id = ?`), id); err != nil {
		return nil, mapError(err)
	}
	return &loc, nil
}

// LocationsByType returns the user's saved places of one type, most used first.
func (db *DB) LocationsByType(ctx context.Context, userID int64, locationType models.LocationType, limit int) ([]*models.Location, error) {
	if limit <= 0 {
		limit = models.SavedLocationsLimit
	}
	var locs []*models.Location
	err := db.SelectContext(ctx, &locs, db.Rebind(`SELECT `+locationColumns+`
		FROM locations WHERE user_id = ? AND location_type = ?
		ORDER BY usage_count DESC, name
		LIMIT ?`), userID, locationType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}
	return locs, nil
}
