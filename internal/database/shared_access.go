package database

import (
	"context"
	"fmt"

	"wishbot/internal/models"
)

const sharedAccessColumns = `id, category_id, user_id, can_edit, shared_at`

func (db *DB) FindSharedAccess(ctx context.Context, categoryID, userID int64) (*models.SharedAccess, error) {
	var sa models.SharedAccess
	err := db.GetContext(ctx, &sa,
		db.Rebind(`SELECT `+sharedAccessColumns+` FROM shared_access WHERE category_id = ? AND user_id = ?`),
		categoryID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return &sa, nil
}

// InsertSharedAccess creates a grant. A second grant for the same
// (category, user) pair yields ErrConflict.
func (db *DB) InsertSharedAccess(ctx context.Context, sa *models.SharedAccess) error {
	sa.SharedAt = now()
	err := db.QueryRowxContext(ctx,
		db.Rebind(`INSERT INTO shared_access (category_id, user_id, can_edit, shared_at) VALUES (?, ?, ?, ?) RETURNING id`),
		sa.CategoryID, sa.UserID, sa.CanEdit, sa.SharedAt,
	).Scan(&sa.ID)
	if err != nil {
		return fmt.Errorf("failed to insert shared access: %w", mapError(err))
	}
	return nil
}

func (db *DB) DeleteAllSharedAccess(ctx context.Context, categoryID int64) (int64, error) {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM shared_access WHERE category_id = ?`), categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shared access: %w", err)
	}
	return res.RowsAffected()
}

// ListSharedUsers returns the users holding a grant on the category.
func (db *DB) ListSharedUsers(ctx context.Context, categoryID int64) ([]*models.User, error) {
	users, err := selectUsers(ctx, db, db.Rebind(`SELECT u.id, u.telegram_id, u.username, u.first_name, u.last_name,
			u.notifications_enabled, u.language, u.created_at
		FROM users u
		JOIN shared_access sa ON sa.user_id = u.id
		WHERE sa.category_id = ?
		ORDER BY sa.shared_at, u.id`), categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared users: %w", err)
	}
	return users, nil
}

func (db *DB) CountSharedUsers(ctx context.Context, categoryID int64) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM shared_access WHERE category_id = ?`), categoryID); err != nil {
		return 0, fmt.Errorf("failed to count shared users: %w", err)
	}
	return n, nil
}
