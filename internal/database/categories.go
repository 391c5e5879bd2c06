package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, name, owner_id, sharing_type, share_code, date, created_at`

func (db *DB) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.SharingType == "" {
		category.SharingType = models.SharingPrivate
	}
	category.CreatedAt = now()
	category.Date = models.DayPtr(category.Date)

	query := db.Rebind(`INSERT INTO categories (name, owner_id, sharing_type, share_code, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := db.QueryRowxContext(ctx, query,
		category.Name,
		category.OwnerID,
		category.SharingType,
		category.ShareCode,
		category.Date,
		category.CreatedAt,
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", mapError(err))
	}
	return nil
}

func (db *DB) FindCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	return getCategory(ctx, db, db.Rebind(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`), id)
}

func (db *DB) FindCategoryByCode(ctx context.Context, code string) (*models.Category, error) {
	return getCategory(ctx, db, db.Rebind(`SELECT `+categoryColumns+` FROM categories WHERE share_code = ?`), code)
}

func getCategory(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*models.Category, error) {
	var c models.Category
	if err := sqlx.GetContext(ctx, q, &c, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// ListCategoriesForUser returns owned categories and categories shared with
// the user, each annotated with the user's role.
func (db *DB) ListCategoriesForUser(ctx context.Context, userID int64) ([]*models.CategoryAccess, error) {
	query := db.Rebind(`SELECT c.id, c.name, c.owner_id, c.sharing_type, c.share_code, c.date, c.created_at,
			CASE WHEN c.owner_id = ? THEN 'owner'
			     WHEN sa.can_edit THEN 'editor'
			     ELSE 'viewer' END AS role
		FROM categories c
		LEFT JOIN shared_access sa ON sa.category_id = c.id AND sa.user_id = ?
		WHERE c.owner_id = ? OR sa.user_id IS NOT NULL
		ORDER BY c.created_at, c.id`)

	var out []*models.CategoryAccess
	if err := db.SelectContext(ctx, &out, query, userID, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

// ListEditableCategories returns the categories the user may add items to.
func (db *DB) ListEditableCategories(ctx context.Context, userID int64) ([]*models.CategoryAccess, error) {
	all, err := db.ListCategoriesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if c.Role.CanEdit() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (db *DB) CountCategoriesByOwner(ctx context.Context, ownerID int64) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM categories WHERE owner_id = ?`), ownerID); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func (db *DB) RenameCategory(ctx context.Context, id int64, name string) error {
	return db.updateCategory(ctx, id, sq.Eq{"name": name})
}

func (db *DB) SetCategoryDate(ctx context.Context, id int64, date *time.Time) error {
	return db.updateCategory(ctx, id, sq.Eq{"date": models.DayPtr(date)})
}

// UpdateCategorySharing sets sharing type and share code in one statement.
// A code already used by another category yields ErrConflict.
func (db *DB) UpdateCategorySharing(ctx context.Context, id int64, sharingType models.SharingType, code string) error {
	var shareCode sql.NullString
	if code != "" {
		shareCode = sql.NullString{String: code, Valid: true}
	}
	return db.updateCategory(ctx, id, sq.Eq{"sharing_type": sharingType, "share_code": shareCode})
}

func (db *DB) updateCategory(ctx context.Context, id int64, set sq.Eq) error {
	query, args, err := db.builder.Update("categories").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", mapError(err))
	}
	return expectAffected(res)
}

// RevokeSharing makes the category private in a single transaction: the
// grant holders are collected, every grant is deleted and the code cleared.
// It returns the ids of the users whose access was revoked.
func (db *DB) RevokeSharing(ctx context.Context, id int64) ([]int64, error) {
	var revoked []int64
	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &revoked,
			tx.Rebind(`SELECT user_id FROM shared_access WHERE category_id = ? ORDER BY user_id`), id); err != nil {
			return fmt.Errorf("failed to collect grants: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM shared_access WHERE category_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete grants: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			tx.Rebind(`UPDATE categories SET sharing_type = ?, share_code = NULL WHERE id = ?`),
			models.SharingPrivate, id)
		if err != nil {
			return fmt.Errorf("failed to clear share code: %w", err)
		}
		return expectAffected(res)
	})
	if err != nil {
		return nil, err
	}
	return revoked, nil
}

// DeleteCategory removes the category together with its items and grants.
func (db *DB) DeleteCategory(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM shared_access WHERE category_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete grants: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM items WHERE category_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM categories WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return expectAffected(res)
	})
}
