package database

import (
	"context"
	"fmt"
	"time"

	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// DueItemReminders returns items whose start date falls in [from, to) and
// whose own and owner's notification flags are both enabled.
func (db *DB) DueItemReminders(ctx context.Context, from, to time.Time) ([]*models.ItemWithCategory, error) {
	return db.QueryItems(ctx, sq.And{
		sq.GtOrEq{"items.date_from": from.UTC()},
		sq.Lt{"items.date_from": to.UTC()},
		sq.Eq{"items.notifications_enabled": true},
		sq.Expr("EXISTS (SELECT 1 FROM users u WHERE u.id = items.owner_id AND u.notifications_enabled = ?)", true),
	})
}

// DueCategoryReminders returns categories dated in [from, to) whose owner has
// notifications enabled.
func (db *DB) DueCategoryReminders(ctx context.Context, from, to time.Time) ([]*models.Category, error) {
	var out []*models.Category
	err := db.SelectContext(ctx, &out, db.Rebind(`SELECT c.id, c.name, c.owner_id, c.sharing_type, c.share_code, c.date, c.created_at
		FROM categories c
		JOIN users u ON u.id = c.owner_id
		WHERE c.date >= ? AND c.date < ? AND u.notifications_enabled = ?
		ORDER BY c.id`), from.UTC(), to.UTC(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to query category reminders: %w", err)
	}
	return out, nil
}

// ChangeRecipients returns the category owner and every grant holder except
// the acting user, restricted to users with notifications enabled.
func (db *DB) ChangeRecipients(ctx context.Context, categoryID, actorID int64) ([]*models.User, error) {
	users, err := selectUsers(ctx, db, db.Rebind(`SELECT `+userColumns+`
		FROM users
		WHERE notifications_enabled = ? AND id <> ?
		  AND (id = (SELECT owner_id FROM categories WHERE id = ?)
		       OR id IN (SELECT user_id FROM shared_access WHERE category_id = ?))
		ORDER BY id`), true, actorID, categoryID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query change recipients: %w", err)
	}
	return users, nil
}
