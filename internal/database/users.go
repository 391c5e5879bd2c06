package database

import (
	"context"
	"fmt"

	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, telegram_id, username, first_name, last_name, notifications_enabled, language, created_at`

// UpsertUser creates the user on first contact and refreshes profile fields
// afterwards. Settings (language, notifications) are kept as stored.
func (db *DB) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	language := user.Language
	if language == "" {
		language = models.LanguageEN
	}

	query := db.Rebind(`INSERT INTO users (
				telegram_id, username, first_name, last_name, notifications_enabled, language, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (telegram_id) DO UPDATE SET
				username = excluded.username,
				first_name = excluded.first_name,
				last_name = excluded.last_name
			RETURNING id`)

	var id int64
	err := db.QueryRowxContext(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		true,
		language,
		now(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", mapError(err))
	}
	return db.GetUserByID(ctx, id)
}

func (db *DB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := db.GetContext(ctx, &user, db.Rebind(query), args...); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetUsersByIDs returns the users with the given ids, ordered by id.
func (db *DB) GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := db.builder.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []*models.User
	if err := db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (db *DB) SetUserNotifications(ctx context.Context, userID int64, enabled bool) error {
	return db.updateUser(ctx, userID, "notifications_enabled", enabled)
}

func (db *DB) SetUserLanguage(ctx context.Context, userID int64, language models.Language) error {
	return db.updateUser(ctx, userID, "language", language)
}

func (db *DB) updateUser(ctx context.Context, userID int64, column string, value interface{}) error {
	query, args, err := db.builder.Update("users").Set(column, value).Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	return expectAffected(res)
}

type execResult interface {
	RowsAffected() (int64, error)
}

func expectAffected(res execResult) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// selectUsers is shared by the reminder and recipient queries.
func selectUsers(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]*models.User, error) {
	var users []*models.User
	if err := sqlx.SelectContext(ctx, q, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}
