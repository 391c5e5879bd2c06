package database

import (
	"context"
	"testing"

	"wishbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user, err := db.UpsertUser(ctx, &models.User{
		TelegramID: 12345,
		Username:   "testuser",
		FirstName:  "Test",
		LastName:   "User",
		Language:   models.LanguageRU,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.NotificationsEnabled)
	assert.Equal(t, models.LanguageRU, user.Language)

	// Settings survive a profile refresh
	require.NoError(t, db.SetUserNotifications(ctx, user.ID, false))
	require.NoError(t, db.SetUserLanguage(ctx, user.ID, models.LanguageEN))

	again, err := db.UpsertUser(ctx, &models.User{
		TelegramID: 12345,
		Username:   "renamed",
		FirstName:  "New",
		Language:   models.LanguageRU,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "renamed", again.Username)
	assert.Equal(t, "New", again.FirstName)
	assert.False(t, again.NotificationsEnabled)
	assert.Equal(t, models.LanguageEN, again.Language)

	found, err := db.GetUserByTelegramID(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, again.ID, found.ID)
}

func TestGetUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetUserByTelegramID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.SetUserLanguage(ctx, 999, models.LanguageRU), ErrNotFound)
}

func TestGetUsersByIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := createTestUser(t, db, 1)
	u2 := createTestUser(t, db, 2)
	createTestUser(t, db, 3)

	users, err := db.GetUsersByIDs(ctx, []int64{u2.ID, u1.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, u1.ID, users[0].ID)
	assert.Equal(t, u2.ID, users[1].ID)

	users, err = db.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
