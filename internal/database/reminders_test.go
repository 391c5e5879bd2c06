package database

import (
	"context"
	"testing"
	"time"

	"wishbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueItemReminders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, 1)
	muted := createTestUser(t, db, 2)
	require.NoError(t, db.SetUserNotifications(ctx, muted.ID, false))

	cat := createTestCategory(t, db, owner.ID, "Events")
	mutedCat := createTestCategory(t, db, muted.ID, "Muted")

	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	inWeek := today.AddDate(0, 0, 7)
	later := today.AddDate(0, 0, 8)

	due := &models.Item{Name: "Due", CategoryID: cat.ID, OwnerID: owner.ID, DateFrom: &inWeek, NotificationsEnabled: true}
	off := &models.Item{Name: "Off", CategoryID: cat.ID, OwnerID: owner.ID, DateFrom: &inWeek, NotificationsEnabled: false}
	tooLate := &models.Item{Name: "Later", CategoryID: cat.ID, OwnerID: owner.ID, DateFrom: &later, NotificationsEnabled: true}
	ownerMuted := &models.Item{Name: "Muted", CategoryID: mutedCat.ID, OwnerID: muted.ID, DateFrom: &inWeek, NotificationsEnabled: true}
	for _, item := range []*models.Item{due, off, tooLate, ownerMuted} {
		require.NoError(t, db.CreateItem(ctx, item))
	}

	items, err := db.DueItemReminders(ctx, inWeek, inWeek.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, due.ID, items[0].ID)
	assert.Equal(t, "Events", items[0].CategoryName)
}

func TestDueCategoryReminders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, 1)

	day := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	other := day.AddDate(0, 0, 2)

	dated := createTestCategory(t, db, owner.ID, "Christmas")
	require.NoError(t, db.SetCategoryDate(ctx, dated.ID, &day))
	notDue := createTestCategory(t, db, owner.ID, "Later")
	require.NoError(t, db.SetCategoryDate(ctx, notDue.ID, &other))
	createTestCategory(t, db, owner.ID, "Undated")

	cats, err := db.DueCategoryReminders(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, dated.ID, cats[0].ID)

	require.NoError(t, db.SetUserNotifications(ctx, owner.ID, false))
	cats, err = db.DueCategoryReminders(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestChangeRecipients(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, 1)
	editor := createTestUser(t, db, 2)
	viewer := createTestUser(t, db, 3)
	muted := createTestUser(t, db, 4)
	require.NoError(t, db.SetUserNotifications(ctx, muted.ID, false))

	cat := createTestCategory(t, db, owner.ID, "Shared")
	require.NoError(t, db.UpdateCategorySharing(ctx, cat.ID, models.SharingCollaborative, "RECIP23456"))
	for _, g := range []*models.SharedAccess{
		{CategoryID: cat.ID, UserID: editor.ID, CanEdit: true},
		{CategoryID: cat.ID, UserID: viewer.ID},
		{CategoryID: cat.ID, UserID: muted.ID},
	} {
		require.NoError(t, db.InsertSharedAccess(ctx, g))
	}

	users, err := db.ChangeRecipients(ctx, cat.ID, editor.ID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []int64{owner.ID, viewer.ID}, ids)

	users, err = db.ChangeRecipients(ctx, cat.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
}
