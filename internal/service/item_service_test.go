package service

import (
	"context"
	"testing"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/config"
	"wishbot/internal/events"
	"wishbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestItemService_Create(t *testing.T) {
	f := newFixture(t, config.LimitsConfig{MaxItemsPerUser: 2, MaxCategoriesPerUser: 5})
	ctx := context.Background()
	owner := f.user(t, 1, "Owner")
	cat := f.category(t, owner, "Trip")

	f.publisher.On("PublishJSON", events.EventItemAdded, mock.MatchedBy(func(p events.ItemChangedPayload) bool {
		return p.CategoryID == cat.ID && p.ActorID == owner.ID && p.ActorName == "Owner"
	})).Return(nil)

	item := &models.Item{
		Name:          "  Tent ",
		CategoryID:    cat.ID,
		Tags:          models.Tags{"#Camping", "camping", "Gear"},
		Price:         models.NewDecimal(2500),
		LocationType:  models.LocationInCity,
		LocationValue: "Moscow",
		DateFrom:      day(2026, 7, 1),
		DateTo:        day(2026, 7, 3),
	}
	require.NoError(t, f.items.Create(ctx, owner, item))
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Tent", item.Name)
	assert.Equal(t, models.Tags{"camping", "gear"}, item.Tags)
	assert.True(t, item.NotificationsEnabled)
	require.NotNil(t, item.LocationID)

	tags, err := f.items.PopularTags(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	locs, err := f.items.Locations(ctx, owner.ID, models.LocationInCity)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Moscow", locs[0].Name)

	t.Run("Validation", func(t *testing.T) {
		cases := []struct {
			name string
			item models.Item
		}{
			{"EmptyName", models.Item{Name: "  ", CategoryID: cat.ID}},
			{"NegativePrice", models.Item{Name: "x", CategoryID: cat.ID, Price: models.NewDecimal(-1)}},
			{"BadURL", models.Item{Name: "x", CategoryID: cat.ID, URL: "not a url"}},
			{"EndWithoutStart", models.Item{Name: "x", CategoryID: cat.ID, DateTo: day(2026, 1, 1)}},
			{"EndBeforeStart", models.Item{Name: "x", CategoryID: cat.ID, DateFrom: day(2026, 1, 2), DateTo: day(2026, 1, 1)}},
			{"UnknownLocation", models.Item{Name: "x", CategoryID: cat.ID, LocationType: "moon"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				item := tc.item
				err := f.items.Create(ctx, owner, &item)
				assert.Equal(t, access.KindValidation, access.KindOf(err))
			})
		}
	})

	t.Run("Limit", func(t *testing.T) {
		require.NoError(t, f.items.Create(ctx, owner, &models.Item{Name: "Stove", CategoryID: cat.ID}))
		err := f.items.Create(ctx, owner, &models.Item{Name: "Lamp", CategoryID: cat.ID})
		assert.ErrorIs(t, err, ErrItemLimit)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		err := f.items.Create(ctx, owner, &models.Item{Name: "x", CategoryID: 999})
		assert.Equal(t, access.KindNotFound, access.KindOf(err))
	})
}

func TestItemService_Permissions(t *testing.T) {
	f := newFixture(t, defaultLimits)
	ctx := context.Background()
	owner := f.user(t, 1, "Owner")
	viewer := f.user(t, 2, "Viewer")
	stranger := f.user(t, 3, "Stranger")
	cat := f.category(t, owner, "Gifts")

	change, err := f.categories.ChangeSharing(ctx, owner.ID, cat.ID, models.SharingViewOnly)
	require.NoError(t, err)

	f.publisher.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)
	_, err = f.categories.RedeemCode(ctx, viewer, change.Code)
	require.NoError(t, err)

	item := &models.Item{Name: "Book", CategoryID: cat.ID}
	require.NoError(t, f.items.Create(ctx, owner, item))

	got, canEdit, err := f.items.Get(ctx, viewer.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, canEdit)
	assert.Equal(t, "Gifts", got.CategoryName)

	_, _, err = f.items.Get(ctx, stranger.ID, item.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)

	err = f.items.Create(ctx, viewer, &models.Item{Name: "Pen", CategoryID: cat.ID})
	assert.ErrorIs(t, err, access.ErrForbidden)

	err = f.items.Update(ctx, viewer, &models.Item{ID: item.ID, Name: "Renamed"})
	assert.ErrorIs(t, err, access.ErrForbidden)

	assert.ErrorIs(t, f.items.Delete(ctx, viewer, item.ID), access.ErrForbidden)

	_, _, err = f.items.Get(ctx, owner.ID, 12345)
	assert.Equal(t, access.KindNotFound, access.KindOf(err))
}

func TestItemService_UpdateMoveDelete(t *testing.T) {
	f := newFixture(t, defaultLimits)
	ctx := context.Background()
	owner := f.user(t, 1, "Owner")
	editor := f.user(t, 2, "Editor")
	trip := f.category(t, owner, "Trip")
	home := f.category(t, owner, "Home")
	foreign := f.category(t, editor, "Editor's own")

	change, err := f.categories.ChangeSharing(ctx, owner.ID, trip.ID, models.SharingCollaborative)
	require.NoError(t, err)

	f.publisher.On("PublishJSON", events.EventAccessGranted, mock.Anything).Return(nil).Once()
	_, err = f.categories.RedeemCode(ctx, editor, change.Code)
	require.NoError(t, err)

	f.publisher.On("PublishJSON", events.EventItemAdded, mock.Anything).Return(nil).Once()
	item := &models.Item{Name: "Tent", CategoryID: trip.ID, Tags: models.Tags{"gear"}, PhotoFileID: "photo-1"}
	require.NoError(t, f.items.Create(ctx, owner, item))

	t.Run("EditorUpdates", func(t *testing.T) {
		f.publisher.On("PublishJSON", events.EventItemEdited, mock.MatchedBy(func(p events.ItemChangedPayload) bool {
			return p.ItemName == "Big tent" && p.ActorID == editor.ID && p.SharingType == string(models.SharingCollaborative)
		})).Return(nil).Once()

		update := &models.Item{ID: item.ID, Name: "Big tent", CategoryID: home.ID, Tags: models.Tags{"gear", "outdoor"}, PhotoFileID: "photo-1"}
		require.NoError(t, f.items.Update(ctx, editor, update))

		got, canEdit, err := f.items.Get(ctx, editor.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, canEdit)
		assert.Equal(t, "Big tent", got.Name)
		assert.Equal(t, trip.ID, got.CategoryID, "update never moves the item")
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.True(t, got.NotificationsEnabled, "update keeps the reminder flag")
	})

	t.Run("ToggleNotifications", func(t *testing.T) {
		enabled, err := f.items.ToggleNotifications(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.False(t, enabled)

		enabled, err = f.items.ToggleNotifications(ctx, owner, item.ID)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("MoveNeedsEditOnTarget", func(t *testing.T) {
		err := f.items.Move(ctx, owner, item.ID, foreign.ID)
		assert.ErrorIs(t, err, access.ErrForbidden)

		err = f.items.Move(ctx, owner, item.ID, trip.ID)
		assert.Equal(t, access.KindValidation, access.KindOf(err))
	})

	t.Run("Move", func(t *testing.T) {
		f.publisher.On("PublishJSON", events.EventItemMoved, mock.MatchedBy(func(p events.ItemChangedPayload) bool {
			return p.CategoryID == home.ID && p.CategoryName == "Home"
		})).Return(nil).Once()

		require.NoError(t, f.items.Move(ctx, owner, item.ID, home.ID))

		_, _, err := f.items.Get(ctx, editor.ID, item.ID)
		assert.ErrorIs(t, err, access.ErrForbidden, "editor has no grant on Home")
	})

	t.Run("Delete", func(t *testing.T) {
		f.publisher.On("PublishJSON", events.EventItemDeleted, mock.MatchedBy(func(p events.ItemChangedPayload) bool {
			return p.ItemID == item.ID && p.PhotoRef == "photo-1"
		})).Return(nil).Once()

		require.NoError(t, f.items.Delete(ctx, owner, item.ID))
		_, _, err := f.items.Get(ctx, owner.ID, item.ID)
		assert.Equal(t, access.KindNotFound, access.KindOf(err))
	})

	f.publisher.AssertExpectations(t)
}

func TestItemService_Filter(t *testing.T) {
	f := newFixture(t, defaultLimits)
	ctx := context.Background()
	owner := f.user(t, 1, "Owner")
	cat := f.category(t, owner, "Trip")

	f.publisher.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, f.items.Create(ctx, owner, &models.Item{Name: "Tent", CategoryID: cat.ID, Price: models.NewDecimal(3000)}))
	require.NoError(t, f.items.Create(ctx, owner, &models.Item{Name: "Stove", CategoryID: cat.ID, Price: models.NewDecimal(800)}))

	items, err := f.items.Filter(ctx, owner.ID, models.ItemFilter{PriceMax: models.NewDecimal(1000)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Stove", items[0].Name)

	_, err = f.items.Filter(ctx, owner.ID, models.ItemFilter{LocationType: "moon"})
	assert.Equal(t, access.KindValidation, access.KindOf(err))
}
