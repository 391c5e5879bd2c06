package bot

import (
	"fmt"
	"testing"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/i18n"
	"wishbot/internal/models"
	"wishbot/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"1500", "1500", false},
		{"1 500", "1500", false},
		{"99,90", "99.9", false},
		{"99.90", "99.9", false},
		{"250₽", "250", false},
		{"0", "0", false},
		{"-10", "", true},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got.String(), tt.input)
	}
}

func TestParsePriceRange(t *testing.T) {
	low, high, err := parsePriceRange("1000 - 3000")
	require.NoError(t, err)
	assert.True(t, low.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, high.Decimal.Equal(decimal.NewFromInt(3000)))

	low, high, err = parsePriceRange("500-")
	require.NoError(t, err)
	assert.True(t, low.Valid)
	assert.False(t, high.Valid)

	low, high, err = parsePriceRange("-700")
	require.NoError(t, err)
	assert.False(t, low.Valid)
	assert.True(t, high.Decimal.Equal(decimal.NewFromInt(700)))

	for _, bad := range []string{"1000", "-", "3000-1000", "a-b"} {
		_, _, err := parsePriceRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, err := parseDateRange("05.03.2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), from)
	assert.Nil(t, to)

	from, to, err = parseDateRange("05.03.2026 - 07.03.2026")
	require.NoError(t, err)
	assert.Equal(t, 5, from.Day())
	require.NotNil(t, to)
	assert.Equal(t, 7, to.Day())

	_, _, err = parseDateRange("07.03.2026 - 05.03.2026")
	assert.Error(t, err)
	_, _, err = parseDateRange("2026-03-05")
	assert.Error(t, err)
	_, _, err = parseDateRange("30.02.2026")
	assert.Error(t, err)
}

func TestFormatDates(t *testing.T) {
	from := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 2)

	assert.Equal(t, "", formatDates(nil, nil))
	assert.Equal(t, "05.03.2026", formatDates(&from, nil))
	assert.Equal(t, "05.03.2026", formatDates(&from, &from))
	assert.Equal(t, "05.03.2026 - 07.03.2026", formatDates(&from, &to))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "", formatPrice(decimal.NullDecimal{}))
	assert.Equal(t, "1500.00", formatPrice(models.NewDecimal(1500)))
	assert.Equal(t, "99.90", formatPrice(decimal.NewNullDecimal(decimal.RequireFromString("99.9"))))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Прив…", truncate("Привет мир", 5))
}

func TestCallbackData(t *testing.T) {
	data := callbackData("item_move_to", 12, 34)
	assert.Equal(t, "item_move_to:12:34", data)

	prefix, args := parseCallback(data)
	assert.Equal(t, "item_move_to", prefix)
	assert.Equal(t, int64(12), argInt(args, 0))
	assert.Equal(t, int64(34), argInt(args, 1))
	assert.Equal(t, int64(0), argInt(args, 2))
	assert.Equal(t, "", argString(args, 5))

	prefix, args = parseCallback("menu")
	assert.Equal(t, "menu", prefix)
	assert.Empty(t, args)

	assert.Equal(t, "collaborative", argString([]string{"7", "collaborative"}, 1))
}

func TestNextAddStep(t *testing.T) {
	withLocation := &models.Item{LocationType: models.LocationInCity}
	noLocation := &models.Item{}

	tests := []struct {
		current string
		draft   *models.Item
		want    string
	}{
		{stepItemCategory, noLocation, stepItemName},
		{stepItemName, noLocation, stepItemPrice},
		{stepItemPrice, noLocation, stepItemTags},
		{stepItemTags, noLocation, stepItemLocation},
		{stepItemLocation, withLocation, stepItemLocationValue},
		{stepItemLocation, noLocation, stepItemDate},
		{stepItemLocationValue, withLocation, stepItemDate},
		{stepItemDate, noLocation, stepItemURL},
		{stepItemURL, noLocation, stepItemComment},
		{stepItemComment, noLocation, stepItemPhoto},
		{stepItemPhoto, noLocation, stepItemType},
		{stepItemType, noLocation, stepItemConfirm},
		{stepItemConfirm, noLocation, stepItemConfirm},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nextAddStep(tt.current, tt.draft), tt.current)
	}
}

func TestDraftAndFilterRoundTrip(t *testing.T) {
	state := &models.UserState{TempData: map[string]interface{}{}}

	draft, err := draftOf(state)
	require.NoError(t, err)
	assert.Equal(t, &models.Item{}, draft)

	require.NoError(t, putDraft(state, &models.Item{Name: "Tent", Tags: models.Tags{"camping"}}))
	draft, err = draftOf(state)
	require.NoError(t, err)
	assert.Equal(t, "Tent", draft.Name)
	assert.Equal(t, models.Tags{"camping"}, draft.Tags)

	putFilter(state, models.ItemFilter{Tag: "camping"})
	assert.Equal(t, "camping", filterOf(state).Tag)

	putFilter(state, models.ItemFilter{})
	assert.False(t, state.Has(keyFilter), "empty filter is not stored")
}

func TestErrorText(t *testing.T) {
	lang := models.LanguageEN
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrCategoryLimit, "err.category_limit"},
		{service.ErrItemLimit, "err.item_limit"},
		{fmt.Errorf("wrap: %w", access.ErrCodeNotFound), "err.code_not_found"},
		{access.ErrForbidden, "err.not_found"},
		{access.ErrInvalidCode, "err.invalid_code"},
		{&access.Error{Kind: access.KindValidation, Msg: "name is required"}, "err.validation"},
		{&access.Error{Kind: access.KindCategoryIsPrivate}, "err.category_private"},
		{&access.Error{Kind: access.KindSelfOwned}, "err.self_owned"},
		{fmt.Errorf("boom"), "err.generic"},
	}

	for _, tt := range tests {
		assert.Equal(t, i18n.T(lang, tt.want), errorText(lang, tt.err), tt.want)
	}

	limited := &access.Error{Kind: access.KindRateLimited, RetryAfter: 90 * time.Second}
	assert.Equal(t, i18n.T(lang, "err.rate_limited", 2), errorText(lang, limited))
	assert.Empty(t, errorText(lang, nil))
}
