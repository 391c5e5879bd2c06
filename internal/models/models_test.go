package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserState_Helpers(t *testing.T) {
	now := time.Now()
	state := &UserState{
		TempData: map[string]interface{}{
			"int64":   int64(123),
			"int":     123,
			"float":   123.45,
			"string":  "hello",
			"bool":    true,
			"time":    "2025-01-01T10:00:00Z",
			"time_t":  now,
			"strings": []interface{}{"a", 1, "b"},
			"strs":    []string{"x"},
		},
	}

	t.Run("NilTempData", func(t *testing.T) {
		nilState := &UserState{}
		assert.Equal(t, int64(0), nilState.GetInt64("any"))
		assert.Equal(t, "", nilState.GetString("any"))
		assert.False(t, nilState.GetBool("any"))
		assert.True(t, nilState.GetTime("any").IsZero())
		assert.Nil(t, nilState.GetStrings("any"))
		assert.False(t, nilState.Has("any"))
	})

	t.Run("GetInt64", func(t *testing.T) {
		assert.Equal(t, int64(123), state.GetInt64("int64"))
		assert.Equal(t, int64(123), state.GetInt64("int"))
		assert.Equal(t, int64(123), state.GetInt64("float"))
		assert.Equal(t, int64(0), state.GetInt64("string"))
		assert.Equal(t, int64(0), state.GetInt64("missing"))
	})

	t.Run("GetString", func(t *testing.T) {
		assert.Equal(t, "hello", state.GetString("string"))
		assert.Equal(t, "", state.GetString("int"))
	})

	t.Run("GetBool", func(t *testing.T) {
		assert.True(t, state.GetBool("bool"))
		assert.False(t, state.GetBool("string"))
	})

	t.Run("GetTime", func(t *testing.T) {
		tm := state.GetTime("time")
		assert.Equal(t, 2025, tm.Year())
		assert.Equal(t, now, state.GetTime("time_t"))
		assert.True(t, state.GetTime("string").IsZero())
	})

	t.Run("GetStrings", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, state.GetStrings("strings"))
		assert.Equal(t, []string{"x"}, state.GetStrings("strs"))
	})

	t.Run("Set", func(t *testing.T) {
		s := &UserState{}
		s.Set("k", "v")
		assert.True(t, s.Has("k"))
		assert.Equal(t, "v", s.GetString("k"))
	})
}

func TestParseTags(t *testing.T) {
	tags := ParseTags("#Beach, hiking  #beach;Кемпинг")
	assert.Equal(t, Tags{"beach", "hiking", "кемпинг"}, tags)
	assert.Empty(t, ParseTags("  , # ,"))
}

func TestNormalizeTag(t *testing.T) {
	tests := map[string]string{
		"  #Camping ":   "camping",
		`"quoted"`:      "quoted",
		`back\slash`:    "backslash",
		"line\u2028sep": "linesep",
		"bell\x07":      "bell",
		"##":            "",
	}
	for raw, want := range tests {
		assert.Equal(t, want, NormalizeTag(raw), raw)
	}

	v, err := Tags{NormalizeTag(`a"b\c`)}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["abc"]`, v)
}

func TestTags_ValueScan(t *testing.T) {
	v, err := Tags{"a&b", "кино"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a&b","кино"]`, v)

	empty, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	var got Tags
	require.NoError(t, got.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, Tags{"x", "y"}, got)

	require.NoError(t, got.Scan(nil))
	assert.Empty(t, got)

	assert.Error(t, got.Scan(42))
	assert.Error(t, got.Scan("not json"))
	assert.Equal(t, "#x #y", Tags{"x", "y"}.String())
}

func TestEnums(t *testing.T) {
	assert.True(t, SharingViewOnly.IsShared())
	assert.True(t, SharingCollaborative.IsShared())
	assert.False(t, SharingPrivate.IsShared())
	assert.False(t, SharingType("public").Valid())
	assert.True(t, LocationByDistrict.Valid())
	assert.False(t, ProductType("car").Valid())
	assert.True(t, RoleEditor.CanEdit())
	assert.False(t, RoleViewer.CanEdit())
	assert.Equal(t, LanguageRU, ParseLanguage("ru-RU"))
	assert.Equal(t, LanguageEN, ParseLanguage(""))
}

func TestItemFilter_IsEmpty(t *testing.T) {
	assert.True(t, ItemFilter{}.IsEmpty())
	assert.False(t, ItemFilter{PriceExact: NewDecimal(100)}.IsEmpty())

	raw, err := json.Marshal(ItemFilter{Tag: "x", PriceMin: NewDecimal(5)})
	require.NoError(t, err)
	var back ItemFilter
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "x", back.Tag)
	assert.True(t, back.PriceMin.Valid)
	assert.False(t, back.PriceMax.Valid)
}

func TestDay(t *testing.T) {
	in := time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Day(in))
	assert.Nil(t, DayPtr(nil))
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ann", (&User{FirstName: "Ann", Username: "ann"}).DisplayName())
	assert.Equal(t, "@ann", (&User{Username: "ann"}).DisplayName())
	assert.Equal(t, "", (*User)(nil).DisplayName())
}
