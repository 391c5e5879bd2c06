package filter

import (
	"time"

	"wishbot/internal/models"

	"github.com/shopspring/decimal"
)

// PricePreset is a named price bucket offered as a button.
type PricePreset struct {
	Key string
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

// Apply sets the bucket bounds on f, clearing any exact price.
func (p PricePreset) Apply(f *models.ItemFilter) {
	f.PriceExact = decimal.NullDecimal{}
	f.PriceMin = p.Min
	f.PriceMax = p.Max
}

var none decimal.NullDecimal

// PricePresets are ordered from cheapest to most expensive. Bounds are
// inclusive.
var PricePresets = []PricePreset{
	{Key: "max_1000", Min: none, Max: models.NewDecimal(1000)},
	{Key: "1000_3000", Min: models.NewDecimal(1000), Max: models.NewDecimal(3000)},
	{Key: "3000_5000", Min: models.NewDecimal(3000), Max: models.NewDecimal(5000)},
	{Key: "5000_10000", Min: models.NewDecimal(5000), Max: models.NewDecimal(10000)},
	{Key: "min_10000", Min: models.NewDecimal(10000), Max: none},
}

func PricePresetByKey(key string) (PricePreset, bool) {
	for _, p := range PricePresets {
		if p.Key == key {
			return p, true
		}
	}
	return PricePreset{}, false
}

type DatePreset string

const (
	DateThisWeek  DatePreset = "week"
	DateThisMonth DatePreset = "month"
)

// Range returns the calendar days covered by the preset around now, as seen
// in loc. Both bounds are inclusive day values.
func (p DatePreset) Range(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	today := models.Day(now.In(loc))

	switch p {
	case DateThisWeek:
		// Monday starts the week
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 6), true
	case DateThisMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, -1), true
	}
	return time.Time{}, time.Time{}, false
}

// Apply sets the date window on f. Unknown presets leave f unchanged.
func (p DatePreset) Apply(f *models.ItemFilter, now time.Time, loc *time.Location) bool {
	from, to, ok := p.Range(now, loc)
	if !ok {
		return false
	}
	f.DateFrom = &from
	f.DateTo = &to
	return true
}
