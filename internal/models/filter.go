package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemFilter narrows the items visible to a user. Zero values mean "any".
type ItemFilter struct {
	CategoryID    int64               `json:"category_id,omitempty"`
	Tag           string              `json:"tag,omitempty" validate:"max=50"`
	PriceMin      decimal.NullDecimal `json:"price_min"`
	PriceMax      decimal.NullDecimal `json:"price_max"`
	PriceExact    decimal.NullDecimal `json:"price_exact"`
	LocationType  LocationType        `json:"location_type,omitempty"`
	LocationValue string              `json:"location_value,omitempty" validate:"max=200"`
	DateFrom      *time.Time          `json:"date_from,omitempty"`
	DateTo        *time.Time          `json:"date_to,omitempty"`
	ProductType   ProductType         `json:"product_type,omitempty"`
}

func (f ItemFilter) IsEmpty() bool {
	return f.CategoryID == 0 &&
		f.Tag == "" &&
		!f.PriceMin.Valid && !f.PriceMax.Valid && !f.PriceExact.Valid &&
		f.LocationType == "" && f.LocationValue == "" &&
		f.DateFrom == nil && f.DateTo == nil &&
		f.ProductType == ""
}

// NewDecimal wraps a value into a valid NullDecimal.
func NewDecimal(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}
