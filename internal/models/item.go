package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

type LocationType string

const (
	LocationInCity     LocationType = "in_city"
	LocationOutOfCity  LocationType = "out_of_city"
	LocationByDistrict LocationType = "by_district"
)

func (l LocationType) Valid() bool {
	switch l {
	case LocationInCity, LocationOutOfCity, LocationByDistrict:
		return true
	}
	return false
}

type ProductType string

const (
	ProductEvent ProductType = "event"
	ProductVenue ProductType = "venue"
	ProductItem  ProductType = "item"
)

func (p ProductType) Valid() bool {
	switch p {
	case ProductEvent, ProductVenue, ProductItem:
		return true
	}
	return false
}

// Tags is an ordered list of normalized tag names stored as a JSON array.
type Tags []string

// NormalizeTag trims whitespace and a leading '#', and lowercases the name.
func NormalizeTag(raw string) string {
	name := strings.Map(tagRune, raw)
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(name, "#")
	return strings.ToLower(strings.TrimSpace(name))
}

// tagRune drops runes the JSON tags column stores escaped, so the stored
// text always contains the tag verbatim.
func tagRune(r rune) rune {
	switch {
	case r == '"', r == '\\', r == '\u2028', r == '\u2029':
		return -1
	case unicode.IsControl(r):
		return -1
	}
	return r
}

// ParseTags splits user input on commas and whitespace, normalizes and
// deduplicates the result preserving order.
func ParseTags(raw string) Tags {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	seen := make(map[string]struct{}, len(fields))
	tags := make(Tags, 0, len(fields))
	for _, f := range fields {
		name := NormalizeTag(f)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]string(t)); err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (t *Tags) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported tags type %T", src)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		*t = Tags{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}
	*t = out
	return nil
}

func (t Tags) String() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, len(t))
	for i, tag := range t {
		parts[i] = "#" + tag
	}
	return strings.Join(parts, " ")
}

type Item struct {
	ID                   int64               `db:"id" json:"id"`
	Name                 string              `db:"name" json:"name" validate:"required,max=200"`
	CategoryID           int64               `db:"category_id" json:"category_id" validate:"required"`
	OwnerID              int64               `db:"owner_id" json:"owner_id"`
	LocationID           *int64              `db:"location_id" json:"location_id,omitempty"`
	Tags                 Tags                `db:"tags" json:"tags" validate:"max=20,dive,max=50"`
	Price                decimal.NullDecimal `db:"price" json:"price"`
	LocationType         LocationType        `db:"location_type" json:"location_type,omitempty"`
	LocationValue        string              `db:"location_value" json:"location_value,omitempty" validate:"max=200"`
	DateFrom             *time.Time          `db:"date_from" json:"date_from,omitempty"`
	DateTo               *time.Time          `db:"date_to" json:"date_to,omitempty"`
	URL                  string              `db:"url" json:"url,omitempty" validate:"omitempty,url"`
	Comment              string              `db:"comment" json:"comment,omitempty" validate:"max=1000"`
	PhotoFileID          string              `db:"photo_file_id" json:"photo_file_id,omitempty"`
	ProductType          ProductType         `db:"product_type" json:"product_type"`
	NotificationsEnabled bool                `db:"notifications_enabled" json:"notifications_enabled"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}

// HasPhoto reports whether the item carries a photo reference.
func (i *Item) HasPhoto() bool {
	return i != nil && i.PhotoFileID != ""
}

// ItemWithCategory is an item joined with the category attributes needed to
// evaluate visibility and render cards.
type ItemWithCategory struct {
	Item
	CategoryName    string      `db:"category_name" json:"category_name"`
	CategoryOwnerID int64       `db:"category_owner_id" json:"category_owner_id"`
	SharingType     SharingType `db:"category_sharing_type" json:"category_sharing_type"`
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayPtr is Day for optional dates.
func DayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}
