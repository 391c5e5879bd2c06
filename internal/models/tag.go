package models

import "time"

type Tag struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	UserID     int64     `db:"user_id" json:"user_id"`
	UsageCount int64     `db:"usage_count" json:"usage_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Location struct {
	ID           int64        `db:"id" json:"id"`
	LocationType LocationType `db:"location_type" json:"location_type"`
	Name         string       `db:"name" json:"name"`
	UserID       int64        `db:"user_id" json:"user_id"`
	UsageCount   int64        `db:"usage_count" json:"usage_count"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}
