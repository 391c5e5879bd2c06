package models

import (
	"database/sql"
	"time"
)

type SharingType string

const (
	SharingPrivate       SharingType = "private"
	SharingViewOnly      SharingType = "view_only"
	SharingCollaborative SharingType = "collaborative"
)

func (s SharingType) Valid() bool {
	switch s {
	case SharingPrivate, SharingViewOnly, SharingCollaborative:
		return true
	}
	return false
}

// IsShared reports whether the sharing type requires a live share code.
func (s SharingType) IsShared() bool {
	return s == SharingViewOnly || s == SharingCollaborative
}

type Category struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	OwnerID     int64          `db:"owner_id" json:"owner_id"`
	SharingType SharingType    `db:"sharing_type" json:"sharing_type"`
	ShareCode   sql.NullString `db:"share_code" json:"-"`
	Date        *time.Time     `db:"date" json:"date,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Code returns the share code or an empty string for private categories.
func (c *Category) Code() string {
	if c == nil || !c.ShareCode.Valid {
		return ""
	}
	return c.ShareCode.String
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// CategoryAccess is a category as seen by a particular user.
type CategoryAccess struct {
	Category
	Role Role `db:"role" json:"role"`
}

type SharedAccess struct {
	ID         int64     `db:"id" json:"id"`
	CategoryID int64     `db:"category_id" json:"category_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	CanEdit    bool      `db:"can_edit" json:"can_edit"`
	SharedAt   time.Time `db:"shared_at" json:"shared_at"`
}
