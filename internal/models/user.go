package models

import (
	"strings"
	"time"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

// ParseLanguage maps a Telegram language code to a supported language.
func ParseLanguage(code string) Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(code)), "ru") {
		return LanguageRU
	}
	return LanguageEN
}

type User struct {
	ID                   int64     `db:"id" json:"id"`
	TelegramID           int64     `db:"telegram_id" json:"telegram_id"`     // Уникальный ID Telegram
	Username             string    `db:"username" json:"username"`           // Юзернейм Telegram
	FirstName            string    `db:"first_name" json:"first_name"`       // Имя пользователя
	LastName             string    `db:"last_name" json:"last_name"`         // Фамилия пользователя
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	Language             Language  `db:"language" json:"language"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// DisplayName returns the first name, falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return ""
}
