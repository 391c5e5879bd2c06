package domain

import (
	"context"
	"time"

	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	SetUserNotifications(ctx context.Context, userID int64, enabled bool) error
	SetUserLanguage(ctx context.Context, userID int64, language models.Language) error
}

// AccessStore is the part of the store the access engine depends on.
type AccessStore interface {
	FindCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	FindCategoryByCode(ctx context.Context, code string) (*models.Category, error)
	FindSharedAccess(ctx context.Context, categoryID, userID int64) (*models.SharedAccess, error)
	InsertSharedAccess(ctx context.Context, sa *models.SharedAccess) error
	DeleteAllSharedAccess(ctx context.Context, categoryID int64) (int64, error)
	UpdateCategorySharing(ctx context.Context, id int64, sharingType models.SharingType, code string) error
	RevokeSharing(ctx context.Context, id int64) ([]int64, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategoriesForUser(ctx context.Context, userID int64) ([]*models.CategoryAccess, error)
	ListEditableCategories(ctx context.Context, userID int64) ([]*models.CategoryAccess, error)
	CountCategoriesByOwner(ctx context.Context, ownerID int64) (int, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	SetCategoryDate(ctx context.Context, id int64, date *time.Time) error
	DeleteCategory(ctx context.Context, id int64) error
	ListSharedUsers(ctx context.Context, categoryID int64) ([]*models.User, error)
	CountSharedUsers(ctx context.Context, categoryID int64) (int, error)
}

// ItemQuerier runs a predicate over items joined with their category.
type ItemQuerier interface {
	QueryItems(ctx context.Context, pred sq.Sqlizer) ([]*models.ItemWithCategory, error)
}

type ItemStore interface {
	ItemQuerier
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.ItemWithCategory, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	MoveItem(ctx context.Context, itemID, categoryID int64) error
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
}

type TagStore interface {
	UpsertTag(ctx context.Context, name string, userID int64) (*models.Tag, error)
	PopularTags(ctx context.Context, userID int64, limit int) ([]*models.Tag, error)
	UpsertLocation(ctx context.Context, locationType models.LocationType, name string, userID int64) (*models.Location, error)
	LocationsByType(ctx context.Context, userID int64, locationType models.LocationType, limit int) ([]*models.Location, error)
	GetLocation(ctx context.Context, id int64) (*models.Location, error)
}

// ItemRepository is what the item service needs from the store.
type ItemRepository interface {
	ItemStore
	TagStore
	FindCategoryByID(ctx context.Context, id int64) (*models.Category, error)
}

type ReminderStore interface {
	DueItemReminders(ctx context.Context, from, to time.Time) ([]*models.ItemWithCategory, error)
	DueCategoryReminders(ctx context.Context, from, to time.Time) ([]*models.Category, error)
	ChangeRecipients(ctx context.Context, categoryID, actorID int64) ([]*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
}

// Store is the full relational store.
type Store interface {
	UserStore
	AccessStore
	CategoryStore
	ItemStore
	TagStore
	ReminderStore
	Ping(ctx context.Context) error
}

// Counter is a TTL-capable key counter.
type Counter interface {
	Get(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Lease is a named, expiring lock held by at most one instance.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Refresh(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Gateway delivers a rendered message, optionally with a photo, to a chat.
type Gateway interface {
	Deliver(ctx context.Context, telegramID int64, text, photoRef string) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendPhoto(chatID int64, fileID, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
