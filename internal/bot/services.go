package bot

import (
	"context"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/models"
)

type UserService interface {
	EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*models.User, error)
	ToggleNotifications(ctx context.Context, user *models.User) (bool, error)
	SetLanguage(ctx context.Context, user *models.User, language models.Language) error
}

type CategoryService interface {
	Create(ctx context.Context, owner *models.User, name string, date *time.Time) (*models.Category, error)
	List(ctx context.Context, userID int64) ([]*models.CategoryAccess, error)
	ListEditable(ctx context.Context, userID int64) ([]*models.CategoryAccess, error)
	Get(ctx context.Context, userID, categoryID int64) (*models.CategoryAccess, error)
	Rename(ctx context.Context, userID, categoryID int64, name string) error
	SetDate(ctx context.Context, userID, categoryID int64, date *time.Time) error
	ChangeSharing(ctx context.Context, userID, categoryID int64, sharingType models.SharingType) (access.SharingChange, error)
	ShareCode(ctx context.Context, userID, categoryID int64) (string, error)
	RedeemCode(ctx context.Context, user *models.User, code string) (access.Redemption, error)
	Members(ctx context.Context, userID, categoryID int64) ([]*models.User, error)
	Delete(ctx context.Context, userID, categoryID int64) error
}

type ItemService interface {
	Create(ctx context.Context, actor *models.User, item *models.Item) error
	Get(ctx context.Context, userID, itemID int64) (*models.ItemWithCategory, bool, error)
	Update(ctx context.Context, actor *models.User, item *models.Item) error
	Delete(ctx context.Context, actor *models.User, itemID int64) error
	Move(ctx context.Context, actor *models.User, itemID, targetCategoryID int64) error
	ToggleNotifications(ctx context.Context, actor *models.User, itemID int64) (bool, error)
	Filter(ctx context.Context, userID int64, f models.ItemFilter) ([]*models.ItemWithCategory, error)
	PopularTags(ctx context.Context, userID int64) ([]*models.Tag, error)
	Locations(ctx context.Context, userID int64, locationType models.LocationType) ([]*models.Location, error)
}
