package service

import (
	"context"
	"fmt"

	"wishbot/internal/domain"
	"wishbot/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.UserStore
	logger *zerolog.Logger
}

func NewUserService(repo domain.UserStore, logger *zerolog.Logger) *UserService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// EnsureUser registers the chat user on first contact and refreshes the
// name fields on later ones. The language is only taken from the client on
// registration; afterwards the stored preference wins.
func (s *UserService) EnsureUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*models.User, error) {
	user, err := s.repo.UpsertUser(ctx, &models.User{
		TelegramID:           telegramID,
		Username:             username,
		FirstName:            firstName,
		LastName:             lastName,
		NotificationsEnabled: true,
		Language:             models.ParseLanguage(languageCode),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", telegramID, err)
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

// ToggleNotifications flips the user's reminder flag and returns the new value.
func (s *UserService) ToggleNotifications(ctx context.Context, user *models.User) (bool, error) {
	enabled := !user.NotificationsEnabled
	if err := s.repo.SetUserNotifications(ctx, user.ID, enabled); err != nil {
		return user.NotificationsEnabled, lookup(err, "user")
	}
	user.NotificationsEnabled = enabled
	s.logger.Debug().Int64("user_id", user.ID).Bool("enabled", enabled).Msg("Notifications toggled")
	return enabled, nil
}

func (s *UserService) SetLanguage(ctx context.Context, user *models.User, language models.Language) error {
	if language != models.LanguageEN && language != models.LanguageRU {
		return invalid("unsupported language %q", language)
	}
	if err := s.repo.SetUserLanguage(ctx, user.ID, language); err != nil {
		return lookup(err, "user")
	}
	user.Language = language
	return nil
}
