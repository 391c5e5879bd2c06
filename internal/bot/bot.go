// Package bot is the Telegram front-end: menus, multi-step input, item
// cards, lists, filters and settings.
package bot

import (
	"context"
	"time"

	"wishbot/internal/config"
	"wishbot/internal/domain"
	"wishbot/internal/i18n"
	"wishbot/internal/models"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	users        UserService
	categories   CategoryService
	items        ItemService
	metrics      *Metrics
	validate     *validator.Validate
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService domain.StateManager,
	users UserService,
	categories CategoryService,
	items ItemService,
	metrics *Metrics,
	logger *zerolog.Logger,
) *Bot {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "bot").Logger()

	return &Bot{
		tgService:    tgService,
		config:       config,
		stateService: stateService,
		users:        users,
		categories:   categories,
		items:        items,
		metrics:      metrics,
		validate:     validator.New(),
		logger:       &l,
		now:          time.Now,
	}
}

// request carries what every handler needs about the current update.
type request struct {
	ctx       context.Context
	user      *models.User
	chatID    int64
	messageID int
}

func (r *request) lang() models.Language {
	return r.user.Language
}

func (r *request) t(key string, args ...interface{}) string {
	return i18n.T(r.user.Language, key, args...)
}

// Start consumes updates until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.tgService.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		from := update.SentFrom()
		chat := update.FromChat()
		if from == nil || chat == nil || from.IsBot {
			return
		}

		allowed, err := b.stateService.CheckRateLimit(updateCtx, from.ID, b.rateLimitMessages(), b.rateLimitWindow())
		if err != nil {
			l.Error().Err(err).Int64("user_id", from.ID).Msg("Rate limit check failed")
		} else if !allowed {
			l.Warn().Int64("user_id", from.ID).Msg("Rate limit exceeded")
			if update.Message != nil {
				b.sendMessage(chat.ID, i18n.T(models.ParseLanguage(from.LanguageCode), "msg.rate_limited"))
			}
			return
		}

		user, err := b.users.EnsureUser(updateCtx, from.ID, from.UserName, from.FirstName, from.LastName, from.LanguageCode)
		if err != nil {
			l.Error().Err(err).Int64("telegram_id", from.ID).Msg("Failed to register user")
			b.sendMessage(chat.ID, i18n.T(models.ParseLanguage(from.LanguageCode), "err.generic"))
			return
		}

		r := &request{ctx: updateCtx, user: user, chatID: chat.ID}

		if update.CallbackQuery != nil {
			if b.metrics != nil {
				b.metrics.CallbacksProcessed.Inc()
			}
			if update.CallbackQuery.Message != nil {
				r.messageID = update.CallbackQuery.Message.MessageID
			}
			b.handleCallbackQuery(r, update.CallbackQuery)
			return
		}

		if update.Message != nil {
			if b.metrics != nil {
				b.metrics.MessagesProcessed.Inc()
			}
			b.handleMessage(r, update.Message)
		}
	})
}

func (b *Bot) rateLimitMessages() int {
	if b.config.Bot.RateLimitMessages > 0 {
		return b.config.Bot.RateLimitMessages
	}
	return models.RateLimitMessages
}

func (b *Bot) rateLimitWindow() time.Duration {
	if b.config.Bot.RateLimitWindow > 0 {
		return time.Duration(b.config.Bot.RateLimitWindow) * time.Second
	}
	return models.RateLimitWindow * time.Second
}

func (b *Bot) pageSize() int {
	if b.config.Bot.PaginationSize > 0 {
		return b.config.Bot.PaginationSize
	}
	return models.DefaultPaginationSize
}
