package bot

import (
	"fmt"

	"wishbot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var _ domain.TelegramSender = (*BotWrapper)(nil)

// BotWrapper adapts *tgbotapi.BotAPI to domain.TelegramSender so the bot,
// the notice gateway and the reminder scheduler share one connection.
type BotWrapper struct {
	*tgbotapi.BotAPI
}

// NewBotWrapper authorizes token against the Bot API.
func NewBotWrapper(token string, debug bool) (*BotWrapper, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	api.Debug = debug
	return &BotWrapper{BotAPI: api}, nil
}

func (w *BotWrapper) GetSelf() tgbotapi.User {
	if w == nil || w.BotAPI == nil {
		return tgbotapi.User{}
	}
	return w.Self
}

func (w *BotWrapper) StopReceivingUpdates() {
	if w == nil || w.BotAPI == nil {
		return
	}
	w.BotAPI.StopReceivingUpdates()
}
