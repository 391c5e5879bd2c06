package notify

import (
	"context"
	"errors"
	"time"

	"wishbot/internal/domain"
	"wishbot/internal/models"
	"wishbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TelegramGateway sends rendered notices through the Bot API, throttled to
// stay under the global send limit and retried on transient failures.
type TelegramGateway struct {
	sender  domain.TelegramSender
	limiter *rate.Limiter
	retry   worker.RetryPolicy
	logger  *zerolog.Logger
}

func NewTelegramGateway(sender domain.TelegramSender, rps float64, retries int, logger *zerolog.Logger) *TelegramGateway {
	if rps <= 0 {
		rps = 25
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &TelegramGateway{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry: worker.RetryPolicy{
			MaxRetries:    retries,
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2,
		},
		logger: logger,
	}
}

// Deliver sends text to the chat, as a photo caption when photoRef is set.
func (g *TelegramGateway) Deliver(ctx context.Context, telegramID int64, text, photoRef string) error {
	err := worker.Do(ctx, g.retry, func(ctx context.Context) error {
		if err := g.limiter.Wait(ctx); err != nil {
			return worker.Permanent(err)
		}
		_, err := g.sender.Send(chattable(telegramID, text, photoRef))
		return classify(err)
	})
	if err != nil {
		g.logger.Warn().Err(err).Int64("telegram_id", telegramID).Bool("photo", photoRef != "").Msg("Notification delivery failed")
	}
	return err
}

func chattable(telegramID int64, text, photoRef string) tgbotapi.Chattable {
	if photoRef != "" {
		photo := tgbotapi.NewPhoto(telegramID, tgbotapi.FileID(photoRef))
		photo.Caption = text
		photo.ParseMode = models.ParseModeMarkdown
		return photo
	}
	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ParseMode = models.ParseModeMarkdown
	return msg
}

// classify marks Bot API client errors as permanent (blocked bot, missing
// chat, bad markup) and honours flood-control hints.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == 429:
		return worker.RetryAfter(err, time.Duration(apiErr.RetryAfter)*time.Second)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return worker.Permanent(err)
	default:
		return err
	}
}
