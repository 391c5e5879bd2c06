package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wishbot/internal/i18n"
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// send posts a Markdown message with an optional keyboard.
func (b *Bot) send(r *request, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", r.chatID).Msg("Failed to send message")
	}
}

// edit replaces the message the callback came from, falling back to a new
// message when the original cannot be edited (photos, old messages).
func (b *Bot) edit(r *request, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if r.messageID == 0 {
		b.send(r, text, kb)
		return
	}
	if _, err := b.tgService.EditMessage(r.chatID, r.messageID, text, &kb); err != nil {
		b.logger.Debug().Err(err).Msg("Edit failed, sending new message")
		b.send(r, text, kb)
	}
}

func (b *Bot) mainMenuKeyboard(lang models.Language) tgbotapi.ReplyKeyboardMarkup {
	t := func(key string) tgbotapi.KeyboardButton {
		return tgbotapi.NewKeyboardButton(i18n.T(lang, key))
	}
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(t("btn.add_item"), t("btn.add_category")),
		tgbotapi.NewKeyboardButtonRow(t("btn.list"), t("btn.filter")),
		tgbotapi.NewKeyboardButtonRow(t("btn.categories"), t("btn.enter_code")),
		tgbotapi.NewKeyboardButtonRow(t("btn.settings")),
	)
}

// inputKeyboard is shown while a step waits for text.
func inputKeyboard(lang models.Language, skippable bool) tgbotapi.ReplyKeyboardMarkup {
	row := tgbotapi.NewKeyboardButtonRow()
	if skippable {
		row = append(row, tgbotapi.NewKeyboardButton(i18n.T(lang, "btn.skip")))
	}
	row = append(row, tgbotapi.NewKeyboardButton(i18n.T(lang, "btn.back")))
	return tgbotapi.NewReplyKeyboard(row)
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
	return buttons
}

func callbackData(prefix string, ids ...int64) string {
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, prefix)
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ":")
}

// parseCallback splits "prefix:a:b" into the prefix and its arguments.
func parseCallback(data string) (string, []string) {
	parts := strings.Split(data, ":")
	return parts[0], parts[1:]
}

func argInt(args []string, i int) int64 {
	if i >= len(args) {
		return 0
	}
	v, _ := strconv.ParseInt(args[i], 10, 64)
	return v
}

func argString(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i]
}

// parsePrice accepts "1500", "1 500", "99,90" and "99.90".
func parsePrice(text string) (decimal.Decimal, error) {
	text = strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(strings.TrimSpace(text))
	text = strings.TrimRight(text, "₽$€")
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %s", d)
	}
	return d, nil
}

// parsePriceRange reads "min-max"; either side may be empty.
func parsePriceRange(text string) (low, high decimal.NullDecimal, err error) {
	lo, hi, ok := strings.Cut(text, "-")
	if !ok {
		return low, high, fmt.Errorf("no separator in %q", text)
	}
	if strings.TrimSpace(lo) != "" {
		d, err := parsePrice(lo)
		if err != nil {
			return low, high, err
		}
		low = decimal.NewNullDecimal(d)
	}
	if strings.TrimSpace(hi) != "" {
		d, err := parsePrice(hi)
		if err != nil {
			return low, high, err
		}
		high = decimal.NewNullDecimal(d)
	}
	if !low.Valid && !high.Valid {
		return low, high, fmt.Errorf("empty range")
	}
	if low.Valid && high.Valid && high.Decimal.LessThan(low.Decimal) {
		return low, high, fmt.Errorf("range %s is reversed", text)
	}
	return low, high, nil
}

func parseDate(text string) (time.Time, error) {
	return time.ParseInLocation(models.DateFormat, strings.TrimSpace(text), time.UTC)
}

// parseDateRange reads a single date or "from - to".
func parseDateRange(text string) (from time.Time, to *time.Time, err error) {
	lo, hi, ok := strings.Cut(text, "-")
	from, err = parseDate(lo)
	if err != nil {
		return time.Time{}, nil, err
	}
	if !ok {
		return from, nil, nil
	}
	end, err := parseDate(hi)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end.Before(from) {
		return time.Time{}, nil, fmt.Errorf("range end %s before start %s", hi, lo)
	}
	return from, &end, nil
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.StringFixedBank(2)
}

func formatDates(from, to *time.Time) string {
	if from == nil {
		return ""
	}
	s := from.Format(models.DateFormat)
	if to != nil && !to.Equal(*from) {
		s += " - " + to.Format(models.DateFormat)
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
