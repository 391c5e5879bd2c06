package bot

import (
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showSettings(r *request, edit bool) {
	notifications := r.t("msg.off")
	if r.user.NotificationsEnabled {
		notifications = r.t("msg.on")
	}
	text := r.t("msg.settings", notifications, r.t("btn.lang_"+string(r.lang())))

	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(button(r.t("btn.toggle_notifications"), "set:notify")),
		row(button(r.t("btn.lang_en"), "set:lang:en"), button(r.t("btn.lang_ru"), "set:lang:ru")),
		row(button(r.t("btn.menu"), "menu")),
	)
	if edit {
		b.edit(r, text, kb)
		return
	}
	b.send(r, text, kb)
}

func (b *Bot) onSettingsCallback(r *request, args []string) {
	switch argString(args, 0) {
	case "notify":
		enabled, err := b.users.ToggleNotifications(r.ctx, r.user)
		if err != nil {
			b.fail(r, err)
			return
		}
		r.user.NotificationsEnabled = enabled
		b.showSettings(r, true)

	case "lang":
		lang := models.Language(argString(args, 1))
		if err := b.users.SetLanguage(r.ctx, r.user, lang); err != nil {
			b.fail(r, err)
			return
		}
		r.user.Language = lang
		// the reply keyboard is re-sent in the new language
		b.send(r, r.t("msg.language_set"), b.mainMenuKeyboard(lang))
		b.showSettings(r, false)
	}
}
