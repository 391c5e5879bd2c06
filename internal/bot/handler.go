package bot

import (
	"strings"

	"wishbot/internal/i18n"
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(r *request, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	zerolog.Ctx(r.ctx).Debug().
		Int64("user_id", r.user.ID).
		Str("username", r.user.Username).
		Str("text", text).
		Msg("Handling message")

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.clearState(r)
			b.send(r, r.t("msg.welcome", i18n.EscapeMarkdown(r.user.DisplayName())), b.mainMenuKeyboard(r.lang()))
		case "menu", "cancel":
			b.resetFlow(r, b.loadState(r))
			b.showMainMenu(r)
		default:
			b.send(r, r.t("msg.unknown"), b.mainMenuKeyboard(r.lang()))
		}
		return
	}

	state := b.loadState(r)

	switch {
	case i18n.Matches(text, "btn.back"), i18n.Matches(text, "btn.menu"), i18n.Matches(text, "btn.cancel"):
		b.resetFlow(r, state)
		b.send(r, r.t("msg.cancelled"), b.mainMenuKeyboard(r.lang()))
	case i18n.Matches(text, "btn.add_item"):
		b.startAddItem(r, state)
	case i18n.Matches(text, "btn.add_category"):
		b.startAddCategory(r, state)
	case i18n.Matches(text, "btn.categories"):
		b.resetFlow(r, state)
		b.showCategories(r, 0, false)
	case i18n.Matches(text, "btn.list"):
		b.resetFlow(r, state)
		b.showList(r, state, 0, false)
	case i18n.Matches(text, "btn.filter"):
		b.resetFlow(r, state)
		b.showFilterMenu(r, state, false)
	case i18n.Matches(text, "btn.enter_code"):
		b.startEnterCode(r, state)
	case i18n.Matches(text, "btn.settings"):
		b.resetFlow(r, state)
		b.showSettings(r, false)
	default:
		b.handleStepInput(r, state, msg)
	}
}

func (b *Bot) handleStepInput(r *request, state *models.UserState, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch state.CurrentStep {
	case stepCategoryName:
		b.onCategoryName(r, state, text)
	case stepCategoryRename:
		b.onCategoryRename(r, state, text)
	case stepCategoryDate:
		b.onCategoryDate(r, state, text)
	case stepEnterCode:
		b.onEnterCode(r, state, text)

	case stepItemName, stepItemPrice, stepItemTags, stepItemLocationValue,
		stepItemDate, stepItemURL, stepItemComment, stepItemPhoto:
		b.onItemInput(r, state, msg)
	case stepItemCategory, stepItemLocation, stepItemType, stepItemConfirm:
		// these steps are answered with buttons
		draft, err := draftOf(state)
		if err != nil {
			b.abortFlow(r, state, err)
			return
		}
		b.promptItemStep(r, state.CurrentStep, draft, state.GetBool(keyEditing))

	case stepFilterTag, stepFilterExact, stepFilterRange, stepFilterDates, stepFilterLocation:
		b.onFilterInput(r, state, text)

	default:
		b.send(r, r.t("msg.unknown"), b.mainMenuKeyboard(r.lang()))
	}
}

func (b *Bot) showMainMenu(r *request) {
	b.send(r, r.t("msg.main_menu"), b.mainMenuKeyboard(r.lang()))
}

// abortFlow reports err and returns the user to the main menu.
func (b *Bot) abortFlow(r *request, state *models.UserState, err error) {
	b.resetFlow(r, state)
	b.fail(r, err)
	b.showMainMenu(r)
}

func isSkip(text string) bool {
	return i18n.Matches(text, "btn.skip") || i18n.Matches(text, "btn.continue")
}
