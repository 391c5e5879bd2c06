package bot

import (
	"strconv"

	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(r *request, callback *tgbotapi.CallbackQuery) {
	// answer right away so the client stops showing the spinner
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		zerolog.Ctx(r.ctx).Debug().Err(err).Msg("Failed to answer callback")
	}

	prefix, args := parseCallback(callback.Data)
	zerolog.Ctx(r.ctx).Debug().
		Int64("user_id", r.user.ID).
		Str("data", callback.Data).
		Msg("Handling callback")

	state := b.loadState(r)
	id := argInt(args, 0)

	switch prefix {
	case "menu":
		b.resetFlow(r, state)
		b.showMainMenu(r)

	case "cats":
		page, _ := strconv.Atoi(argString(args, 0))
		b.showCategories(r, page, true)
	case "cat_new":
		b.startAddCategory(r, state)
	case "cat":
		b.showCategory(r, id, true)
	case "cat_items":
		b.showCategoryItems(r, state, id)
	case "cat_rename":
		b.startRename(r, state, id)
	case "cat_date":
		b.startCategoryDate(r, state, id)
	case "cat_date_clear":
		b.clearCategoryDate(r, id)
	case "cat_sharing":
		if len(args) < 2 {
			b.showSharingChoice(r, id)
			return
		}
		b.changeSharing(r, id, models.SharingType(args[1]))
	case "cat_code":
		b.showShareCode(r, id)
	case "cat_members":
		b.showMembers(r, id)
	case "cat_delete":
		b.confirmDeleteCategory(r, id)
	case "cat_delete_ok":
		b.deleteCategory(r, state, id)

	case "item":
		b.showItem(r, id)
	case "item_edit":
		b.showEditFields(r, id)
	case "item_field":
		b.startEditField(r, state, id, argString(args, 1))
	case "item_delete":
		b.confirmDeleteItem(r, id)
	case "item_delete_ok":
		b.deleteItem(r, id)
	case "item_move":
		b.showMoveTargets(r, id)
	case "item_move_to":
		b.moveItem(r, id, argInt(args, 1))
	case "item_notify":
		b.toggleItemNotifications(r, id)
	case "list_page":
		page, _ := strconv.Atoi(argString(args, 0))
		b.showList(r, state, page, true)

	case "add_cat", "add_tag", "add_loc", "add_locval", "add_type", "add_skip", "add_save", "add_cancel":
		b.onItemCallback(r, state, prefix, args)

	case "flt", "flt_cat", "flt_tag", "flt_price", "flt_loc", "flt_locval", "flt_date", "flt_type":
		b.onFilterCallback(r, state, prefix, args)
	case "export":
		b.exportList(r, state)

	case "set":
		b.onSettingsCallback(r, args)

	default:
		zerolog.Ctx(r.ctx).Warn().Str("data", callback.Data).Msg("Unknown callback")
	}
}
