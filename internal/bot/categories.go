package bot

import (
	"fmt"
	"strings"

	"wishbot/internal/access"
	"wishbot/internal/i18n"
	"wishbot/internal/models"
	"wishbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var sharingTypes = []models.SharingType{
	models.SharingPrivate,
	models.SharingViewOnly,
	models.SharingCollaborative,
}

func (b *Bot) startAddCategory(r *request, state *models.UserState) {
	b.resetFlow(r, state)
	b.saveState(r, state, stepCategoryName)
	b.send(r, r.t("msg.category_name"), inputKeyboard(r.lang(), false))
}

func (b *Bot) onCategoryName(r *request, state *models.UserState, text string) {
	category, err := b.categories.Create(r.ctx, r.user, text, nil)
	if err != nil {
		if access.KindOf(err) == access.KindValidation && !is(err, service.ErrCategoryLimit) {
			// stay on the step so the user can fix the name
			b.fail(r, err)
			return
		}
		b.abortFlow(r, state, err)
		return
	}
	b.resetFlow(r, state)
	b.send(r, r.t("msg.category_created", i18n.EscapeMarkdown(category.Name)), b.mainMenuKeyboard(r.lang()))
	b.showCategory(r, category.ID, false)
}

func (b *Bot) showCategories(r *request, page int, edit bool) {
	list, err := b.categories.List(r.ctx, r.user.ID)
	if err != nil {
		b.fail(r, err)
		return
	}

	footer := [][]tgbotapi.InlineKeyboardButton{
		row(button(r.t("btn.add_category"), "cat_new")),
		row(button(r.t("btn.menu"), "menu")),
	}
	if len(list) == 0 {
		kb := tgbotapi.NewInlineKeyboardMarkup(footer...)
		if edit {
			b.edit(r, r.t("msg.no_categories"), kb)
		} else {
			b.send(r, r.t("msg.no_categories"), kb)
		}
		return
	}

	params := PaginationParams{
		Page:       page,
		Title:      r.t("msg.categories"),
		PagePrefix: "cats",
		Footer:     footer,
		Edit:       edit,
	}
	b.renderPaginatedList(r, params, len(list), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton
		for i, c := range list[startIdx:endIdx] {
			content.WriteString(fmt.Sprintf("%d. *%s* · %s · %s\n",
				startIdx+i+1, i18n.EscapeMarkdown(c.Name), r.t("sharing."+string(c.SharingType)), r.t("role."+string(c.Role))))
			keyboard = append(keyboard, row(button(
				fmt.Sprintf("%d. %s", startIdx+i+1, truncate(c.Name, 40)),
				callbackData("cat", c.ID),
			)))
		}
		return content.String(), keyboard
	})
}

func (b *Bot) showCategory(r *request, categoryID int64, edit bool) {
	c, err := b.categories.Get(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}

	text := r.t("msg.category_card",
		i18n.EscapeMarkdown(c.Name), r.t("sharing."+string(c.SharingType)), r.t("role."+string(c.Role)))
	if c.Date != nil {
		text += "\n" + r.t("msg.category_date", c.Date.Format(models.DateFormat))
	}
	if c.Role == models.RoleOwner && c.Code() != "" {
		text += "\n" + r.t("msg.category_code", c.Code())
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		row(button(r.t("btn.items"), callbackData("cat_items", c.ID))),
	}
	if c.Role == models.RoleOwner {
		dateRow := row(button(r.t("btn.set_date"), callbackData("cat_date", c.ID)))
		if c.Date != nil {
			dateRow = append(dateRow, button(r.t("btn.clear_date"), callbackData("cat_date_clear", c.ID)))
		}
		rows = append(rows,
			row(button(r.t("btn.rename"), callbackData("cat_rename", c.ID))),
			dateRow,
			row(button(r.t("btn.change_sharing"), callbackData("cat_sharing", c.ID))),
		)
		if c.SharingType.IsShared() {
			rows = append(rows, row(
				button(r.t("btn.share_code"), callbackData("cat_code", c.ID)),
				button(r.t("btn.members"), callbackData("cat_members", c.ID)),
			))
		}
		rows = append(rows, row(button(r.t("btn.delete"), callbackData("cat_delete", c.ID))))
	}
	rows = append(rows, row(button(r.t("btn.back"), "cats:0")))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if edit {
		b.edit(r, text, kb)
		return
	}
	b.send(r, text, kb)
}

// showCategoryItems narrows the list filter to one category.
func (b *Bot) showCategoryItems(r *request, state *models.UserState, categoryID int64) {
	f := filterOf(state)
	f.CategoryID = categoryID
	putFilter(state, f)
	b.saveState(r, state, stepNone)
	b.showList(r, state, 0, false)
}

func (b *Bot) startRename(r *request, state *models.UserState, categoryID int64) {
	b.resetFlow(r, state)
	state.Set(keyCategory, categoryID)
	b.saveState(r, state, stepCategoryRename)
	b.send(r, r.t("msg.category_name"), inputKeyboard(r.lang(), false))
}

func (b *Bot) onCategoryRename(r *request, state *models.UserState, text string) {
	categoryID := state.GetInt64(keyCategory)
	if err := b.categories.Rename(r.ctx, r.user.ID, categoryID, text); err != nil {
		if access.KindOf(err) == access.KindValidation {
			b.fail(r, err)
			return
		}
		b.abortFlow(r, state, err)
		return
	}
	b.resetFlow(r, state)
	b.send(r, r.t("msg.renamed"), b.mainMenuKeyboard(r.lang()))
	b.showCategory(r, categoryID, false)
}

func (b *Bot) startCategoryDate(r *request, state *models.UserState, categoryID int64) {
	b.resetFlow(r, state)
	state.Set(keyCategory, categoryID)
	b.saveState(r, state, stepCategoryDate)
	b.send(r, r.t("msg.date_prompt"), inputKeyboard(r.lang(), false))
}

func (b *Bot) onCategoryDate(r *request, state *models.UserState, text string) {
	date, err := parseDate(text)
	if err != nil {
		b.send(r, r.t("msg.invalid_date"), nil)
		return
	}
	categoryID := state.GetInt64(keyCategory)
	if err := b.categories.SetDate(r.ctx, r.user.ID, categoryID, &date); err != nil {
		b.abortFlow(r, state, err)
		return
	}
	b.resetFlow(r, state)
	b.send(r, r.t("msg.date_saved"), b.mainMenuKeyboard(r.lang()))
	b.showCategory(r, categoryID, false)
}

func (b *Bot) clearCategoryDate(r *request, categoryID int64) {
	if err := b.categories.SetDate(r.ctx, r.user.ID, categoryID, nil); err != nil {
		b.fail(r, err)
		return
	}
	b.send(r, r.t("msg.date_cleared"), nil)
	b.showCategory(r, categoryID, false)
}

func (b *Bot) showSharingChoice(r *request, categoryID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sharingTypes)+1)
	for _, t := range sharingTypes {
		rows = append(rows, row(button(r.t("sharing."+string(t)), fmt.Sprintf("cat_sharing:%d:%s", categoryID, t))))
	}
	rows = append(rows, row(button(r.t("btn.back"), callbackData("cat", categoryID))))
	b.edit(r, r.t("msg.choose_sharing"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) changeSharing(r *request, categoryID int64, sharingType models.SharingType) {
	change, err := b.categories.ChangeSharing(r.ctx, r.user.ID, categoryID, sharingType)
	if err != nil {
		b.fail(r, err)
		return
	}

	text := r.t("msg.sharing_changed", r.t("sharing."+string(change.Category.SharingType)))
	if change.Code != "" {
		text += "\n\n" + r.t("msg.share_code", change.Code, i18n.EscapeMarkdown(change.Category.Name))
	}
	if len(change.Revoked) > 0 {
		text += "\n\n" + r.t("msg.access_revoked", len(change.Revoked))
	}
	b.send(r, text, nil)
	b.showCategory(r, categoryID, false)
}

func (b *Bot) showShareCode(r *request, categoryID int64) {
	c, err := b.categories.Get(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}
	code, err := b.categories.ShareCode(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}
	b.send(r, r.t("msg.share_code", code, i18n.EscapeMarkdown(c.Name)), nil)
}

func (b *Bot) showMembers(r *request, categoryID int64) {
	members, err := b.categories.Members(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}

	var text strings.Builder
	if len(members) == 0 {
		text.WriteString(r.t("msg.no_members"))
	} else {
		text.WriteString(r.t("msg.members"))
		text.WriteString("\n\n")
		for _, m := range members {
			text.WriteString("• " + i18n.EscapeMarkdown(m.DisplayName()))
			if m.Username != "" {
				text.WriteString(" (@" + i18n.EscapeMarkdown(m.Username) + ")")
			}
			text.WriteString("\n")
		}
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row(button(r.t("btn.back"), callbackData("cat", categoryID))))
	b.edit(r, text.String(), kb)
}

func (b *Bot) confirmDeleteCategory(r *request, categoryID int64) {
	c, err := b.categories.Get(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row(
		button(r.t("btn.yes"), callbackData("cat_delete_ok", categoryID)),
		button(r.t("btn.no"), callbackData("cat", categoryID)),
	))
	b.edit(r, r.t("msg.confirm_delete_cat", i18n.EscapeMarkdown(c.Name)), kb)
}

func (b *Bot) deleteCategory(r *request, state *models.UserState, categoryID int64) {
	if err := b.categories.Delete(r.ctx, r.user.ID, categoryID); err != nil {
		b.fail(r, err)
		return
	}
	if f := filterOf(state); f.CategoryID == categoryID {
		f.CategoryID = 0
		putFilter(state, f)
		b.saveState(r, state, state.CurrentStep)
	}
	b.edit(r, r.t("msg.category_deleted"), tgbotapi.NewInlineKeyboardMarkup(row(button(r.t("btn.back"), "cats:0"))))
}

func (b *Bot) startEnterCode(r *request, state *models.UserState) {
	b.resetFlow(r, state)
	b.saveState(r, state, stepEnterCode)
	b.send(r, r.t("msg.enter_code"), inputKeyboard(r.lang(), false))
}

func (b *Bot) onEnterCode(r *request, state *models.UserState, text string) {
	redemption, err := b.categories.RedeemCode(r.ctx, r.user, text)
	if err != nil {
		b.abortFlow(r, state, err)
		return
	}
	b.resetFlow(r, state)

	name := i18n.EscapeMarkdown(redemption.Category.Name)
	if redemption.Outcome == access.OutcomeAlreadyMember {
		b.send(r, r.t("msg.code_already", name), b.mainMenuKeyboard(r.lang()))
		return
	}
	role := models.RoleViewer
	if redemption.CanEdit {
		role = models.RoleEditor
	}
	b.send(r, r.t("msg.code_granted", name, r.t("role."+string(role))), b.mainMenuKeyboard(r.lang()))
	b.showCategory(r, redemption.Category.ID, false)
}
