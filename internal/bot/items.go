package bot

import (
	"fmt"
	"strings"

	"wishbot/internal/access"
	"wishbot/internal/i18n"
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

const (
	keyCategoryName = "category_name"

	// Telegram caps photo captions.
	maxCaptionLength = 1024
)

var (
	locationTypes = []models.LocationType{models.LocationInCity, models.LocationOutOfCity, models.LocationByDistrict}
	productTypes  = []models.ProductType{models.ProductEvent, models.ProductVenue, models.ProductItem}
)

// editSteps maps the editable fields of the item card to their input step.
var editSteps = map[string]string{
	"name":     stepItemName,
	"tags":     stepItemTags,
	"price":    stepItemPrice,
	"date":     stepItemDate,
	"location": stepItemLocation,
	"comment":  stepItemComment,
	"url":      stepItemURL,
	"photo":    stepItemPhoto,
	"type":     stepItemType,
}

var editFields = []string{"name", "tags", "price", "date", "location", "comment", "url", "photo", "type"}

func (b *Bot) startAddItem(r *request, state *models.UserState) {
	b.resetFlow(r, state)
	if err := putDraft(state, &models.Item{}); err != nil {
		b.abortFlow(r, state, err)
		return
	}
	b.saveState(r, state, stepItemCategory)
	b.promptItemStep(r, stepItemCategory, &models.Item{}, false)
}

func (b *Bot) promptItemStep(r *request, step string, draft *models.Item, editing bool) {
	switch step {
	case stepItemCategory:
		cats, err := b.categories.ListEditable(r.ctx, r.user.ID)
		if err != nil {
			b.fail(r, err)
			return
		}
		if len(cats) == 0 {
			b.send(r, r.t("msg.no_editable"), tgbotapi.NewInlineKeyboardMarkup(row(button(r.t("btn.add_category"), "cat_new"))))
			return
		}
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, row(button(truncate(c.Name, 40), callbackData("add_cat", c.ID))))
		}
		b.send(r, r.t("msg.choose_category"), tgbotapi.NewInlineKeyboardMarkup(rows...))

	case stepItemName:
		b.send(r, r.t("msg.item_name"), inputKeyboard(r.lang(), false))
	case stepItemPrice:
		b.send(r, r.t("msg.item_price"), inputKeyboard(r.lang(), true))

	case stepItemTags:
		text := r.t("msg.item_tags")
		if len(draft.Tags) > 0 {
			text += "\n\n" + r.t("msg.item_tags_current", i18n.EscapeMarkdown(draft.Tags.String()))
		}
		done := r.t("btn.continue")
		if editing {
			done = r.t("btn.save")
		}
		b.send(r, text, b.tagKeyboard(r, draft.Tags, "add_tag", "add_skip", done))

	case stepItemLocation:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(locationTypes)+1)
		for _, lt := range locationTypes {
			rows = append(rows, row(button(r.t("location."+string(lt)), "add_loc:"+string(lt))))
		}
		rows = append(rows, row(button(r.t("btn.skip"), "add_skip")))
		b.send(r, r.t("msg.item_location"), tgbotapi.NewInlineKeyboardMarkup(rows...))

	case stepItemLocationValue:
		locs, err := b.items.Locations(r.ctx, r.user.ID, draft.LocationType)
		if err != nil {
			b.logger.Warn().Err(err).Int64("user_id", r.user.ID).Msg("Failed to load saved locations")
		}
		if len(locs) == 0 {
			b.send(r, r.t("msg.item_location_val"), inputKeyboard(r.lang(), true))
			return
		}
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(locs))
		for _, loc := range locs {
			rows = append(rows, row(button(truncate(loc.Name, 40), callbackData("add_locval", loc.ID))))
		}
		b.send(r, r.t("msg.item_location_val"), tgbotapi.NewInlineKeyboardMarkup(rows...))

	case stepItemDate:
		b.send(r, r.t("msg.item_date"), inputKeyboard(r.lang(), true))
	case stepItemURL:
		b.send(r, r.t("msg.item_url"), inputKeyboard(r.lang(), true))
	case stepItemComment:
		b.send(r, r.t("msg.item_comment"), inputKeyboard(r.lang(), true))
	case stepItemPhoto:
		b.send(r, r.t("msg.item_photo"), inputKeyboard(r.lang(), true))

	case stepItemType:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(productTypes)+1)
		for _, pt := range productTypes {
			rows = append(rows, row(button(r.t("product."+string(pt)), "add_type:"+string(pt))))
		}
		rows = append(rows, row(button(r.t("btn.skip"), "add_skip")))
		b.send(r, r.t("msg.item_type"), tgbotapi.NewInlineKeyboardMarkup(rows...))

	case stepItemConfirm:
		state := b.loadState(r)
		kb := tgbotapi.NewInlineKeyboardMarkup(row(
			button(r.t("btn.save"), "add_save"),
			button(r.t("btn.cancel"), "add_cancel"),
		))
		b.send(r, r.t("msg.item_confirm", b.renderItem(r, draft, state.GetString(keyCategoryName))), kb)
	}
}

// tagKeyboard offers the user's popular tags not yet on the item.
func (b *Bot) tagKeyboard(r *request, current models.Tags, prefix, doneData, doneText string) tgbotapi.InlineKeyboardMarkup {
	tags, err := b.items.PopularTags(r.ctx, r.user.ID)
	if err != nil {
		b.logger.Warn().Err(err).Int64("user_id", r.user.ID).Msg("Failed to load popular tags")
	}

	taken := make(map[string]struct{}, len(current))
	for _, t := range current {
		taken[t] = struct{}{}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var line []tgbotapi.InlineKeyboardButton
	for _, tag := range tags {
		if _, ok := taken[tag.Name]; ok {
			continue
		}
		line = append(line, button("#"+truncate(tag.Name, 30), callbackData(prefix, tag.ID)))
		if len(line) == 3 {
			rows = append(rows, line)
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, line)
	}
	rows = append(rows, row(button(doneText, doneData)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) onItemInput(r *request, state *models.UserState, msg *tgbotapi.Message) {
	draft, err := draftOf(state)
	if err != nil {
		b.abortFlow(r, state, err)
		return
	}
	editing := state.GetBool(keyEditing)
	step := state.CurrentStep
	text := strings.TrimSpace(msg.Text)
	skip := isSkip(text)

	switch step {
	case stepItemName:
		if skip || text == "" {
			b.promptItemStep(r, step, draft, editing)
			return
		}
		draft.Name = text

	case stepItemPrice:
		if skip {
			draft.Price = decimal.NullDecimal{}
			break
		}
		price, err := parsePrice(text)
		if err != nil {
			b.send(r, r.t("msg.invalid_price"), nil)
			return
		}
		draft.Price = decimal.NewNullDecimal(price)

	case stepItemTags:
		if skip {
			break
		}
		if editing {
			draft.Tags = models.ParseTags(text)
			break
		}
		draft.Tags = models.ParseTags(draft.Tags.String() + " " + text)
		b.stayOnStep(r, state, draft)
		return

	case stepItemLocationValue:
		if skip {
			draft.LocationValue = ""
			break
		}
		draft.LocationValue = text

	case stepItemDate:
		if skip {
			draft.DateFrom, draft.DateTo = nil, nil
			break
		}
		from, to, err := parseDateRange(text)
		if err != nil {
			b.send(r, r.t("msg.invalid_date"), nil)
			return
		}
		draft.DateFrom, draft.DateTo = &from, to

	case stepItemURL:
		if skip {
			draft.URL = ""
			break
		}
		if err := b.validate.Var(text, "url"); err != nil {
			b.send(r, r.t("err.validation"), nil)
			return
		}
		draft.URL = text

	case stepItemComment:
		if skip {
			draft.Comment = ""
			break
		}
		draft.Comment = text

	case stepItemPhoto:
		if skip {
			draft.PhotoFileID = ""
			break
		}
		if len(msg.Photo) == 0 {
			b.send(r, r.t("msg.photo_expected"), nil)
			return
		}
		// sizes are ordered from smallest to largest
		photo := msg.Photo[len(msg.Photo)-1]
		if limit := b.config.Limits.MaxPhotoBytes; limit > 0 && int64(photo.FileSize) > limit {
			b.send(r, r.t("msg.photo_too_large"), nil)
			return
		}
		draft.PhotoFileID = photo.FileID
	}

	b.advance(r, state, draft, step)
}

func (b *Bot) onItemCallback(r *request, state *models.UserState, prefix string, args []string) {
	draft, err := draftOf(state)
	if err != nil {
		b.abortFlow(r, state, err)
		return
	}
	step := state.CurrentStep

	switch prefix {
	case "add_cat":
		if step != stepItemCategory {
			return
		}
		c, err := b.categories.Get(r.ctx, r.user.ID, argInt(args, 0))
		if err != nil {
			b.fail(r, err)
			return
		}
		if !c.Role.CanEdit() {
			b.fail(r, access.ErrForbidden)
			return
		}
		draft.CategoryID = c.ID
		state.Set(keyCategoryName, c.Name)
		b.moveTo(r, state, draft, nextAddStep(step, draft))

	case "add_tag":
		if step != stepItemTags {
			return
		}
		tags, err := b.items.PopularTags(r.ctx, r.user.ID)
		if err != nil {
			b.fail(r, err)
			return
		}
		id := argInt(args, 0)
		for _, tag := range tags {
			if tag.ID == id {
				draft.Tags = models.ParseTags(draft.Tags.String() + " " + tag.Name)
			}
		}
		b.stayOnStep(r, state, draft)

	case "add_loc":
		if step != stepItemLocation {
			return
		}
		lt := models.LocationType(argString(args, 0))
		if !lt.Valid() {
			return
		}
		if draft.LocationType != lt {
			draft.LocationValue = ""
		}
		draft.LocationType = lt
		b.moveTo(r, state, draft, stepItemLocationValue)

	case "add_locval":
		if step != stepItemLocationValue {
			return
		}
		locs, err := b.items.Locations(r.ctx, r.user.ID, draft.LocationType)
		if err != nil {
			b.fail(r, err)
			return
		}
		id := argInt(args, 0)
		for _, loc := range locs {
			if loc.ID == id {
				draft.LocationValue = loc.Name
				b.advance(r, state, draft, step)
				return
			}
		}

	case "add_type":
		if step != stepItemType {
			return
		}
		pt := models.ProductType(argString(args, 0))
		if !pt.Valid() {
			return
		}
		draft.ProductType = pt
		b.advance(r, state, draft, step)

	case "add_skip":
		switch step {
		case stepItemTags:
		case stepItemLocation:
			draft.LocationType, draft.LocationValue = "", ""
		case stepItemType:
			draft.ProductType = ""
		default:
			return
		}
		b.advance(r, state, draft, step)

	case "add_save":
		if step != stepItemConfirm {
			return
		}
		if err := b.items.Create(r.ctx, r.user, draft); err != nil {
			b.abortFlow(r, state, err)
			return
		}
		b.countItem("create")
		b.resetFlow(r, state)
		b.send(r, r.t("msg.item_saved"), b.mainMenuKeyboard(r.lang()))
		b.showItem(r, draft.ID)

	case "add_cancel":
		b.resetFlow(r, state)
		b.send(r, r.t("msg.cancelled"), b.mainMenuKeyboard(r.lang()))
	}
}

// advance completes the current step: a single-field edit is saved, the
// creation flow moves on.
func (b *Bot) advance(r *request, state *models.UserState, draft *models.Item, current string) {
	if state.GetBool(keyEditing) {
		b.saveEdit(r, state, draft)
		return
	}
	b.moveTo(r, state, draft, nextAddStep(current, draft))
}

func (b *Bot) moveTo(r *request, state *models.UserState, draft *models.Item, step string) {
	if err := putDraft(state, draft); err != nil {
		b.abortFlow(r, state, err)
		return
	}
	b.saveState(r, state, step)
	b.promptItemStep(r, step, draft, state.GetBool(keyEditing))
}

func (b *Bot) stayOnStep(r *request, state *models.UserState, draft *models.Item) {
	b.moveTo(r, state, draft, state.CurrentStep)
}

func (b *Bot) saveEdit(r *request, state *models.UserState, draft *models.Item) {
	if err := b.items.Update(r.ctx, r.user, draft); err != nil {
		b.abortFlow(r, state, err)
		return
	}
	b.countItem("update")
	b.resetFlow(r, state)
	b.send(r, r.t("msg.item_updated"), b.mainMenuKeyboard(r.lang()))
	b.showItem(r, draft.ID)
}

func (b *Bot) countItem(action string) {
	if b.metrics != nil {
		b.metrics.ItemsSaved.WithLabelValues(action).Inc()
	}
}

func (b *Bot) showItem(r *request, itemID int64) {
	item, canEdit, err := b.items.Get(r.ctx, r.user.ID, itemID)
	if err != nil {
		b.fail(r, err)
		return
	}

	text := b.renderItem(r, &item.Item, item.CategoryName)

	var rows [][]tgbotapi.InlineKeyboardButton
	if canEdit {
		notify := r.t("btn.notify_off")
		if item.NotificationsEnabled {
			notify = r.t("btn.notify_on")
		}
		rows = append(rows,
			row(button(r.t("btn.edit"), callbackData("item_edit", item.ID)), button(r.t("btn.move"), callbackData("item_move", item.ID))),
			row(button(notify, callbackData("item_notify", item.ID))),
			row(button(r.t("btn.delete"), callbackData("item_delete", item.ID))),
		)
	}
	rows = append(rows, row(button(r.t("btn.back"), "list_page:0")))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if !item.HasPhoto() {
		b.send(r, text, kb)
		return
	}
	if len([]rune(text)) <= maxCaptionLength {
		if _, err := b.tgService.SendPhoto(r.chatID, item.PhotoFileID, text, &kb); err != nil {
			b.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("Failed to send item photo")
			b.send(r, text, kb)
		}
		return
	}
	if _, err := b.tgService.SendPhoto(r.chatID, item.PhotoFileID, "", nil); err != nil {
		b.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("Failed to send item photo")
	}
	b.send(r, text, kb)
}

// renderItem formats an item card in Markdown.
func (b *Bot) renderItem(r *request, item *models.Item, categoryName string) string {
	var s strings.Builder
	line := func(field, value string) {
		s.WriteString(fmt.Sprintf("%s: %s\n", r.t("field."+field), value))
	}

	s.WriteString("*" + i18n.EscapeMarkdown(item.Name) + "*\n\n")
	if categoryName != "" {
		line("category", i18n.EscapeMarkdown(categoryName))
	}
	if item.ProductType != "" {
		line("type", r.t("product."+string(item.ProductType)))
	}
	if item.Price.Valid {
		line("price", formatPrice(item.Price))
	}
	if len(item.Tags) > 0 {
		line("tags", i18n.EscapeMarkdown(item.Tags.String()))
	}
	if item.LocationType != "" {
		loc := r.t("location." + string(item.LocationType))
		if item.LocationValue != "" {
			loc += ", " + i18n.EscapeMarkdown(item.LocationValue)
		}
		line("location", loc)
	}
	if item.DateFrom != nil {
		line("date", formatDates(item.DateFrom, item.DateTo))
	}
	if item.URL != "" {
		line("url", i18n.EscapeMarkdown(item.URL))
	}
	if item.Comment != "" {
		line("comment", i18n.EscapeMarkdown(item.Comment))
	}
	return strings.TrimRight(s.String(), "\n")
}

func (b *Bot) showEditFields(r *request, itemID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(editFields)/2+2)
	var line []tgbotapi.InlineKeyboardButton
	for _, field := range editFields {
		line = append(line, button(r.t("field."+field), fmt.Sprintf("item_field:%d:%s", itemID, field)))
		if len(line) == 2 {
			rows = append(rows, line)
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, line)
	}
	rows = append(rows, row(button(r.t("field.category"), callbackData("item_move", itemID))))
	rows = append(rows, row(button(r.t("btn.back"), callbackData("item", itemID))))
	b.edit(r, r.t("msg.choose_field"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) startEditField(r *request, state *models.UserState, itemID int64, field string) {
	step, ok := editSteps[field]
	if !ok {
		return
	}
	item, canEdit, err := b.items.Get(r.ctx, r.user.ID, itemID)
	if err != nil {
		b.fail(r, err)
		return
	}
	if !canEdit {
		b.fail(r, access.ErrForbidden)
		return
	}

	b.resetFlow(r, state)
	state.Set(keyEditing, true)
	state.Set(keyCategoryName, item.CategoryName)
	draft := item.Item
	b.moveTo(r, state, &draft, step)
}

func (b *Bot) confirmDeleteItem(r *request, itemID int64) {
	item, canEdit, err := b.items.Get(r.ctx, r.user.ID, itemID)
	if err != nil {
		b.fail(r, err)
		return
	}
	if !canEdit {
		b.fail(r, access.ErrForbidden)
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row(
		button(r.t("btn.yes"), callbackData("item_delete_ok", itemID)),
		button(r.t("btn.no"), callbackData("item", itemID)),
	))
	b.send(r, r.t("msg.confirm_delete", i18n.EscapeMarkdown(item.Name)), kb)
}

func (b *Bot) deleteItem(r *request, itemID int64) {
	if err := b.items.Delete(r.ctx, r.user, itemID); err != nil {
		b.fail(r, err)
		return
	}
	b.countItem("delete")
	b.edit(r, r.t("msg.item_deleted"), tgbotapi.NewInlineKeyboardMarkup(row(button(r.t("btn.back"), "list_page:0"))))
}

func (b *Bot) showMoveTargets(r *request, itemID int64) {
	item, canEdit, err := b.items.Get(r.ctx, r.user.ID, itemID)
	if err != nil {
		b.fail(r, err)
		return
	}
	if !canEdit {
		b.fail(r, access.ErrForbidden)
		return
	}
	cats, err := b.categories.ListEditable(r.ctx, r.user.ID)
	if err != nil {
		b.fail(r, err)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		if c.ID == item.CategoryID {
			continue
		}
		rows = append(rows, row(button(truncate(c.Name, 40), callbackData("item_move_to", itemID, c.ID))))
	}
	back := row(button(r.t("btn.back"), callbackData("item", itemID)))
	if len(rows) == 0 {
		b.send(r, r.t("msg.no_targets"), tgbotapi.NewInlineKeyboardMarkup(back))
		return
	}
	rows = append(rows, back)
	b.send(r, r.t("msg.move_to"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) moveItem(r *request, itemID, categoryID int64) {
	if err := b.items.Move(r.ctx, r.user, itemID, categoryID); err != nil {
		b.fail(r, err)
		return
	}
	b.countItem("move")
	c, err := b.categories.Get(r.ctx, r.user.ID, categoryID)
	if err != nil {
		b.fail(r, err)
		return
	}
	b.edit(r, r.t("msg.item_moved", i18n.EscapeMarkdown(c.Name)),
		tgbotapi.NewInlineKeyboardMarkup(row(button(r.t("btn.show"), callbackData("item", itemID)))))
}

func (b *Bot) toggleItemNotifications(r *request, itemID int64) {
	enabled, err := b.items.ToggleNotifications(r.ctx, r.user, itemID)
	if err != nil {
		b.fail(r, err)
		return
	}
	if enabled {
		b.send(r, r.t("msg.reminders_on"), nil)
		return
	}
	b.send(r, r.t("msg.reminders_off"), nil)
}
