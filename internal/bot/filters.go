package bot

import (
	"wishbot/internal/filter"
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

func (b *Bot) showFilterMenu(r *request, state *models.UserState, edit bool) {
	f := filterOf(state)
	summary := r.t("msg.filter_none")
	if !f.IsEmpty() {
		summary = b.describeFilter(r, f)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		row(button(r.t("filter.by_category"), "flt:cat"), button(r.t("filter.by_tag"), "flt:tag")),
		row(button(r.t("filter.by_price"), "flt:price"), button(r.t("filter.by_location"), "flt:loc")),
		row(button(r.t("filter.by_date"), "flt:date"), button(r.t("filter.by_type"), "flt:type")),
		row(button(r.t("filter.reset"), "flt:reset")),
		row(button(r.t("btn.show"), "flt:show"), button(r.t("btn.export"), "export")),
		row(button(r.t("btn.menu"), "menu")),
	)
	text := r.t("msg.filter", summary)
	if edit {
		b.edit(r, text, kb)
		return
	}
	b.send(r, text, kb)
}

func (b *Bot) onFilterCallback(r *request, state *models.UserState, prefix string, args []string) {
	f := filterOf(state)
	back := row(button(r.t("btn.back"), "flt:menu"))

	switch prefix {
	case "flt":
		switch argString(args, 0) {
		case "menu":
			b.resetFlow(r, state)
			b.showFilterMenu(r, state, true)

		case "cat":
			cats, err := b.categories.List(r.ctx, r.user.ID)
			if err != nil {
				b.fail(r, err)
				return
			}
			rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cats)+1)
			for _, c := range cats {
				rows = append(rows, row(button(truncate(c.Name, 40), callbackData("flt_cat", c.ID))))
			}
			rows = append(rows, back)
			b.edit(r, r.t("msg.choose_category"), tgbotapi.NewInlineKeyboardMarkup(rows...))

		case "tag":
			b.saveState(r, state, stepFilterTag)
			b.edit(r, r.t("msg.filter_tag"), b.tagKeyboard(r, nil, "flt_tag", "flt:menu", r.t("btn.back")))

		case "price":
			rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(filter.PricePresets)+2)
			for _, p := range filter.PricePresets {
				rows = append(rows, row(button(r.t("price."+p.Key), "flt_price:"+p.Key)))
			}
			rows = append(rows,
				row(button(r.t("filter.exact_price"), "flt_price:exact"), button(r.t("filter.price_range"), "flt_price:range")),
				back,
			)
			b.edit(r, r.t("msg.filter_price"), tgbotapi.NewInlineKeyboardMarkup(rows...))

		case "loc":
			rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(locationTypes)+1)
			for _, lt := range locationTypes {
				rows = append(rows, row(button(r.t("location."+string(lt)), "flt_loc:"+string(lt))))
			}
			rows = append(rows, back)
			b.edit(r, r.t("msg.filter_location"), tgbotapi.NewInlineKeyboardMarkup(rows...))

		case "date":
			kb := tgbotapi.NewInlineKeyboardMarkup(
				row(button(r.t("date.this_week"), "flt_date:"+string(filter.DateThisWeek))),
				row(button(r.t("date.this_month"), "flt_date:"+string(filter.DateThisMonth))),
				row(button(r.t("date.custom_range"), "flt_date:custom")),
				back,
			)
			b.edit(r, r.t("msg.filter_dates"), kb)

		case "type":
			rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(productTypes)+1)
			for _, pt := range productTypes {
				rows = append(rows, row(button(r.t("product."+string(pt)), "flt_type:"+string(pt))))
			}
			rows = append(rows, back)
			b.edit(r, r.t("msg.filter_type"), tgbotapi.NewInlineKeyboardMarkup(rows...))

		case "reset":
			putFilter(state, models.ItemFilter{})
			b.resetFlow(r, state)
			b.send(r, r.t("msg.filter_reset"), nil)
			b.showFilterMenu(r, state, false)

		case "show":
			b.resetFlow(r, state)
			b.showList(r, state, 0, false)
		}

	case "flt_cat":
		c, err := b.categories.Get(r.ctx, r.user.ID, argInt(args, 0))
		if err != nil {
			b.fail(r, err)
			return
		}
		f.CategoryID = c.ID
		b.applyFilter(r, state, f, true)

	case "flt_tag":
		tags, err := b.items.PopularTags(r.ctx, r.user.ID)
		if err != nil {
			b.fail(r, err)
			return
		}
		id := argInt(args, 0)
		for _, tag := range tags {
			if tag.ID == id {
				f.Tag = tag.Name
				b.applyFilter(r, state, f, true)
				return
			}
		}

	case "flt_price":
		switch key := argString(args, 0); key {
		case "exact":
			b.saveState(r, state, stepFilterExact)
			b.send(r, r.t("msg.filter_exact"), inputKeyboard(r.lang(), false))
		case "range":
			b.saveState(r, state, stepFilterRange)
			b.send(r, r.t("msg.filter_range"), inputKeyboard(r.lang(), false))
		default:
			preset, ok := filter.PricePresetByKey(key)
			if !ok {
				return
			}
			preset.Apply(&f)
			b.applyFilter(r, state, f, true)
		}

	case "flt_loc":
		lt := models.LocationType(argString(args, 0))
		if !lt.Valid() {
			return
		}
		f.LocationType, f.LocationValue = lt, ""
		putFilter(state, f)
		b.saveState(r, state, stepFilterLocation)

		locs, err := b.items.Locations(r.ctx, r.user.ID, lt)
		if err != nil {
			b.logger.Warn().Err(err).Int64("user_id", r.user.ID).Msg("Failed to load saved locations")
		}
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(locs)+1)
		for _, loc := range locs {
			rows = append(rows, row(button(truncate(loc.Name, 40), callbackData("flt_locval", loc.ID))))
		}
		rows = append(rows, row(button(r.t("btn.skip"), "flt:menu")))
		b.edit(r, r.t("msg.item_location_val"), tgbotapi.NewInlineKeyboardMarkup(rows...))

	case "flt_locval":
		locs, err := b.items.Locations(r.ctx, r.user.ID, f.LocationType)
		if err != nil {
			b.fail(r, err)
			return
		}
		id := argInt(args, 0)
		for _, loc := range locs {
			if loc.ID == id {
				f.LocationValue = loc.Name
				b.applyFilter(r, state, f, true)
				return
			}
		}

	case "flt_date":
		preset := filter.DatePreset(argString(args, 0))
		if preset.Apply(&f, b.now(), b.config.Notifications.Location()) {
			b.applyFilter(r, state, f, true)
			return
		}
		b.saveState(r, state, stepFilterDates)
		b.send(r, r.t("msg.filter_dates"), inputKeyboard(r.lang(), false))

	case "flt_type":
		pt := models.ProductType(argString(args, 0))
		if !pt.Valid() {
			return
		}
		f.ProductType = pt
		b.applyFilter(r, state, f, true)
	}
}

func (b *Bot) onFilterInput(r *request, state *models.UserState, text string) {
	f := filterOf(state)

	switch state.CurrentStep {
	case stepFilterTag:
		tag := models.NormalizeTag(text)
		if tag == "" {
			b.send(r, r.t("msg.filter_tag"), nil)
			return
		}
		f.Tag = tag

	case stepFilterExact:
		price, err := parsePrice(text)
		if err != nil {
			b.send(r, r.t("msg.invalid_price"), nil)
			return
		}
		f.PriceMin, f.PriceMax = decimal.NullDecimal{}, decimal.NullDecimal{}
		f.PriceExact = decimal.NewNullDecimal(price)

	case stepFilterRange:
		low, high, err := parsePriceRange(text)
		if err != nil {
			b.send(r, r.t("msg.invalid_range"), nil)
			return
		}
		f.PriceExact = decimal.NullDecimal{}
		f.PriceMin, f.PriceMax = low, high

	case stepFilterDates:
		from, to, err := parseDateRange(text)
		if err != nil {
			b.send(r, r.t("msg.invalid_date"), nil)
			return
		}
		if to == nil {
			to = &from
		}
		f.DateFrom, f.DateTo = &from, to

	case stepFilterLocation:
		if !isSkip(text) {
			f.LocationValue = text
		}
	}

	b.applyFilter(r, state, f, false)
}

// applyFilter stores f and shows the updated filter menu.
func (b *Bot) applyFilter(r *request, state *models.UserState, f models.ItemFilter, edit bool) {
	putFilter(state, f)
	b.saveState(r, state, stepNone)
	if !edit {
		// text input replaced the main keyboard
		b.send(r, r.t("msg.filter_applied"), b.mainMenuKeyboard(r.lang()))
	}
	b.showFilterMenu(r, state, edit)
}
